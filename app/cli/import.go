package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mytheresa/catalog-admin/app/importer"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk import products from a CSV or XLSX file",
	Long:  "Runs the same all-or-nothing pipeline as POST /api/products/bulk against a local file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, ok := importer.FormatFromFilename(args[0])
		if !ok {
			return fmt.Errorf("only .csv and .xlsx files are allowed")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.products.BulkImport(cmd.Context(), format, data)
		if err != nil {
			return err
		}
		log.Info().Str("import_id", result.ImportID).Int("inserted", result.InsertedCount).Msg("import finished")
		return nil
	},
}

var templateFormat string

var templateCmd = &cobra.Command{
	Use:   "template <output>",
	Short: "Write an empty import template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, ok := importer.FormatFromFilename("template." + templateFormat)
		if !ok {
			return fmt.Errorf("format must be csv or xlsx")
		}
		body, err := importer.Template(format)
		if err != nil {
			return err
		}
		return os.WriteFile(args[0], body, 0o644)
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge-category <id>",
	Short: "Physically delete a category that no product references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 0)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid category id %q", args[0])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.categoryRepo.HardDeleteCategory(cmd.Context(), uint(id)); err != nil {
			return err
		}
		log.Info().Uint64("category_id", id).Msg("category purged")
		return nil
	},
}

func init() {
	templateCmd.Flags().StringVar(&templateFormat, "format", "csv", "template format: csv or xlsx")
	rootCmd.AddCommand(importCmd, templateCmd, purgeCmd)
}
