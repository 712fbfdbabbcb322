// Package cli holds the cobra commands of the catalog binary.
package cli

import (
	"github.com/mytheresa/catalog-admin/app/config"
	"github.com/mytheresa/catalog-admin/app/logging"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Product catalog admin API",
	Long:          "catalog serves the category and product admin API and offers maintenance commands for the same store.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads configuration and sets up logging for every command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.IsDevelopment())
	return cfg, nil
}
