package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mytheresa/catalog-admin/app/catalog"
	"github.com/mytheresa/catalog-admin/app/categories"
	"github.com/mytheresa/catalog-admin/app/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		handlers := server.Handlers{
			Catalog: catalog.NewCatalogHandler(a.products, catalog.Limits{
				MaxPageSize:    cfg.MaxPageSize,
				MaxUploadBytes: cfg.MaxUploadBytes,
			}),
			Categories: categories.NewCategoryHandler(a.categories),
		}
		if sqlDB, err := a.db.DB(); err == nil {
			handlers.DB = sqlDB
		}

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      server.NewRouter(handlers),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Msgf("catalog API listening on :%d", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info().Msg("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
