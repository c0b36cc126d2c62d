package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/emilythestrangee/devflow/backend/internal/config"
	"github.com/emilythestrangee/devflow/backend/internal/di"
	"github.com/emilythestrangee/devflow/backend/internal/logger"
)

func NewServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the DevFlow HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	flags := cmd.Flags()
	flags.String("http-addr", ":8080", "the address the HTTP server listens on")
	flags.String("database-driver", config.DriverPostgres, "the database driver (postgres or sqlite)")
	flags.String("database-dsn", "", "the database connection string")
	flags.Bool("auto-migrate", false, "migrate the schema with gorm on startup")
	flags.String("log-format", "text", "the log format (text or json)")
	flags.String("log-level", "info", "the log level (none, debug, info, warn, error)")

	cmd.PreRunE = bindFlags(v, flags, map[string]string{
		"http-addr":       "http.addr",
		"database-driver": "database.driver",
		"database-dsn":    "database.dsn",
		"auto-migrate":    "database.auto_migrate",
		"log-format":      "log.format",
		"log-level":       "log.level",
	})

	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	injector := di.NewContainer(cfg)
	srv, err := di.Bootstrap(injector)
	if err != nil {
		_ = injector.Shutdown()
		return err
	}
	log := do.MustInvoke[*logger.ZapLogger](injector)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server failed", zap.Error(err))
			_ = injector.Shutdown()
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")

	// The container shuts services down in reverse dependency order: the
	// HTTP server drains first, the database closes last.
	if err := injector.Shutdown(); err != nil {
		log.Error("shutdown error", zap.Any("error", err))
	}

	log.Info("server stopped")
	return nil
}
