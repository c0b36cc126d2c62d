package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/emilythestrangee/devflow/backend/internal/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded postgres migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// MigrateOptions controls a postgres migration run.
type MigrateOptions struct {
	// TargetVersion migrates up to this version; 0 means latest.
	TargetVersion int64
	// Timeout bounds the time spent waiting for the database to answer.
	Timeout time.Duration
	Verbose bool
}

// MigratePostgres applies the embedded goose migrations to the database at dsn.
func MigratePostgres(ctx context.Context, dsn string, opts MigrateOptions, log logger.Logger) error {
	if log == nil {
		log = logger.NewNoopLogger()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open a connection to the datastore: %w", err)
	}
	defer db.Close()

	policy := backoff.NewExponentialBackOff()
	if opts.Timeout > 0 {
		policy.MaxElapsedTime = opts.Timeout
	}
	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return fmt.Errorf("failed to initialize database connection: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, Migrations(), goose.WithVerbose(opts.Verbose))
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	var results []*goose.MigrationResult
	if opts.TargetVersion > 0 {
		results, err = provider.UpTo(ctx, opts.TargetVersion)
	} else {
		results, err = provider.Up(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, r := range results {
		log.Info("migration applied",
			zap.Int64("version", r.Source.Version),
			zap.String("path", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info("migration done", zap.Int64("version", version), zap.Int("applied", len(results)))
	return nil
}
