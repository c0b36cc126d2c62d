package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/emilythestrangee/devflow/backend/internal/config"
	"github.com/emilythestrangee/devflow/backend/internal/database"
	"github.com/emilythestrangee/devflow/backend/internal/logger"
)

const (
	versionFlag = "version"
	timeoutFlag = "timeout"
	verboseFlag = "verbose"
)

func NewMigrateCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database schema migrations needed for the DevFlow server",
		Long: `The migrate command applies the embedded goose migrations to a postgres
database. For sqlite the schema is created from the models.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("database-driver", config.DriverPostgres, "the database driver (postgres or sqlite)")
	flags.String("database-dsn", "", "the connection string of the database to migrate")
	flags.Uint(versionFlag, 0, "the version to migrate to (if omitted the latest schema will be used)")
	flags.Duration(timeoutFlag, time.Minute, "a timeout for the time it takes the migrate process to connect to the database")
	flags.Bool(verboseFlag, false, "enable verbose migration logs")

	cmd.PreRunE = bindFlags(v, flags, map[string]string{
		"database-driver": "database.driver",
		"database-dsn":    "database.dsn",
	})

	return cmd
}

func runMigrate(cmd *cobra.Command, v *viper.Viper) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	version, _ := flags.GetUint(versionFlag)
	timeout, _ := flags.GetDuration(timeoutFlag)
	verbose, _ := flags.GetBool(verboseFlag)

	log, err := logger.NewLogger(v.GetString("log.format"), v.GetString("log.level"))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dbCfg := config.DatabaseConfig{
		Driver:         v.GetString("database.driver"),
		DSN:            v.GetString("database.dsn"),
		ConnectTimeout: timeout,
		AutoMigrate:    true,
	}

	switch dbCfg.Driver {
	case config.DriverPostgres:
		if dbCfg.DSN == "" {
			return errors.New("missing database dsn")
		}
		return database.MigratePostgres(ctx, dbCfg.DSN, database.MigrateOptions{
			TargetVersion: int64(version),
			Timeout:       timeout,
			Verbose:       verbose,
		}, log)
	case config.DriverSQLite:
		svc, err := database.New(ctx, dbCfg, log)
		if err != nil {
			return err
		}
		return svc.Close()
	case "":
		return errors.New("missing database driver")
	default:
		return fmt.Errorf("unknown database driver: %s", dbCfg.Driver)
	}
}
