package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory (defaults to database.migrations_dir)")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger.Configure(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	// sqlite schemas follow the gorm models; initDB already migrated them
	if cfg.Database.Driver == internal.DriverSQLite {
		db, err := initDB(cfg.Database, lg)
		if err != nil {
			log.Fatalf("sqlite migrate: %v", err)
		}
		lg.Info("sqlite schema is up to date", "source", cfg.Database.Source)
		return db.Close()
	}

	dir := migrateDir
	if dir == "" {
		dir = cfg.Database.MigrationsDir
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
