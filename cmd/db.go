package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/datamodel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database is one connection pool shared by the gorm repositories and the
// sqlx balance queries.
type Database struct {
	SQLX   *sqlx.DB
	Gorm   *gorm.DB
	Driver string
}

func (d *Database) Close() error {
	return d.SQLX.Close()
}

func sqlDriverName(driver string) string {
	if driver == internal.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// initDB opens the configured backend. For sqlite the schema is created with
// AutoMigrate; postgres is migrated with goose through the migrate command.
func initDB(cfg internal.DatabaseConfig, logger *slog.Logger) (*Database, error) {
	driver := sqlDriverName(cfg.Driver)

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var dialector gorm.Dialector
	if cfg.Driver == internal.DriverSQLite {
		dialector = &sqlite.Dialector{DriverName: driver, Conn: dbConn.DB}
	} else {
		dialector = postgres.New(postgres.Config{Conn: dbConn.DB})
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(slogWriter{logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to open gorm on shared pool: %w", err)
	}

	if cfg.Driver == internal.DriverSQLite {
		if err := gormDB.AutoMigrate(datamodel.All()...); err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	return &Database{
		SQLX:   sqlx.NewDb(dbConn.DB, driver),
		Gorm:   gormDB,
		Driver: cfg.Driver,
	}, nil
}

// slogWriter routes gorm's slow query and error lines into the process logger.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}
