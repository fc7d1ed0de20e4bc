package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prompt-records/internal/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the GORM connection to whichever storage engine the process
// was started against. The engine is chosen once, at startup, and is
// immutable for the process lifetime; everything above this package is
// engine-agnostic.
type DB struct {
	DB     *gorm.DB
	Engine string
	logger *slog.Logger
}

// New opens a connection to the configured storage engine: the
// embedded single-file sqlite engine or the networked postgres engine.
func New(cfg *config.Config, appLogger *slog.Logger) (*DB, error) {
	engine := cfg.Engine()

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.DBLogLevel == "debug" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	gormCfg := &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)
	switch engine {
	case config.EnginePostgres:
		db, err = gorm.Open(postgres.Open(cfg.PostgresURL), gormCfg)
	case config.EngineSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLiteDSN()), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported storage engine: %s", engine)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", engine, err)
	}

	if engine == config.EngineSQLite {
		// sqlite ships with foreign keys off; cascade delete needs them
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if engine == config.EnginePostgres {
		sqlDB.SetMaxOpenConns(cfg.DBMaxConns)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// The embedded engine serializes writes internally; one
		// connection keeps the PRAGMA applied to every statement.
		sqlDB.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	appLogger.Info("database connection established",
		slog.String("engine", engine),
	)

	return &DB{
		DB:     db,
		Engine: engine,
		logger: appLogger,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate runs automatic migrations for the given models
func (db *DB) AutoMigrate(models ...interface{}) error {
	db.logger.Info("running auto migrations")
	if err := db.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	db.logger.Info("migrations completed successfully")
	return nil
}
