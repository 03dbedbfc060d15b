package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MMN3003/minter/src/config"
	"github.com/MMN3003/minter/src/logger"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Open connects to Postgres when DATABASE_URL is set and otherwise to the
// local SQLite file.
func Open(cfg *config.Config, logg *logger.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogLevel(cfg.Env))}

	if cfg.DatabaseURL != "" {
		logg.Infof("Connecting to postgres database")
		return OpenPostgres(cfg.DatabaseURL, gormCfg)
	}
	logg.Infof("Opening sqlite database: %s", cfg.SQLitePath)
	return OpenSQLite(cfg.SQLitePath, gormCfg)
}

func OpenPostgres(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("generic db handle: %w", err)
	}
	// Connection pool tuning
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	// fail early instead of the driver's "out of memory (14)"
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

func gormLogLevel(env string) gormLogger.LogLevel {
	if env == "dev" {
		return gormLogger.Info // SQL logs
	}
	return gormLogger.Warn
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
