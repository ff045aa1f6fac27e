package db

import (
	"github.com/glebarez/sqlite"
	"github.com/welltrack/welltrack/internal/config"
	"github.com/welltrack/welltrack/internal/observability/logger"
	"gorm.io/gorm"
)

// Open connects to the configured database with the zap-backed gorm logger.
func Open(cfg config.Config) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(logger.DefaultGormLoggerConfig()),
	})
	if err != nil {
		return nil, err
	}

	if cfg.DBType == "sqlite" {
		// Cascading deletes depend on FK enforcement, which sqlite
		// leaves off per connection.
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}

	return conn, nil
}

// NewTest opens an isolated in-memory sqlite database for tests. The
// pool is pinned to one connection because every sqlite ":memory:"
// connection is its own database.
func NewTest() (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}
	return conn, nil
}
