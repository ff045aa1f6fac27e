// Package migration brings the schema up on startup so WellTrack is
// usable out of the box for local and self-hosted installs.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	authdomain "github.com/welltrack/welltrack/internal/auth/domain"
	sessiondomain "github.com/welltrack/welltrack/internal/session/domain"
	"gorm.io/gorm"
)

// RunPostgres applies the embedded SQL migrations.
func RunPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// RunSQLite auto-migrates the models; the versioned SQL is postgres
// specific and sqlite schemas are disposable per install.
func RunSQLite(conn *gorm.DB) error {
	return conn.AutoMigrate(&authdomain.User{}, &sessiondomain.Session{})
}
