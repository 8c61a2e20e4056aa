package platform

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// AutoMigrate runs all pending migrations for the given driver.
func AutoMigrate(db *sql.DB, driver Driver) error {
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied schema version. Version 0 means no
// migration has run.
func MigrationVersion(db *sql.DB, driver Driver) (uint, bool, error) {
	m, err := newMigrator(db, driver)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

func newMigrator(db *sql.DB, driver Driver) (*migrate.Migrate, error) {
	dir := "migrations/postgres"
	if driver == DriverSQLite {
		dir = "migrations/sqlite"
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	var (
		target database.Driver
		name   string
	)
	switch driver {
	case DriverPostgres, DriverPgx:
		target, err = postgres.WithInstance(db, &postgres.Config{})
		name = "postgres"
	case DriverSQLite:
		target, err = sqlite.WithInstance(db, &sqlite.Config{})
		name = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, name, target)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
