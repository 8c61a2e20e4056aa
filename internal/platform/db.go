// Package platform opens and migrates the relational databases backing
// applyscored.
package platform

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "github.com/lib/pq"              // driver: postgres
	_ "modernc.org/sqlite"             // driver: sqlite
)

// Driver names a supported database/sql driver.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverPgx      Driver = "pgx"
	DriverSQLite   Driver = "sqlite"
)

// Pool sizes the connection pool. Zero values keep database/sql defaults.
type Pool struct {
	MaxOpen int
	MaxIdle int
}

// Open opens a database, verifies the connection and, when migrate is set,
// applies pending migrations.
func Open(ctx context.Context, driver Driver, dsn string, pool Pool, migrate bool) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverPgx:
	case DriverSQLite:
		if dsn == "" {
			dsn = "file:applyscore.db?_pragma=busy_timeout(5000)"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite serializes writers; one connection avoids SQLITE_BUSY and
		// keeps in-memory databases alive across queries.
		db.SetMaxOpenConns(1)
	} else {
		if pool.MaxOpen > 0 {
			db.SetMaxOpenConns(pool.MaxOpen)
		}
		if pool.MaxIdle > 0 {
			db.SetMaxIdleConns(pool.MaxIdle)
		}
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if migrate {
		if err := AutoMigrate(db, driver); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
