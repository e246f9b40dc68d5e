package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"taxprotest/internal/comparables"
)

// Open connects to the appraisal database using the configured driver
// ("sqlite3" or "pgx") and verifies the connection before returning.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}
	return db, nil
}

// NewFromDriver picks the store implementation matching the driver name.
func NewFromDriver(driver string, db *sql.DB) (comparables.Store, error) {
	switch driver {
	case "sqlite3":
		return NewSQLite(db), nil
	case "pgx":
		return NewPostgres(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
