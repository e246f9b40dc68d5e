//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// appraisal-roll schema loaded.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

const appraisalSchema = `
CREATE TABLE IF NOT EXISTS real_acct (
	acct TEXT PRIMARY KEY,
	site_addr_1 TEXT NOT NULL DEFAULT '',
	site_addr_3 TEXT NOT NULL DEFAULT '',
	tot_mkt_val TEXT,
	land_ar TEXT,
	neighborhood_code TEXT
);
CREATE TABLE IF NOT EXISTS building_res (
	acct TEXT PRIMARY KEY,
	im_sq_ft TEXT,
	eff TEXT
);
CREATE TABLE IF NOT EXISTS property_derived (
	acct TEXT PRIMARY KEY,
	bedrooms TEXT,
	bathrooms TEXT,
	amenities TEXT,
	property_type TEXT,
	stories TEXT,
	has_pool INTEGER,
	has_garage INTEGER
);
CREATE TABLE IF NOT EXISTS property_geo (
	acct TEXT PRIMARY KEY,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION
);
`

// NewPostgresContainer starts a PostgreSQL container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("taxprotest"),
		tcpostgres.WithUsername("taxprotest"),
		tcpostgres.WithPassword("taxprotest"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, appraisalSchema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(context.Background())
	})

	return pc
}

// TruncateTables empties the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}
