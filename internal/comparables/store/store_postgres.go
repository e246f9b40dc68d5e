package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taxprotest/internal/comparables"
	"taxprotest/pkg/platform/sentinel"
)

const postgresColumns = `ra.acct, ra.site_addr_1, ra.site_addr_3, ra.tot_mkt_val, ra.land_ar,
	br.im_sq_ft, br.eff, pd.bedrooms, pd.bathrooms, pd.amenities, pd.property_type,
	pg.latitude, pg.longitude`

const postgresJoins = `FROM real_acct ra
	LEFT JOIN building_res br ON ra.acct = br.acct
	LEFT JOIN property_derived pd ON ra.acct = pd.acct
	LEFT JOIN property_geo pg ON ra.acct = pg.acct`

// PostgresStore reads the appraisal roll from PostgreSQL. Schema mirrors the
// SQLite extract with lowercase identifiers.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed property store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FetchSubject(ctx context.Context, account string) (*comparables.Subject, error) {
	query := `SELECT ` + postgresColumns + `, ra.neighborhood_code, pd.stories, pd.has_pool, pd.has_garage
	` + postgresJoins + `
	WHERE ra.acct = $1`
	subject, err := scanSubject(s.db.QueryRowContext(ctx, query, account))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subject %s: %w", account, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("fetch subject: %w", err)
	}
	return subject, nil
}

func (s *PostgresStore) FetchCandidatesByNeighborhood(ctx context.Context, account, code string) ([]*comparables.Candidate, error) {
	query := `SELECT ` + postgresColumns + `, pd.stories, pd.has_pool, pd.has_garage
	` + postgresJoins + `
	WHERE ra.neighborhood_code = $1 AND ra.acct <> $2`
	rows, err := s.db.QueryContext(ctx, query, code, account)
	if err != nil {
		return nil, fmt.Errorf("neighborhood candidates: %w", err)
	}
	return scanCandidates(rows)
}

func (s *PostgresStore) FetchCandidatesByRadius(ctx context.Context, account string, lat, lon, radiusMiles float64) ([]*comparables.Candidate, error) {
	deg := radiusMiles * degreesPerMile
	query := `SELECT ` + postgresColumns + `, pd.stories, pd.has_pool, pd.has_garage
	` + postgresJoins + `
	WHERE pg.latitude BETWEEN $1 AND $2
	  AND pg.longitude BETWEEN $3 AND $4
	  AND ra.acct <> $5`
	rows, err := s.db.QueryContext(ctx, query, lat-deg, lat+deg, lon-deg, lon+deg, account)
	if err != nil {
		return nil, fmt.Errorf("radius candidates: %w", err)
	}
	return scanCandidates(rows)
}

func (s *PostgresStore) FetchCandidatesByPostalCode(ctx context.Context, account, postalCode string) ([]*comparables.Candidate, error) {
	query := `SELECT ` + postgresColumns + `, pd.stories, pd.has_pool, pd.has_garage
	` + postgresJoins + `
	WHERE ra.site_addr_3 = $1 AND ra.acct <> $2`
	rows, err := s.db.QueryContext(ctx, query, postalCode, account)
	if err != nil {
		return nil, fmt.Errorf("postal code candidates: %w", err)
	}
	return scanCandidates(rows)
}
