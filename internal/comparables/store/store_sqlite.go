package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taxprotest/internal/comparables"
	"taxprotest/pkg/platform/sentinel"
)

// Column order must match scanSubject / scanCandidates.
const sqliteColumns = `ra.acct, ra.site_addr_1, ra.site_addr_3, ra.tot_mkt_val, ra.land_ar,
	br.im_sq_ft, br.eff, pd.bedrooms, pd.bathrooms, pd.amenities, pd.property_type,
	pg.latitude, pg.longitude`

const sqliteJoins = `FROM real_acct ra
	LEFT JOIN building_res br ON ra.acct = br.acct
	LEFT JOIN property_derived pd ON ra.acct = pd.acct
	LEFT JOIN property_geo pg ON ra.acct = pg.acct`

// degreesPerMile approximates one mile in latitude degrees, used to turn a
// search radius into a bounding box. The haversine pass downstream applies
// the exact cutoff.
const degreesPerMile = 1.0 / 69.0

// SQLiteStore reads the appraisal roll out of the local SQLite extract.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite constructs a SQLite-backed property store.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) FetchSubject(ctx context.Context, account string) (*comparables.Subject, error) {
	query := `SELECT ` + sqliteColumns + `, ra.Neighborhood_Code, pd.stories, pd.has_pool, pd.has_garage
	` + sqliteJoins + `
	WHERE ra.acct = ?`
	subject, err := scanSubject(s.db.QueryRowContext(ctx, query, account))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subject %s: %w", account, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("fetch subject: %w", err)
	}
	return subject, nil
}

func (s *SQLiteStore) FetchCandidatesByNeighborhood(ctx context.Context, account, code string) ([]*comparables.Candidate, error) {
	query := `SELECT ` + sqliteColumns + `, pd.stories, pd.has_pool, pd.has_garage
	` + sqliteJoins + `
	WHERE ra.Neighborhood_Code = ? AND ra.acct <> ?`
	rows, err := s.db.QueryContext(ctx, query, code, account)
	if err != nil {
		return nil, fmt.Errorf("neighborhood candidates: %w", err)
	}
	return scanCandidates(rows)
}

func (s *SQLiteStore) FetchCandidatesByRadius(ctx context.Context, account string, lat, lon, radiusMiles float64) ([]*comparables.Candidate, error) {
	deg := radiusMiles * degreesPerMile
	query := `SELECT ` + sqliteColumns + `, pd.stories, pd.has_pool, pd.has_garage
	` + sqliteJoins + `
	WHERE pg.latitude BETWEEN ? AND ?
	  AND pg.longitude BETWEEN ? AND ?
	  AND ra.acct <> ?`
	rows, err := s.db.QueryContext(ctx, query, lat-deg, lat+deg, lon-deg, lon+deg, account)
	if err != nil {
		return nil, fmt.Errorf("radius candidates: %w", err)
	}
	return scanCandidates(rows)
}

func (s *SQLiteStore) FetchCandidatesByPostalCode(ctx context.Context, account, postalCode string) ([]*comparables.Candidate, error) {
	query := `SELECT ` + sqliteColumns + `, pd.stories, pd.has_pool, pd.has_garage
	` + sqliteJoins + `
	WHERE ra.site_addr_3 = ? AND ra.acct <> ?`
	rows, err := s.db.QueryContext(ctx, query, postalCode, account)
	if err != nil {
		return nil, fmt.Errorf("postal code candidates: %w", err)
	}
	return scanCandidates(rows)
}
