// Package store provides the repository adapters behind property search.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"taxprotest/internal/properties"
)

// Placeholder styles for the two supported drivers.
const (
	styleQuestion = "question" // sqlite
	styleDollar   = "dollar"   // postgres
)

// SQLStore searches the appraisal roll through database/sql. The same query
// shape serves SQLite and PostgreSQL; only the placeholder style and the
// case-insensitive match operator differ.
type SQLStore struct {
	db    *sql.DB
	style string
}

// NewSQLite constructs a SQLite-backed search store.
func NewSQLite(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, style: styleQuestion}
}

// NewPostgres constructs a PostgreSQL-backed search store.
func NewPostgres(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, style: styleDollar}
}

func (s *SQLStore) Search(ctx context.Context, q properties.Query) ([]*properties.Summary, error) {
	query, args := s.buildQuery(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	defer rows.Close()

	var out []*properties.Summary
	for rows.Next() {
		var (
			acct, addr, zip  string
			owner            sql.NullString
			mval, sqft, year sql.NullString
		)
		if err := rows.Scan(&acct, &addr, &zip, &owner, &mval, &sqft, &year); err != nil {
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		p := &properties.Summary{
			Account:      acct,
			Address:      addr,
			PostalCode:   zip,
			OwnerName:    strings.TrimSpace(owner.String),
			MarketValue:  optFloat(mval),
			BuildingArea: optFloat(sqft),
			BuildYear:    optYear(year),
		}
		if p.MarketValue != nil && p.BuildingArea != nil {
			ppsf := *p.MarketValue / *p.BuildingArea
			p.PricePerSqft = &ppsf
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) buildQuery(q properties.Query) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ra.acct, ra.site_addr_1, ra.site_addr_3, o.name,
	ra.tot_mkt_val, br.im_sq_ft, br.eff
	FROM real_acct ra
	LEFT JOIN building_res br ON ra.acct = br.acct
	LEFT JOIN owners o ON ra.acct = o.acct
	WHERE `)

	var conds []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		ph := s.placeholder(len(args) + 1)
		if q.ExactMatch {
			conds = append(conds, column+" = "+ph)
			args = append(args, value)
		} else {
			conds = append(conds, s.contains(column, ph))
			args = append(args, value)
		}
	}
	add("ra.acct", q.Account)
	add("ra.site_addr_1", q.Street)
	add("ra.site_addr_3", q.PostalCode)
	add("o.name", q.Owner)

	sb.WriteString(strings.Join(conds, " AND "))
	sb.WriteString(" ORDER BY ra.acct")
	return sb.String(), args
}

func (s *SQLStore) placeholder(n int) string {
	if s.style == styleDollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// contains builds a case-insensitive substring condition. SQLite's LIKE is
// already case-insensitive for ASCII; PostgreSQL needs ILIKE.
func (s *SQLStore) contains(column, ph string) string {
	op := "LIKE"
	if s.style == styleDollar {
		op = "ILIKE"
	}
	return fmt.Sprintf("%s %s '%%' || %s || '%%'", column, op, ph)
}

func optFloat(ns sql.NullString) *float64 {
	if !ns.Valid {
		return nil
	}
	v := strings.TrimSpace(ns.String)
	if v == "" || v == "0" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func optYear(ns sql.NullString) *int {
	if !ns.Valid {
		return nil
	}
	v := strings.TrimSpace(ns.String)
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
