// Package store provides the concrete repository adapters behind the
// comparables engine: SQLite (the workflow's default), Postgres, and an
// in-memory store for tests and fixtures.
package store

import (
	"database/sql"
	"strconv"
	"strings"

	"taxprotest/internal/comparables"
)

// The appraisal-roll import keeps numeric columns as text and uses blank or
// literal "0" for not-recorded values. All of that is normalized to nil here
// so the engine only ever sees typed optionals.

type rowScanner interface {
	Scan(dest ...any) error
}

type subjectRow struct {
	acct, addr, zip                     string
	mval, landAr, imSqFt, eff           sql.NullString
	beds, baths                         sql.NullString
	amenities, propType                 sql.NullString
	lat, lon                            sql.NullFloat64
	neighborhood                        sql.NullString
	stories                             sql.NullString
	hasPool, hasGarage                  sql.NullInt64
}

func scanSubject(row rowScanner) (*comparables.Subject, error) {
	var r subjectRow
	err := row.Scan(&r.acct, &r.addr, &r.zip, &r.mval, &r.landAr, &r.imSqFt, &r.eff,
		&r.beds, &r.baths, &r.amenities, &r.propType,
		&r.lat, &r.lon, &r.neighborhood, &r.stories, &r.hasPool, &r.hasGarage)
	if err != nil {
		return nil, err
	}
	return &comparables.Subject{
		Account:          r.acct,
		Address:          r.addr,
		PostalCode:       r.zip,
		MarketValue:      optFloat(r.mval),
		LandArea:         optFloat(r.landAr),
		BuildingArea:     optFloat(r.imSqFt),
		BuildYear:        optYear(r.eff),
		Bedrooms:         optFloat(r.beds),
		Bathrooms:        optFloat(r.baths),
		Stories:          optInt(r.stories),
		HasPool:          optFlag(r.hasPool),
		HasGarage:        optFlag(r.hasGarage),
		Amenities:        r.amenities.String,
		PropertyType:     r.propType.String,
		NeighborhoodCode: strings.TrimSpace(r.neighborhood.String),
		Latitude:         optCoord(r.lat),
		Longitude:        optCoord(r.lon),
	}, nil
}

func scanCandidates(rows *sql.Rows) ([]*comparables.Candidate, error) {
	defer rows.Close()
	var out []*comparables.Candidate
	for rows.Next() {
		var r subjectRow
		err := rows.Scan(&r.acct, &r.addr, &r.zip, &r.mval, &r.landAr, &r.imSqFt, &r.eff,
			&r.beds, &r.baths, &r.amenities, &r.propType,
			&r.lat, &r.lon, &r.stories, &r.hasPool, &r.hasGarage)
		if err != nil {
			return nil, err
		}
		out = append(out, &comparables.Candidate{
			Account:      r.acct,
			Address:      r.addr,
			PostalCode:   r.zip,
			MarketValue:  optFloat(r.mval),
			LandArea:     optFloat(r.landAr),
			BuildingArea: optFloat(r.imSqFt),
			BuildYear:    optYear(r.eff),
			Bedrooms:     optFloat(r.beds),
			Bathrooms:    optFloat(r.baths),
			Stories:      optInt(r.stories),
			HasPool:      optFlag(r.hasPool),
			HasGarage:    optFlag(r.hasGarage),
			Amenities:    r.amenities.String,
			PropertyType: r.propType.String,
			Latitude:     optCoord(r.lat),
			Longitude:    optCoord(r.lon),
		})
	}
	return out, rows.Err()
}

// optFloat parses a dirty numeric text field. Blank, "0" and non-numeric
// values are unknown, never an error; zero-as-blank is how the source files
// mark missing areas and values.
func optFloat(ns sql.NullString) *float64 {
	if !ns.Valid {
		return nil
	}
	s := strings.TrimSpace(ns.String)
	if s == "" || s == "0" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// optYear accepts only plain digit strings, and treats a zero year as not
// recorded.
func optYear(ns sql.NullString) *int {
	v := optInt(ns)
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

// optInt accepts only plain digit strings; unlike optFloat, a literal "0" is
// a valid value (a zero story count is recorded data).
func optInt(ns sql.NullString) *int {
	if !ns.Valid {
		return nil
	}
	s := strings.TrimSpace(ns.String)
	if s == "" || !isDigits(s) {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// optFlag maps the 0/1 flag columns to a tri-state bool.
func optFlag(ni sql.NullInt64) *bool {
	if !ni.Valid || (ni.Int64 != 0 && ni.Int64 != 1) {
		return nil
	}
	v := ni.Int64 == 1
	return &v
}

func optCoord(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
