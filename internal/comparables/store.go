package comparables

import "context"

// Store is the read-only repository port the engine searches against. Swap
// with concrete storage (SQLite, Postgres, memory) without touching the
// engine. Every candidate query excludes the subject itself and may return
// records in arbitrary order; the engine re-sorts.
type Store interface {
	// FetchSubject loads one subject by account number. Returns an error
	// wrapping sentinel.ErrNotFound when the account does not exist.
	FetchSubject(ctx context.Context, account string) (*Subject, error)

	// FetchCandidatesByNeighborhood returns candidates sharing the subject's
	// neighborhood code.
	FetchCandidatesByNeighborhood(ctx context.Context, account, code string) ([]*Candidate, error)

	// FetchCandidatesByRadius returns candidates inside the lat/lon bounding
	// box of the given radius in miles. Boxes over-select relative to a true
	// circle; the engine re-checks exact distances.
	FetchCandidatesByRadius(ctx context.Context, account string, lat, lon, radiusMiles float64) ([]*Candidate, error)

	// FetchCandidatesByPostalCode returns candidates sharing the subject's
	// postal code.
	FetchCandidatesByPostalCode(ctx context.Context, account, postalCode string) ([]*Candidate, error)
}
