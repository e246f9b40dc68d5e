package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"taxprotest/internal/comparables"
	"taxprotest/pkg/platform/sentinel"
)

type memoryRecord struct {
	subject    comparables.Subject
	candidate  comparables.Candidate
	hood       string
	postalCode string
}

// MemoryStore holds properties in memory. It backs unit tests and local
// fixtures, and applies the same neighborhood, bounding-box and postal-code
// filters as the SQL stores.
type MemoryStore struct {
	mu         sync.RWMutex
	properties map[string]memoryRecord
}

// NewMemory creates an empty in-memory property store.
func NewMemory() *MemoryStore {
	return &MemoryStore{properties: make(map[string]memoryRecord)}
}

// Add stores a property. The subject form carries the neighborhood code; the
// candidate form is derived from it.
func (m *MemoryStore) Add(subject comparables.Subject) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.properties[subject.Account] = memoryRecord{
		subject:    subject,
		candidate:  subjectAsCandidate(subject),
		hood:       subject.NeighborhoodCode,
		postalCode: strings.TrimSpace(subject.PostalCode),
	}
}

func (m *MemoryStore) FetchSubject(_ context.Context, account string) (*comparables.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.properties[account]
	if !ok {
		return nil, fmt.Errorf("subject %s: %w", account, sentinel.ErrNotFound)
	}
	subject := rec.subject
	return &subject, nil
}

func (m *MemoryStore) FetchCandidatesByNeighborhood(_ context.Context, account, code string) ([]*comparables.Candidate, error) {
	return m.filter(account, func(rec memoryRecord) bool {
		return rec.hood == code
	}), nil
}

func (m *MemoryStore) FetchCandidatesByRadius(_ context.Context, account string, lat, lon, radiusMiles float64) ([]*comparables.Candidate, error) {
	deg := radiusMiles * degreesPerMile
	return m.filter(account, func(rec memoryRecord) bool {
		c := rec.candidate
		if c.Latitude == nil || c.Longitude == nil {
			return false
		}
		return *c.Latitude >= lat-deg && *c.Latitude <= lat+deg &&
			*c.Longitude >= lon-deg && *c.Longitude <= lon+deg
	}), nil
}

func (m *MemoryStore) FetchCandidatesByPostalCode(_ context.Context, account, postalCode string) ([]*comparables.Candidate, error) {
	return m.filter(account, func(rec memoryRecord) bool {
		return rec.postalCode == postalCode
	}), nil
}

func (m *MemoryStore) filter(account string, keep func(memoryRecord) bool) []*comparables.Candidate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*comparables.Candidate
	for acct, rec := range m.properties {
		if acct == account || !keep(rec) {
			continue
		}
		candidate := rec.candidate
		out = append(out, &candidate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out
}

func subjectAsCandidate(s comparables.Subject) comparables.Candidate {
	return comparables.Candidate{
		Account:      s.Account,
		Address:      s.Address,
		PostalCode:   s.PostalCode,
		MarketValue:  s.MarketValue,
		LandArea:     s.LandArea,
		BuildingArea: s.BuildingArea,
		BuildYear:    s.BuildYear,
		Bedrooms:     s.Bedrooms,
		Bathrooms:    s.Bathrooms,
		Stories:      s.Stories,
		HasPool:      s.HasPool,
		HasGarage:    s.HasGarage,
		Amenities:    s.Amenities,
		PropertyType: s.PropertyType,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
	}
}
