package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"taxprotest/internal/properties"
)

// MemoryStore keeps property summaries in memory for unit tests and
// fixtures, applying the same contains/equality filters as the SQL store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*properties.Summary
}

// NewMemory creates an empty in-memory search store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Add stores a property summary.
func (m *MemoryStore) Add(p properties.Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, &p)
}

func (m *MemoryStore) Search(_ context.Context, q properties.Query) ([]*properties.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match := func(field, value string) bool {
		if value == "" {
			return true
		}
		if q.ExactMatch {
			return field == value
		}
		return strings.Contains(strings.ToLower(field), strings.ToLower(value))
	}

	var out []*properties.Summary
	for _, p := range m.entries {
		if match(p.Account, q.Account) && match(p.Address, q.Street) &&
			match(p.PostalCode, q.PostalCode) && match(p.OwnerName, q.Owner) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out, nil
}
