// Package cache provides the bounded result cache for find-comparables
// requests: strict LRU, no time-based expiry, eviction only by capacity and
// explicit overwrite.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"taxprotest/internal/comparables"
)

// LRU is the in-process comparables.ResultCache implementation. A capacity
// ≤ 0 disables caching entirely; every Get is then a miss and Set is a no-op.
type LRU struct {
	entries *lru.Cache[comparables.CacheKey, *comparables.MatchResult]
}

// NewLRU creates a result cache holding at most capacity entries.
func NewLRU(capacity int) *LRU {
	if capacity <= 0 {
		return &LRU{}
	}
	entries, err := lru.New[comparables.CacheKey, *comparables.MatchResult](capacity)
	if err != nil {
		// lru.New only fails on a non-positive size, which is handled above.
		panic(err)
	}
	return &LRU{entries: entries}
}

// Get returns the cached result for key and promotes it to most recently
// used.
func (c *LRU) Get(_ context.Context, key comparables.CacheKey) (*comparables.MatchResult, bool) {
	if c.entries == nil {
		return nil, false
	}
	return c.entries.Get(key)
}

// Set stores the result for key, replacing any existing entry and evicting
// the least recently used entry when over capacity.
func (c *LRU) Set(_ context.Context, key comparables.CacheKey, result *comparables.MatchResult) {
	if c.entries == nil {
		return
	}
	c.entries.Add(key, result)
}

// Len reports the number of cached results.
func (c *LRU) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}
