package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"taxprotest/internal/comparables"
)

// Redis is a shared result cache for multi-process deployments, where the
// in-process LRU would give each worker its own view. Values are stored as
// JSON; Redis handles recency and eviction via maxmemory-policy, so Get does
// no explicit promotion beyond the TTL refresh.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis creates a Redis-backed result cache. A zero ttl stores entries
// without expiry.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: "comps:"}
}

func (c *Redis) redisKey(key comparables.CacheKey) string {
	radius := "none"
	if key.HasMaxRadius {
		radius = fmt.Sprintf("%g", key.MaxRadius)
	}
	return fmt.Sprintf("%s%s:%d:%d:%t:%s", c.prefix, key.Account, key.MaxComps, key.MinComps, key.StrictFirst, radius)
}

// Get returns the cached result for key, treating any transport or decode
// failure as a miss; the caller just recomputes.
func (c *Redis) Get(ctx context.Context, key comparables.CacheKey) (*comparables.MatchResult, bool) {
	raw, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var result comparables.MatchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	if c.ttl > 0 {
		c.client.Expire(ctx, c.redisKey(key), c.ttl)
	}
	return &result, true
}

// Set stores the result for key. Failures are ignored; the cache is an
// optimization, not a system of record.
func (c *Redis) Set(ctx context.Context, key comparables.CacheKey, result *comparables.MatchResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.redisKey(key), raw, c.ttl)
}
