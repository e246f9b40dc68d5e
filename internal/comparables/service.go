package comparables

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"taxprotest/internal/comparables/metrics"
)

// CacheKey identifies one cached search by its full parameter tuple.
// MaxRadius is flattened so the struct stays comparable.
type CacheKey struct {
	Account      string
	MaxComps     int
	MinComps     int
	StrictFirst  bool
	MaxRadius    float64
	HasMaxRadius bool
}

// CacheKey derives the cache key for this request.
func (r Request) CacheKey() CacheKey {
	k := CacheKey{
		Account:     r.Account,
		MaxComps:    r.MaxComps,
		MinComps:    r.MinComps,
		StrictFirst: r.StrictFirst,
	}
	if r.MaxRadius != nil {
		k.MaxRadius = *r.MaxRadius
		k.HasMaxRadius = true
	}
	return k
}

// ResultCache memoizes full match results. Implementations must be safe for
// concurrent use: under strict LRU, even a Get mutates recency ordering.
type ResultCache interface {
	Get(ctx context.Context, key CacheKey) (*MatchResult, bool)
	Set(ctx context.Context, key CacheKey, result *MatchResult)
}

// Service is the engine facade: result cache in front of the relaxation
// search, plus metrics, tracing and logging. Handlers and exports talk to
// this, never to the engine directly.
type Service struct {
	engine  *Engine
	cache   ResultCache
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService wires the facade. cache may be nil to disable memoization and
// metrics may be nil in tests.
func NewService(store Store, cfg Config, cache ResultCache, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:  NewEngine(store, cfg),
		cache:   cache,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("taxprotest/comparables"),
	}
}

// FindComparables returns the cached result for identical parameters when
// available, otherwise runs the full search and caches the outcome. The
// cache probe happens before any repository access, so repeated identical
// requests cost no queries.
func (s *Service) FindComparables(ctx context.Context, req Request) (*MatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "comparables.find",
		trace.WithAttributes(
			attribute.String("subject.account", req.Account),
			attribute.Int("comps.max", req.MaxComps),
			attribute.Int("comps.min", req.MinComps),
			attribute.Bool("strict_first", req.StrictFirst),
		))
	defer span.End()

	key := req.CacheKey()
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			s.metrics.RecordCache(true)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
		s.metrics.RecordCache(false)
	}

	start := time.Now()
	result, err := s.engine.FindComparables(ctx, req)
	if err != nil {
		s.metrics.IncrementSearch("", "error")
		return nil, err
	}

	outcome := "found"
	if len(result.Comps) == 0 {
		outcome = "empty"
	}
	s.metrics.IncrementSearch(result.Meta.GeoTier, outcome)
	s.metrics.ObserveSearch(result.Meta.Attempts, time.Since(start))
	s.logger.InfoContext(ctx, "comparables search finished",
		"account", req.Account,
		"geo_tier", result.Meta.GeoTier,
		"comps", len(result.Comps),
		"attempts", result.Meta.Attempts,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if s.cache != nil {
		s.cache.Set(ctx, key, result)
	}
	return result, nil
}
