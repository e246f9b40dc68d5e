// Package metrics provides observability for the comparables module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the matching engine.
type Metrics struct {
	// Searches by accepted geo tier and outcome ("found", "empty", "error")
	Searches *prometheus.CounterVec

	// Result cache hits and misses
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Constraint combinations tried before acceptance or exhaustion
	Attempts prometheus.Histogram

	// Full search latency including repository queries
	SearchLatency prometheus.Histogram
}

// New creates a Metrics instance with all comparables metrics registered.
func New() *Metrics {
	return &Metrics{
		Searches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taxprotest_comparables_searches_total",
			Help: "Total comparable searches by accepted geo tier and outcome",
		}, []string{"tier", "outcome"}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taxprotest_comparables_cache_hits_total",
			Help: "Result cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taxprotest_comparables_cache_misses_total",
			Help: "Result cache misses",
		}),

		Attempts: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxprotest_comparables_search_attempts",
			Help:    "Constraint combinations tried per search",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000, 5000, 20000},
		}),

		SearchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxprotest_comparables_search_duration_seconds",
			Help:    "Duration of a full find-comparables request",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementSearch records a completed search outcome.
func (m *Metrics) IncrementSearch(tier, outcome string) {
	if m != nil {
		m.Searches.WithLabelValues(tier, outcome).Inc()
	}
}

// RecordCache records a cache probe result.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// ObserveSearch records the attempt count and duration of a search.
func (m *Metrics) ObserveSearch(attempts int, d time.Duration) {
	if m != nil {
		m.Attempts.Observe(float64(attempts))
		m.SearchLatency.Observe(d.Seconds())
	}
}
