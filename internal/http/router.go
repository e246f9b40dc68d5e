// Package httpapi assembles the HTTP surface: middleware chain, health and
// metrics endpoints, and the domain handlers.
package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taxprotest/internal/platform/metrics"
	redisplatform "taxprotest/internal/platform/redis"
	"taxprotest/pkg/platform/httputil"
	"taxprotest/pkg/platform/middleware/metadata"
)

// Registrar is anything that can mount routes, i.e. the domain handlers.
type Registrar interface {
	Register(chi.Router)
}

// Deps carries everything the router needs. DB is required; Redis may be nil
// when the result cache runs in-process.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	DB       *sql.DB
	Redis    *redisplatform.Client
	Handlers []Registrar
}

// NewRouter builds the full router.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(metadata.RequestMetadata)
	r.Use(chimiddleware.Recoverer)
	r.Use(deps.Metrics.Middleware)

	r.Get("/health", healthHandler(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range deps.Handlers {
		h.Register(r)
	}
	return r
}

func healthHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok"}
		healthy := true

		if err := deps.DB.PingContext(ctx); err != nil {
			checks["database"] = "unavailable"
			healthy = false
		}
		if deps.Redis != nil {
			checks["redis"] = "ok"
			if err := deps.Redis.Health(ctx); err != nil {
				checks["redis"] = "unavailable"
				healthy = false
			}
		}

		status := http.StatusOK
		body := map[string]any{"status": "ok", "checks": checks}
		if !healthy {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			deps.Logger.WarnContext(r.Context(), "health check degraded", "checks", checks)
		}
		httputil.WriteJSON(w, status, body)
	}
}
