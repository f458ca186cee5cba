// Package httptransport assembles the chi router: middleware chain, health
// and metrics endpoints, and the profile routes. Business logic stays in the
// service packages.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rolodex/internal/platform/config"
	platformmetrics "rolodex/internal/platform/metrics"
	"rolodex/internal/platform/middleware"
	"rolodex/internal/profile"
	"rolodex/internal/transport/http/shared"
)

// HealthChecker reports whether the backing store still answers.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// NewRouter wires all endpoints. health may be nil (in-memory store).
func NewRouter(
	profiles *profile.Handler,
	logger *slog.Logger,
	m *platformmetrics.Metrics,
	registry *prometheus.Registry,
	health HealthChecker,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Timeout(config.RequestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))

	r.Get("/healthz", handleHealth(health))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	profiles.Register(r)
	return r
}

func handleHealth(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := health.PingContext(ctx); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
