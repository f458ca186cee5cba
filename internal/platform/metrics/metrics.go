package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ProfilesCreated prometheus.Counter
	ProfilesDeleted prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on reg. Pass a fresh
// registry in tests to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProfilesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "rolodex_profiles_created_total",
			Help: "Total number of profiles created.",
		}),
		ProfilesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "rolodex_profiles_deleted_total",
			Help: "Total number of profiles deleted.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rolodex_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// IncrementProfilesCreated increments the created counter by 1.
func (m *Metrics) IncrementProfilesCreated() {
	if m == nil {
		return
	}
	m.ProfilesCreated.Inc()
}

// IncrementProfilesDeleted increments the deleted counter by 1.
func (m *Metrics) IncrementProfilesDeleted() {
	if m == nil {
		return
	}
	m.ProfilesDeleted.Inc()
}

// ObserveRequest records one request's latency.
func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, status).Observe(seconds)
}
