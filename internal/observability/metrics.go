package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// volcano status API.
type Metrics struct {
	// HTTP surface.
	RequestsTotal    *prometheus.CounterVec   // labels: method, route, status
	RequestDuration  *prometheus.HistogramVec // labels: method, route
	RequestsInflight prometheus.Gauge

	// Domain.
	ObservationsSubmitted *prometheus.CounterVec // labels: level
	VolcanoesCreated      prometheus.Counter
	VolcanoesDeleted      prometheus.Counter
	UpsertRetries         prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "volcano_api",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "volcano_api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		RequestsInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "volcano_api",
			Name:      "http_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		ObservationsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "volcano_api",
			Name:      "observations_submitted_total",
			Help:      "Accepted status observations by alert level.",
		}, []string{"level"}),
		VolcanoesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "volcano_api",
			Name:      "volcanoes_created_total",
			Help:      "Volcano master records created by first observations.",
		}),
		VolcanoesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "volcano_api",
			Name:      "volcanoes_deleted_total",
			Help:      "Volcano master records hard-deleted.",
		}),
		UpsertRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "volcano_api",
			Name:      "upsert_retries_total",
			Help:      "Observation upserts retried after a duplicate-name race.",
		}),
	}
}

// NewMetrics creates and registers all API metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInflight,
		m.ObservationsSubmitted,
		m.VolcanoesCreated,
		m.VolcanoesDeleted,
		m.UpsertRetries,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry,
// avoiding "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func (m *Metrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) InflightInc() {
	if m == nil {
		return
	}
	m.RequestsInflight.Inc()
}

func (m *Metrics) InflightDec() {
	if m == nil {
		return
	}
	m.RequestsInflight.Dec()
}
