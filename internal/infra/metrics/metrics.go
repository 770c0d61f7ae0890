// Package metrics exposes Prometheus collectors for HTTP traffic and ledger activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a dedicated registry.
type Metrics struct {
	registry            *prometheus.Registry
	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	ledgerMutations     *prometheus.CounterVec
	ledgerHydrations    *prometheus.CounterVec
	ledgerSessions      prometheus.GaugeFunc
}

// New registers every collector. activeSessions may be nil.
func New(activeSessions func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ledgerMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_mutations_total",
				Help: "Ledger mutations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		ledgerHydrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_hydrations_total",
				Help: "Ledger session hydrations by source.",
			},
			[]string{"source"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.ledgerMutations,
		m.ledgerHydrations,
	)

	if activeSessions != nil {
		m.ledgerSessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ledger_active_sessions",
			Help: "Ledger sessions currently held in memory.",
		}, func() float64 { return float64(activeSessions()) })
		m.registry.MustRegister(m.ledgerSessions)
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.httpInFlight.Inc()
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpInFlight.Dec()
	}
}

// ObserveMutation implements adapter.LedgerObserver.
func (m *Metrics) ObserveMutation(operation, outcome string) {
	m.ledgerMutations.WithLabelValues(operation, outcome).Inc()
}

// ObserveHydration implements adapter.LedgerObserver.
func (m *Metrics) ObserveHydration(source string) {
	m.ledgerHydrations.WithLabelValues(source).Inc()
}
