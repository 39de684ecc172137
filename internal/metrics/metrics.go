package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the reservation backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Database Metrics
	DBConnectionsOpen prometheus.Gauge

	// Business Metrics
	TicketsSoldTotal      prometheus.CounterVec
	PurchaseDuration      prometheus.Histogram
	PurchaseRetriesTotal  prometheus.Counter
	PurchaseFailuresTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyreserve_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skyreserve_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skyreserve_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyreserve_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyreserve_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Database Metrics
		DBConnectionsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "skyreserve_db_connections_open",
				Help: "Open connections in the Postgres pool",
			},
		),

		// Business Metrics
		TicketsSoldTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyreserve_tickets_sold_total",
				Help: "Tickets sold, partitioned by airline and sale channel (direct/agent)",
			},
			[]string{"airline", "channel"},
		),
		PurchaseDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skyreserve_purchase_duration_seconds",
				Help:    "Purchase transaction execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		PurchaseRetriesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "skyreserve_purchase_retries_total",
				Help: "Purchase transactions retried after serialization conflicts",
			},
		),
		PurchaseFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyreserve_purchase_failures_total",
				Help: "Failed purchase attempts by reason",
			},
			[]string{"reason"},
		),
	}
}
