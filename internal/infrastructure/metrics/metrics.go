package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated prometheus.Counter
	TransactionsDeleted prometheus.Counter

	// Export metrics
	Exports *prometheus.CounterVec

	// Change event metrics
	EventsPublished *prometheus.CounterVec
	EventsDropped   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Idempotency metrics
	IdempotentReplays prometheus.Counter
}

// New creates all metrics and registers them with reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Transaction metrics
		TransactionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "porket_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "porket_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),

		// Export metrics
		Exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "porket_exports_total",
				Help: "Total exports by format and result",
			},
			[]string{"format", "result"},
		),

		// Change event metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "porket_change_events_total",
				Help: "Change events delivered to publishers by type and result",
			},
			[]string{"publisher", "type", "result"},
		),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "porket_change_events_dropped_total",
			Help: "Change events dropped because the dispatch queue was full",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "porket_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "porket_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "porket_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "porket_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),

		// Idempotency metrics
		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "porket_idempotent_replays_total",
			Help: "Total responses replayed for a repeated idempotency key",
		}),
	}
}
