// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Poll loop metrics
	TicksTotal   *prometheus.CounterVec
	TickDuration prometheus.Histogram

	// Quote fetch metrics
	QuoteFetchFailures *prometheus.CounterVec
	QuoteFetchDuration prometheus.Histogram

	// Detection metrics
	OpportunitiesDetected prometheus.Counter
	LastProfitUSDC        prometheus.Gauge

	// Storage metrics
	OpportunitiesPersisted prometheus.Counter
	PersistFailures        prometheus.Counter

	// Health metrics
	LastOpportunityTimestamp prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "arb_detector"
	}

	return &Metrics{
		// Poll loop metrics
		TicksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "ticks_total",
			Help:      "Total number of poll ticks by outcome",
		}, []string{"outcome"}),
		TickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "tick_duration_seconds",
			Help:      "Full tick duration in seconds, fetch through persistence",
			Buckets:   prometheus.DefBuckets,
		}),

		// Quote fetch metrics
		QuoteFetchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dex",
			Name:      "quote_fetch_failures_total",
			Help:      "Total number of failed router quote calls by venue",
		}, []string{"venue"}),
		QuoteFetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dex",
			Name:      "quote_fetch_duration_seconds",
			Help:      "Duration of the concurrent quote fetch in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Detection metrics
		OpportunitiesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "opportunities_detected_total",
			Help:      "Total number of opportunities exceeding the profit threshold",
		}),
		LastProfitUSDC: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "last_profit_usdc",
			Help:      "Gas-adjusted profit of the most recent opportunity in USDC",
		}),

		// Storage metrics
		OpportunitiesPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "opportunities_persisted_total",
			Help:      "Total number of opportunities written to the store",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "persist_failures_total",
			Help:      "Total number of failed opportunity writes",
		}),

		// Health metrics
		LastOpportunityTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_opportunity_timestamp",
			Help:      "Unix timestamp of the most recent detected opportunity",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTick records one completed poll tick with its outcome.
func RecordTick(outcome string, seconds float64) {
	DefaultMetrics.TicksTotal.WithLabelValues(outcome).Inc()
	DefaultMetrics.TickDuration.Observe(seconds)
}

// RecordQuoteFetchFailure increments the fetch failure counter for a venue.
func RecordQuoteFetchFailure(venue string) {
	DefaultMetrics.QuoteFetchFailures.WithLabelValues(venue).Inc()
}

// RecordQuoteFetchDuration records the duration of one concurrent fetch.
func RecordQuoteFetchDuration(seconds float64) {
	DefaultMetrics.QuoteFetchDuration.Observe(seconds)
}

// RecordOpportunityDetected records a detected opportunity and its profit.
func RecordOpportunityDetected(profitUSDC float64) {
	DefaultMetrics.OpportunitiesDetected.Inc()
	DefaultMetrics.LastProfitUSDC.Set(profitUSDC)
	DefaultMetrics.LastOpportunityTimestamp.Set(float64(time.Now().Unix()))
}

// RecordOpportunityPersisted increments the persisted opportunities counter.
func RecordOpportunityPersisted() {
	DefaultMetrics.OpportunitiesPersisted.Inc()
}

// RecordPersistFailure increments the failed writes counter.
func RecordPersistFailure() {
	DefaultMetrics.PersistFailures.Inc()
}
