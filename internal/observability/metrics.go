// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Job metrics
	JobRunsTotal      *prometheus.CounterVec
	JobDuration       prometheus.Histogram
	KOLsProcessed     prometheus.Counter
	KOLsSkipped       *prometheus.CounterVec
	TradesClassified  *prometheus.CounterVec
	SnapshotsWritten  prometheus.Counter
	PriceFallbackUsed prometheus.Counter

	// External API metrics
	HeliusRequestLatency prometheus.Histogram

	// Health metrics
	LastSuccessfulJob prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rotten_trenches"
	}

	return &Metrics{
		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pnl_job",
			Name:      "runs_total",
			Help:      "Total number of PNL job runs by status",
		}, []string{"status"}),
		JobDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pnl_job",
			Name:      "duration_seconds",
			Help:      "PNL job execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		KOLsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pnl_job",
			Name:      "kols_processed_total",
			Help:      "Total number of KOLs successfully processed",
		}),
		KOLsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pnl_job",
			Name:      "kols_skipped_total",
			Help:      "Total number of KOLs skipped by reason",
		}, []string{"reason"}),
		TradesClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pnl_job",
			Name:      "trades_classified_total",
			Help:      "Total number of trades classified by direction",
		}, []string{"direction"}),
		SnapshotsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pnl_job",
			Name:      "snapshots_written_total",
			Help:      "Total number of monthly snapshots upserted",
		}),
		PriceFallbackUsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pnl_job",
			Name:      "price_fallback_used_total",
			Help:      "Total number of runs that used the fallback SOL price",
		}),
		HeliusRequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "helius",
			Name:      "request_latency_seconds",
			Help:      "Helius transaction fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		LastSuccessfulJob: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_job_timestamp",
			Help:      "Unix timestamp of last successful PNL job run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordJobRun records a completed job run.
func RecordJobRun(status string, durationSeconds float64) {
	DefaultMetrics.JobRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.JobDuration.Observe(durationSeconds)
}

// RecordKOLProcessed increments the processed KOL counter.
func RecordKOLProcessed() {
	DefaultMetrics.KOLsProcessed.Inc()
}

// RecordKOLSkipped records a skipped KOL by reason.
func RecordKOLSkipped(reason string) {
	DefaultMetrics.KOLsSkipped.WithLabelValues(reason).Inc()
}

// RecordTradeClassified increments the classified trade counter.
func RecordTradeClassified(direction string) {
	DefaultMetrics.TradesClassified.WithLabelValues(direction).Inc()
}

// RecordSnapshotWritten increments the snapshot counter.
func RecordSnapshotWritten() {
	DefaultMetrics.SnapshotsWritten.Inc()
}

// RecordPriceFallback increments the price fallback counter.
func RecordPriceFallback() {
	DefaultMetrics.PriceFallbackUsed.Inc()
}

// RecordHeliusLatency records a Helius fetch latency.
func RecordHeliusLatency(seconds float64) {
	DefaultMetrics.HeliusRequestLatency.Observe(seconds)
}
