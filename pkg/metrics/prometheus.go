package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	daysProcessed *prometheus.CounterVec
	daysSkipped   *prometheus.CounterVec
	reportsCached *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		daysProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ibpulse_days_processed_total",
				Help: "Total number of trading days extracted into metric records",
			},
			[]string{"symbol"},
		),
		daysSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ibpulse_days_skipped_total",
				Help: "Total number of days skipped during extraction",
			},
			[]string{"symbol", "reason"},
		),
		reportsCached: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ibpulse_reports_cached_total",
				Help: "Total number of aggregated reports written to cache",
			},
			[]string{"symbol", "period"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ibpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ibpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDayProcessed records a successfully extracted trading day.
func (r *Recorder) RecordDayProcessed(symbol string) {
	r.daysProcessed.WithLabelValues(symbol).Inc()
}

// RecordDaySkipped records a day skipped during extraction.
func (r *Recorder) RecordDaySkipped(symbol, reason string) {
	r.daysSkipped.WithLabelValues(symbol, reason).Inc()
}

// RecordReportCached records an aggregated report written to cache.
func (r *Recorder) RecordReportCached(symbol, period string) {
	r.reportsCached.WithLabelValues(symbol, period).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
