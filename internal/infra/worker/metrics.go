package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks scheduled and triggered ingestion runs.
type Metrics struct {
	// JobRunsTotal counts runs by trigger (cron, all, one) and status (success, failure)
	JobRunsTotal *prometheus.CounterVec

	// JobDurationSeconds observes the wall time of a run
	JobDurationSeconds prometheus.Histogram

	// NewspapersProcessedTotal counts newspapers handled by successful runs
	NewspapersProcessedTotal prometheus.Counter

	// LastSuccessTimestamp is the unix time of the last successful cron run
	LastSuccessTimestamp prometheus.Gauge

	// ConfigFallbacksTotal counts settings replaced by their default, by field
	ConfigFallbacksTotal *prometheus.CounterVec
}

// NewMetrics registers the worker metrics with reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of ingestion runs by trigger and status",
		}, []string{"trigger", "status"}),

		JobDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of ingestion runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		NewspapersProcessedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "worker_newspapers_processed_total",
			Help: "Total number of newspapers processed by successful runs",
		}),

		LastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful scheduled run",
		}),

		ConfigFallbacksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_config_fallbacks_total",
			Help: "Total number of configuration values replaced by their default",
		}, []string{"field"}),
	}
}

// RecordRun records the outcome of one run. newspapers is added only on success.
func (m *Metrics) RecordRun(trigger string, d time.Duration, newspapers int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.JobRunsTotal.WithLabelValues(trigger, status).Inc()
	m.JobDurationSeconds.Observe(d.Seconds())
	if err != nil {
		return
	}
	m.NewspapersProcessedTotal.Add(float64(newspapers))
	if trigger == TriggerCron {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// RecordConfigFallback counts a setting that fell back to its default.
func (m *Metrics) RecordConfigFallback(field string) {
	m.ConfigFallbacksTotal.WithLabelValues(field).Inc()
}
