package metrics

import (
	"time"

	"ruleforge/vgen/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of files and runs.
const (
	StatusGenerated = "generated"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
	StatusSucceeded = "succeeded"
)

// GenerationMetrics tracks generation runs and the files they process.
type GenerationMetrics struct {
	filesTotal   *prometheus.CounterVec
	recordsTotal prometheus.Counter
	errorsTotal  *prometheus.CounterVec
	fileDuration prometheus.Histogram
	runsTotal    *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

// NewGenerationMetrics creates and registers generation metrics with the
// provided registry.
func NewGenerationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GenerationMetrics {
	gm := &GenerationMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_total",
				Help:      "Total number of input files processed, by outcome",
			},
			[]string{"status"},
		),

		recordsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "records_total",
				Help:      "Total number of records with generated validation code",
			},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "errors_total",
				Help:      "Total number of generation errors, by error type",
			},
			[]string{"type"},
		),

		fileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "file_duration_seconds",
				Help:      "Time spent generating one input file",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of generation runs, by outcome",
			},
			[]string{"status"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Time spent in one generation run",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		gm.filesTotal,
		gm.recordsTotal,
		gm.errorsTotal,
		gm.fileDuration,
		gm.runsTotal,
		gm.runDuration,
	)

	return gm
}

// RecordFile records one processed input file.
func (gm *GenerationMetrics) RecordFile(status string, records int, duration time.Duration) {
	gm.filesTotal.WithLabelValues(status).Inc()
	if records > 0 {
		gm.recordsTotal.Add(float64(records))
	}
	if status != StatusSkipped {
		gm.fileDuration.Observe(duration.Seconds())
	}
}

// RecordError records one generation error.
func (gm *GenerationMetrics) RecordError(errorType string) {
	gm.errorsTotal.WithLabelValues(errorType).Inc()
}

// RecordRun records one completed run.
func (gm *GenerationMetrics) RecordRun(status string, duration time.Duration) {
	gm.runsTotal.WithLabelValues(status).Inc()
	gm.runDuration.Observe(duration.Seconds())
}
