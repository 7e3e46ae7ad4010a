package metrics

import (
	"ruleforge/vgen/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics tracks generation manifest lookups.
//
// Metrics:
//   - vgen_generator_cache_hits_total: inputs found unchanged in the manifest
//   - vgen_generator_cache_misses_total: inputs that had to be generated
//   - vgen_generator_cache_entries: manifest rows after the last run
type CacheMetrics struct {
	hitsTotal   prometheus.Counter
	missesTotal prometheus.Counter
	entries     prometheus.Gauge
}

// NewCacheMetrics creates and registers cache metrics with the provided registry.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of inputs skipped as unchanged",
			},
		),

		missesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of inputs missing from or stale in the manifest",
			},
		),

		entries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_entries",
				Help:      "Number of rows in the generation manifest",
			},
		),
	}

	registry.MustRegister(
		cm.hitsTotal,
		cm.missesTotal,
		cm.entries,
	)

	return cm
}

// RecordLookup records one manifest lookup.
func (cm *CacheMetrics) RecordLookup(hit bool) {
	if hit {
		cm.hitsTotal.Inc()
	} else {
		cm.missesTotal.Inc()
	}
}

// SetEntries sets the current manifest size.
func (cm *CacheMetrics) SetEntries(n int) {
	cm.entries.Set(float64(n))
}
