package metrics

import (
	"time"

	"ruleforge/vgen/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the vgen metrics and the registry they are exposed from.
// A disabled collector accepts every call and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	generation *GenerationMetrics
	cache      *CacheMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration. If registry is nil, a fresh registry is created.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &config.MetricsConfig{}
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:     cfg,
		registry:   registry,
		generation: NewGenerationMetrics(cfg, registry),
		cache:      NewCacheMetrics(cfg, registry),
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordFile records one processed input file with its outcome, the number
// of records generated and the time spent.
func (c *Collector) RecordFile(status string, records int, duration time.Duration) {
	if !c.config.IsEnabled() {
		return
	}
	c.generation.RecordFile(status, records, duration)
}

// RecordError records one generation error of the given type.
func (c *Collector) RecordError(errorType string) {
	if !c.config.IsEnabled() {
		return
	}
	c.generation.RecordError(errorType)
}

// RecordRun records one completed run.
func (c *Collector) RecordRun(status string, duration time.Duration) {
	if !c.config.IsEnabled() {
		return
	}
	c.generation.RecordRun(status, duration)
}

// RecordCacheLookup records whether an input was found unchanged.
func (c *Collector) RecordCacheLookup(hit bool) {
	if !c.config.IsEnabled() {
		return
	}
	c.cache.RecordLookup(hit)
}

// SetCacheEntries sets the current manifest size.
func (c *Collector) SetCacheEntries(n int) {
	if !c.config.IsEnabled() {
		return
	}
	c.cache.SetEntries(n)
}
