package config

import "time"

// Config is the root configuration of vgen.
type Config struct {
	// Generate controls annotation recognition and the names of generated
	// code.
	Generate GenerateConfig `yaml:"generate"`

	// Cache controls the generation manifest used to skip unchanged inputs.
	Cache CacheConfig `yaml:"cache"`

	// Watch controls vgen watch.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GenerateConfig contains code generation settings.
type GenerateConfig struct {
	// Tag is the struct tag key holding annotations.
	// Default: "vgen"
	Tag string `yaml:"tag"`

	// Directive is the comment prefix of directive lines, written after "//".
	// Default: "vgen:"
	Directive string `yaml:"directive"`

	// FileSuffix is appended to the input file name, without extension, to
	// name the generated file.
	// Default: "_vgen.go"
	FileSuffix string `yaml:"file_suffix"`

	// ValueField is the validator field receiving the value under
	// validation. Set it to "-" to disable the injection.
	// Default: "Value"
	ValueField string `yaml:"value_field"`

	// ConstructorPrefix names try_new constructors.
	// Default: "New"
	ConstructorPrefix string `yaml:"constructor_prefix"`

	// ErrorSuffix is appended to record and field names to name error types.
	// Default: "ValidationError"
	ErrorSuffix string `yaml:"error_suffix"`
}

// CacheConfig contains generation manifest settings.
type CacheConfig struct {
	// Enabled controls whether unchanged inputs are skipped.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Driver selects the store.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file for the SQLite drivers.
	// Default: ".vgen/cache.db"
	Path string `yaml:"path"`
}

// IsEnabled reports whether the cache is enabled.
func (c CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// WatchConfig contains vgen watch settings.
type WatchConfig struct {
	// Debounce is the quiet period after a file event before regenerating.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// Schedule is an optional cron expression for periodic full
	// regeneration.
	Schedule string `yaml:"schedule"`

	// Extensions are the file suffixes that trigger regeneration.
	// Default: [".go", ".vgen.yaml"]
	Extensions []string `yaml:"extensions"`

	// MetricsAddress, when set, serves Prometheus metrics at /metrics.
	MetricsAddress string `yaml:"metrics_address"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are recorded.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "vgen"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "generator"
	Subsystem string `yaml:"subsystem"`
}

// IsEnabled reports whether metrics are enabled.
func (c MetricsConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "vgen"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`
}
