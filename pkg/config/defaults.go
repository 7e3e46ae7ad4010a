package config

import "time"

// Default values for configuration fields.
const (
	DefaultTag               = "vgen"
	DefaultDirective         = "vgen:"
	DefaultFileSuffix        = "_vgen.go"
	DefaultValueField        = "Value"
	DefaultConstructorPrefix = "New"
	DefaultErrorSuffix       = "ValidationError"

	// NoValueField disables value field injection.
	NoValueField = "-"

	DefaultCacheDriver = "sqlite"
	DefaultCachePath   = ".vgen/cache.db"

	DefaultWatchDebounce = 200 * time.Millisecond

	DefaultLoggingLevel        = "info"
	DefaultLoggingFormat       = "text"
	DefaultMetricsNamespace    = "vgen"
	DefaultMetricsSubsystem    = "generator"
	DefaultTracingServiceName  = "vgen"
	DefaultTracingSamplingRate = 1.0
)

// DefaultWatchExtensions are the file suffixes watched by default.
var DefaultWatchExtensions = []string{".go", ".vgen.yaml"}

// Default returns a configuration holding only default values.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// ApplyDefaults fills every unset field of cfg with its default.
func ApplyDefaults(cfg *Config) {
	// Generate defaults
	if cfg.Generate.Tag == "" {
		cfg.Generate.Tag = DefaultTag
	}
	if cfg.Generate.Directive == "" {
		cfg.Generate.Directive = DefaultDirective
	}
	if cfg.Generate.FileSuffix == "" {
		cfg.Generate.FileSuffix = DefaultFileSuffix
	}
	if cfg.Generate.ValueField == "" {
		cfg.Generate.ValueField = DefaultValueField
	}
	if cfg.Generate.ConstructorPrefix == "" {
		cfg.Generate.ConstructorPrefix = DefaultConstructorPrefix
	}
	if cfg.Generate.ErrorSuffix == "" {
		cfg.Generate.ErrorSuffix = DefaultErrorSuffix
	}

	// Cache defaults
	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = DefaultCacheDriver
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = append([]string(nil), DefaultWatchExtensions...)
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
}

// EffectiveValueField returns the value field handed to the generator, with
// NoValueField mapped to "".
func (g GenerateConfig) EffectiveValueField() string {
	if g.ValueField == NoValueField {
		return ""
	}
	return g.ValueField
}
