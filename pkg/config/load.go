package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "vgen.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VGEN_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// A missing file yields the defaults. The configuration is not modified by
// environment variables; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention VGEN_SECTION_FIELD (e.g., VGEN_CACHE_DRIVER) and always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Generate overrides
	envString("GENERATE_TAG", &cfg.Generate.Tag)
	envString("GENERATE_DIRECTIVE", &cfg.Generate.Directive)
	envString("GENERATE_FILE_SUFFIX", &cfg.Generate.FileSuffix)
	envString("GENERATE_VALUE_FIELD", &cfg.Generate.ValueField)
	envString("GENERATE_CONSTRUCTOR_PREFIX", &cfg.Generate.ConstructorPrefix)
	envString("GENERATE_ERROR_SUFFIX", &cfg.Generate.ErrorSuffix)

	// Cache overrides
	if val := os.Getenv(EnvPrefix + "CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.Enabled = &b
		}
	}
	envString("CACHE_DRIVER", &cfg.Cache.Driver)
	envString("CACHE_PATH", &cfg.Cache.Path)

	// Watch overrides
	if val := os.Getenv(EnvPrefix + "WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	envString("WATCH_SCHEDULE", &cfg.Watch.Schedule)
	if val := os.Getenv(EnvPrefix + "WATCH_EXTENSIONS"); val != "" {
		cfg.Watch.Extensions = strings.Split(val, ",")
	}
	envString("WATCH_METRICS_ADDRESS", &cfg.Watch.MetricsAddress)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	if val := os.Getenv(EnvPrefix + "TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}
