package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"bad tag", func(c *Config) { c.Generate.Tag = "a b" }, "generate.tag"},
		{"blank directive", func(c *Config) { c.Generate.Directive = "  " }, "generate.directive"},
		{"test file suffix", func(c *Config) { c.Generate.FileSuffix = "_vgen_test.go" }, "generate.file_suffix"},
		{"non-go suffix", func(c *Config) { c.Generate.FileSuffix = ".txt" }, "generate.file_suffix"},
		{"value field", func(c *Config) { c.Generate.ValueField = "1x" }, "generate.value_field"},
		{"constructor prefix", func(c *Config) { c.Generate.ConstructorPrefix = "new-" }, "generate.constructor_prefix"},
		{"error suffix", func(c *Config) { c.Generate.ErrorSuffix = "Err!" }, "generate.error_suffix"},
		{"cache driver", func(c *Config) { c.Cache.Driver = "redis" }, "cache.driver"},
		{"cache path", func(c *Config) { c.Cache.Path = "" }, "cache.path"},
		{"debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce"},
		{"schedule", func(c *Config) { c.Watch.Schedule = "every day" }, "watch.schedule"},
		{"extension", func(c *Config) { c.Watch.Extensions = []string{"go"} }, "watch.extensions[0]"},
		{"level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"format", func(c *Config) { c.Telemetry.Logging.Format = "console" }, "telemetry.logging.format"},
		{"tracing endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true }, "telemetry.tracing.endpoint"},
		{"sample ratio", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Errors) != 1 || verr.Errors[0].Field != tt.field {
				t.Errorf("expected one error on %q, got %v", tt.field, verr.Errors)
			}
		})
	}
}

func TestValidate_MemoryCacheNeedsNoPath(t *testing.T) {
	cfg := Default()
	cfg.Cache.Driver = "memory"
	cfg.Cache.Path = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("unexpected message %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}}
	if !strings.Contains(multi.Error(), "with 2 errors") {
		t.Errorf("unexpected message %q", multi.Error())
	}
}
