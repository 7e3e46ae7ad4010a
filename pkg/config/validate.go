package config

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "cache.driver").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateGenerate(&cfg.Generate)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateGenerate(cfg *GenerateConfig) []FieldError {
	var errs []FieldError

	if strings.ContainsAny(cfg.Tag, " \t\":") {
		errs = append(errs, FieldError{
			Field:   "generate.tag",
			Message: fmt.Sprintf("invalid struct tag key %q", cfg.Tag),
		})
	}
	if strings.TrimSpace(cfg.Directive) == "" {
		errs = append(errs, FieldError{
			Field:   "generate.directive",
			Message: "directive prefix must not be blank",
		})
	}
	if !strings.HasSuffix(cfg.FileSuffix, ".go") || strings.HasSuffix(cfg.FileSuffix, "_test.go") {
		errs = append(errs, FieldError{
			Field:   "generate.file_suffix",
			Message: fmt.Sprintf("file suffix %q must end in .go and must not name a test file", cfg.FileSuffix),
		})
	}
	if cfg.ValueField != NoValueField && !token.IsIdentifier(cfg.ValueField) {
		errs = append(errs, FieldError{
			Field:   "generate.value_field",
			Message: fmt.Sprintf("value field %q must be an identifier or %q", cfg.ValueField, NoValueField),
		})
	}
	if !token.IsIdentifier(cfg.ConstructorPrefix) {
		errs = append(errs, FieldError{
			Field:   "generate.constructor_prefix",
			Message: fmt.Sprintf("constructor prefix %q must be an identifier", cfg.ConstructorPrefix),
		})
	}
	if !token.IsIdentifier(cfg.ErrorSuffix) {
		errs = append(errs, FieldError{
			Field:   "generate.error_suffix",
			Message: fmt.Sprintf("error suffix %q must be an identifier", cfg.ErrorSuffix),
		})
	}
	return errs
}

func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	validDrivers := map[string]bool{"sqlite": true, "sqlite3": true, "memory": true}
	if !validDrivers[cfg.Driver] {
		errs = append(errs, FieldError{
			Field:   "cache.driver",
			Message: fmt.Sprintf("invalid cache driver %q: must be 'sqlite', 'sqlite3', or 'memory'", cfg.Driver),
		})
	}
	if cfg.Driver != "memory" && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "cache.path",
			Message: "cache path is required for SQLite drivers",
		})
	}
	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must not be negative",
		})
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Schedule, err),
			})
		}
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("watch.extensions[%d]", i),
				Message: fmt.Sprintf("extension %q must start with a dot", ext),
			})
		}
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	return errs
}
