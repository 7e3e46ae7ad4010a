// Package config provides configuration management for vgen.
//
// This package handles loading, validating, and defaulting the vgen.yaml
// configuration file, with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("vgen.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("vgen.yaml")
//
// A missing file is not an error: the defaults apply.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention VGEN_SECTION_FIELD.
// For example:
//
//   - VGEN_CACHE_DRIVER overrides cache.driver
//   - VGEN_GENERATE_FILE_SUFFIX overrides generate.file_suffix
//   - VGEN_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Values from YAML file
//  2. Default values for everything left unset
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	generate:
//	  tag: vgen
//	  file_suffix: _vgen.go
//	  value_field: Value
//	cache:
//	  driver: sqlite
//	  path: .vgen/cache.db
//	watch:
//	  debounce: 200ms
//	  schedule: "0 * * * *"
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
package config
