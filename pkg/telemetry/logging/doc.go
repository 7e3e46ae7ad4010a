// Package logging provides structured logging for vgen.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Context-aware logging carrying the run ID and the file being generated
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "text"})
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "generated", "file", path, "records", 3)
//	// ... run_id=... file=... records=3
package logging
