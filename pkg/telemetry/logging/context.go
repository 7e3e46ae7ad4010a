package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for the generation run ID.
	RunIDKey contextKey = "run_id"

	// FileKey is the context key for the input file being processed.
	FileKey contextKey = "file"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithFile adds the input file to the context.
func WithFile(ctx context.Context, file string) context.Context {
	return context.WithValue(ctx, FileKey, file)
}

// GetFile retrieves the input file from the context.
func GetFile(ctx context.Context) string {
	if file, ok := ctx.Value(FileKey).(string); ok {
		return file
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any
	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, "run_id", runID)
	}
	if file := GetFile(ctx); file != "" {
		fields = append(fields, "file", file)
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, "trace_id", traceID)
	}
	return fields
}
