package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanRun      = "vgen.run"
	SpanFile     = "vgen.file"
	SpanGenerate = "vgen.generate"
)

// Attribute keys set on vgen spans.
const (
	AttrRunID     = "vgen.run_id"
	AttrFile      = "vgen.file"
	AttrRecords   = "vgen.records"
	AttrStatus    = "vgen.status"
	AttrCacheHit  = "vgen.cache.hit"
	AttrErrorType = "vgen.error.type"
	AttrFiles     = "vgen.files"
)

// SetFileAttributes sets the attributes describing one processed file.
func SetFileAttributes(span trace.Span, runID, path string, records int) {
	span.SetAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrFile, path),
		attribute.Int(AttrRecords, records),
	)
}

// SetOutcome records the file status and whether the cache served it.
func SetOutcome(span trace.Span, status string, cacheHit bool) {
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Bool(AttrCacheHit, cacheHit),
	)
}

// SetErrorType tags the span with the kind of generation error.
func SetErrorType(span trace.Span, errType string) {
	span.SetAttributes(attribute.String(AttrErrorType, errType))
}
