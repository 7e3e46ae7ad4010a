// Package tracing provides OpenTelemetry tracing for generation runs.
//
// A run opens a root span and every processed file opens a child span
// carrying the file path, the record count and the run ID. Spans are
// exported over OTLP gRPC when tracing is enabled; otherwise a noop
// tracer is used and spans cost almost nothing.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanRun)
//	defer span.End()
//
// # Sampling
//
// The sample ratio is applied with TraceIDRatioBased wrapped in
// ParentBased, so a child span always follows its parent's decision.
package tracing
