package tracing

import (
	"context"
	"errors"
	"testing"

	"ruleforge/vgen/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:   "disabled tracing",
			config: &config.TracingConfig{Enabled: false},
		},
		{
			name: "enabled with insecure collector",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				SampleRatio: 1.0,
				Insecure:    true,
			},
			wantEnabled: true,
		},
		{
			name: "invalid ratio",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				SampleRatio: 2.0,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("expected Enabled() = %v, got %v", tt.wantEnabled, tracer.Enabled())
			}
		})
	}
}

func TestNoopTracer(t *testing.T) {
	tracer := Noop()
	if tracer.Enabled() {
		t.Error("expected noop tracer to be disabled")
	}

	ctx, span := tracer.Start(context.Background(), SpanRun)
	span.End()

	if id := TraceID(ctx); id != "" {
		t.Errorf("expected empty trace ID from noop span, got %q", id)
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func newRecorded(t *testing.T, ratio float64) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(&config.TracingConfig{Enabled: true, SampleRatio: ratio}, exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func TestSpanHierarchy(t *testing.T) {
	tracer, exporter := newRecorded(t, 1.0)

	ctx, run := tracer.Start(context.Background(), SpanRun)
	if TraceID(ctx) == "" {
		t.Fatal("expected trace ID on sampled span")
	}
	_, file := tracer.Start(ctx, SpanFile)
	SetFileAttributes(file, "run-1", "user.go", 2)
	SetOutcome(file, "generated", false)
	file.End()
	run.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	child, parent := spans[0], spans[1]
	if child.Name != SpanFile {
		t.Errorf("expected first ended span %q, got %q", SpanFile, child.Name)
	}
	if child.Parent.SpanID() != parent.SpanContext.SpanID() {
		t.Error("expected file span to be a child of the run span")
	}

	want := map[attribute.Key]attribute.Value{
		AttrRunID:    attribute.StringValue("run-1"),
		AttrFile:     attribute.StringValue("user.go"),
		AttrRecords:  attribute.IntValue(2),
		AttrStatus:   attribute.StringValue("generated"),
		AttrCacheHit: attribute.BoolValue(false),
	}
	got := make(map[attribute.Key]attribute.Value)
	for _, kv := range child.Attributes {
		got[kv.Key] = kv.Value
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("expected attribute %s = %v, got %v", k, v.Emit(), got[k].Emit())
		}
	}
}

func TestSamplingNever(t *testing.T) {
	tracer, exporter := newRecorded(t, 0.0)

	_, span := tracer.Start(context.Background(), SpanRun)
	span.End()

	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("expected no exported spans with ratio 0, got %d", n)
	}
}

func TestSetErrorAndStatus(t *testing.T) {
	tracer, exporter := newRecorded(t, 1.0)

	_, span := tracer.Start(context.Background(), SpanGenerate)
	err := errors.New("unknown validator")
	SetError(span, err)
	SetErrorType(span, "resolve")
	SetStatus(span, err)
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Status.Code != codes.Error {
		t.Errorf("expected status Error, got %v", s.Status.Code)
	}
	if s.Status.Description != "unknown validator" {
		t.Errorf("expected status description %q, got %q", "unknown validator", s.Status.Description)
	}
	if len(s.Events) != 1 {
		t.Errorf("expected 1 recorded error event, got %d", len(s.Events))
	}
}

func TestSetErrorNil(t *testing.T) {
	tracer, exporter := newRecorded(t, 1.0)

	_, span := tracer.Start(context.Background(), SpanGenerate)
	SetError(span, nil)
	SetStatus(span, nil)
	span.End()

	s := exporter.GetSpans()[0]
	if s.Status.Code != codes.Ok {
		t.Errorf("expected status Ok, got %v", s.Status.Code)
	}
	if len(s.Events) != 0 {
		t.Errorf("expected no events, got %d", len(s.Events))
	}
}

func TestCreateSampler(t *testing.T) {
	for _, ratio := range []float64{0, 0.25, 1} {
		if _, err := createSampler(ratio); err != nil {
			t.Errorf("createSampler(%v) error = %v", ratio, err)
		}
	}
	for _, ratio := range []float64{-0.1, 1.5} {
		if _, err := createSampler(ratio); err == nil {
			t.Errorf("expected createSampler(%v) to fail", ratio)
		}
	}
}
