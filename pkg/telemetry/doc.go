// Package telemetry groups the observability support used by vgen.
//
//   - logging: structured logging on log/slog
//   - metrics: Prometheus counters and histograms for generation runs
//   - tracing: OpenTelemetry spans per run and per file
//   - health: liveness and readiness endpoints for watch mode
package telemetry
