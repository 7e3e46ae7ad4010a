// Package metrics provides Prometheus metrics collection for vgen.
//
// # Overview
//
// The collector records what each generation run did: files generated,
// skipped as unchanged or failed, records emitted, errors by type and
// durations. vgen watch serves the metrics over HTTP; one-shot commands
// record into a private registry that is dropped on exit.
//
// # Metrics
//
//   - vgen_generator_files_total{status}: input files by outcome
//   - vgen_generator_records_total: records with generated code
//   - vgen_generator_errors_total{type}: generation errors by error type
//   - vgen_generator_file_duration_seconds: time spent per input file
//   - vgen_generator_runs_total{status}: runs by outcome
//   - vgen_generator_run_duration_seconds: time spent per run
//   - vgen_generator_cache_hits_total / cache_misses_total: manifest lookups
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordFile(metrics.StatusGenerated, 3, time.Since(start))
//	http.Handle("/metrics", collector.Handler())
package metrics
