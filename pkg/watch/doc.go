// Package watch implements vgen watch: regenerate inputs as they change.
//
// A FileWatcher observes the input directories with fsnotify and hands
// batches of changed paths to the Runner after a quiet period. The Runner
// regenerates changed inputs, removes the outputs of deleted ones, and
// optionally runs a full regeneration on a cron schedule. When a metrics
// address is configured it also serves /metrics, /healthz and /readyz.
package watch
