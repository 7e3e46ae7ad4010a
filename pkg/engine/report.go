package engine

import (
	"fmt"
	"strings"
	"time"

	"ruleforge/vgen/pkg/telemetry/metrics"
)

// File statuses.
const (
	StatusGenerated = "generated"
	StatusUnchanged = "unchanged"
	StatusNoRecords = "no_records"
	StatusRemoved   = "removed"
	StatusStale     = "stale"
	StatusFailed    = "failed"
)

// FileResult is the outcome for one input.
type FileResult struct {
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Status   string        `json:"status"`
	Records  int           `json:"records"`
	RunID    string        `json:"-"`
	Duration time.Duration `json:"duration_ns"`
	Err      error         `json:"-"`
	Warnings []Warning     `json:"warnings,omitempty"`

	// Source holds generated code that was not written: lint output and
	// stale check results.
	Source []byte `json:"-"`
}

func (r FileResult) metricStatus() string {
	switch r.Status {
	case StatusGenerated, StatusRemoved:
		return metrics.StatusGenerated
	case StatusFailed:
		return metrics.StatusFailed
	default:
		return metrics.StatusSkipped
	}
}

// Report summarizes one run.
type Report struct {
	RunID    string        `json:"run_id"`
	Mode     Mode          `json:"-"`
	Files    []FileResult  `json:"files"`
	Duration time.Duration `json:"duration_ns"`
}

// Count returns the number of files with the given status.
func (r *Report) Count(status string) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the number of files that failed.
func (r *Report) Failed() int {
	return r.Count(StatusFailed)
}

// Warnings returns every warning of the run in file order.
func (r *Report) Warnings() []Warning {
	var out []Warning
	for _, f := range r.Files {
		out = append(out, f.Warnings...)
	}
	return out
}

// Err returns a *RunError when any file failed.
func (r *Report) Err() error {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Status == StatusFailed {
			failed = append(failed, f)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &RunError{Failed: failed, Total: len(r.Files)}
}

// RunError reports the files that failed in a run.
type RunError struct {
	Failed []FileResult
	Total  int
}

func (e *RunError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d file(s) failed", len(e.Failed), e.Total)
	for _, f := range e.Failed {
		fmt.Fprintf(&sb, "\n%s: %v", f.Input, f.Err)
	}
	return sb.String()
}

// Unwrap exposes the per-file errors.
func (e *RunError) Unwrap() []error {
	out := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		out[i] = f.Err
	}
	return out
}
