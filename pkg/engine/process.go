package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	vgenerrors "ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/cache"
	"ruleforge/vgen/pkg/codegen"
	"ruleforge/vgen/pkg/model"
	"ruleforge/vgen/pkg/source/yamlsource"
	"ruleforge/vgen/pkg/telemetry/logging"
	"ruleforge/vgen/pkg/telemetry/tracing"
)

// errorTypeOther labels errors outside the annotation error taxonomy.
const errorTypeOther = "other"

func (e *Engine) processFile(ctx context.Context, runID string, mode Mode, input string) FileResult {
	start := time.Now()
	ctx = logging.WithFile(ctx, input)
	ctx, span := e.tracer.Start(ctx, tracing.SpanFile)
	defer span.End()

	res := e.process(ctx, mode, input)
	res.RunID = runID
	res.Duration = time.Since(start)

	tracing.SetFileAttributes(span, runID, input, res.Records)
	tracing.SetOutcome(span, res.Status, res.Status == StatusUnchanged)
	tracing.SetError(span, res.Err)
	tracing.SetStatus(span, res.Err)

	e.metrics.RecordFile(res.metricStatus(), res.Records, res.Duration)
	for _, t := range errorTypes(res.Err) {
		e.metrics.RecordError(t)
		tracing.SetErrorType(span, t)
	}

	log := e.logger.WithContext(ctx)
	switch {
	case res.Err != nil:
		log.Error("generation failed", "error", res.Err)
	case res.Status == StatusGenerated || res.Status == StatusStale:
		log.Info("file processed", "status", res.Status, "output", res.Output, "records", res.Records)
	default:
		log.Debug("file processed", "status", res.Status)
	}
	for _, w := range res.Warnings {
		log.Warn("lint warning", "location", w.Location.String(), "message", w.Message)
	}
	return res
}

func (e *Engine) process(ctx context.Context, mode Mode, input string) FileResult {
	res := FileResult{Input: input, Output: e.OutputPath(input)}
	fail := func(err error) FileResult {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return fail(vgenerrors.NewIOError(input, err))
	}

	isYAML := yamlsource.IsDescriptor(input)
	if !isYAML && !e.reader.HasRecords(src) {
		return e.noRecords(ctx, mode, res)
	}

	inputHash := cache.Hash(src, e.fingerprint)
	if mode != ModeLint && e.cacheEnabled() && e.upToDate(ctx, input, inputHash, res.Output) {
		res.Status = StatusUnchanged
		return res
	}

	var f *model.File
	if isYAML {
		f, err = yamlsource.Parse(input, src)
	} else {
		f, err = e.reader.Parse(input, src)
	}
	if err != nil {
		return fail(err)
	}
	if len(f.Records) == 0 {
		return e.noRecords(ctx, mode, res)
	}
	res.Records = len(f.Records)

	out, err := e.generator.GenerateFile(f)
	if err != nil {
		return fail(err)
	}
	if mode == ModeLint {
		res.Warnings = e.lint(f)
		res.Status = StatusGenerated
		res.Source = out
		return res
	}

	current, _ := os.ReadFile(res.Output)
	if bytes.Equal(current, out) {
		res.Status = StatusUnchanged
	} else if mode == ModeCheck {
		res.Status = StatusStale
		res.Source = out
		return res
	} else {
		if err := writeFileAtomic(res.Output, out); err != nil {
			return fail(vgenerrors.NewIOError(res.Output, err))
		}
		res.Status = StatusGenerated
	}

	if mode == ModeGenerate && e.cacheEnabled() {
		err := e.store.Put(ctx, cache.Entry{
			InputPath:   input,
			InputHash:   inputHash,
			OutputPath:  res.Output,
			OutputHash:  cache.Hash(out),
			RunID:       logging.GetRunID(ctx),
			Revision:    e.revision,
			GeneratedAt: time.Now().UTC(),
		})
		if err != nil {
			e.logger.WithContext(ctx).Warn("failed to update cache", "error", err)
		}
	}
	return res
}

// noRecords handles an input without records. An output left over from
// an earlier run is removed in generate mode and reported stale in check
// mode.
func (e *Engine) noRecords(ctx context.Context, mode Mode, res FileResult) FileResult {
	res.Status = StatusNoRecords
	if mode == ModeLint || !isGenerated(res.Output) {
		return res
	}
	if mode == ModeCheck {
		res.Status = StatusStale
		return res
	}
	if err := os.Remove(res.Output); err != nil {
		res.Status = StatusFailed
		res.Err = vgenerrors.NewIOError(res.Output, err)
		return res
	}
	if err := e.store.Delete(ctx, res.Input); err != nil {
		e.logger.WithContext(ctx).Warn("failed to update cache", "error", err)
	}
	res.Status = StatusRemoved
	return res
}

func (e *Engine) cacheEnabled() bool {
	return e.cfg.Cache.IsEnabled()
}

// upToDate reports whether the manifest says input was generated from the
// same content and the output on disk is the one that was written.
func (e *Engine) upToDate(ctx context.Context, input, inputHash, output string) bool {
	entry, err := e.store.Get(ctx, input)
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		e.logger.WithContext(ctx).Warn("cache lookup failed", "error", err)
	}
	hit := err == nil && entry.InputHash == inputHash && entry.OutputPath == output
	if hit {
		current, readErr := os.ReadFile(output)
		hit = readErr == nil && cache.Hash(current) == entry.OutputHash
	}
	e.metrics.RecordCacheLookup(hit)
	return hit
}

// isGenerated reports whether path exists and starts with the generated
// code header.
func isGenerated(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, len(codegen.Header))
	n, _ := f.Read(head)
	return string(head[:n]) == codegen.Header
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// errorTypes returns the metric label of every error in err.
func errorTypes(err error) []string {
	if err == nil {
		return nil
	}
	var list *vgenerrors.ErrorList
	if !errors.As(err, &list) {
		return []string{errorType(err)}
	}
	var out []string
	for _, item := range list.Unwrap() {
		out = append(out, errorType(item))
	}
	return out
}

func errorType(err error) string {
	if t, ok := vgenerrors.TypeOf(err); ok {
		return string(t)
	}
	return errorTypeOther
}

// Forget handles an input that no longer exists: its generated output is
// removed and its manifest entry dropped. It reports whether an output
// was removed.
func (e *Engine) Forget(ctx context.Context, input string) (bool, error) {
	if err := e.store.Delete(ctx, input); err != nil {
		e.logger.WithContext(ctx).Warn("failed to update cache", "error", err)
	}
	output := e.OutputPath(input)
	if !isGenerated(output) {
		return false, nil
	}
	if err := os.Remove(output); err != nil {
		return false, vgenerrors.NewIOError(output, err)
	}
	e.logger.WithContext(ctx).Info("removed output of deleted input", "input", input, "output", output)
	return true, nil
}
