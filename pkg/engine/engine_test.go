package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	vgenerrors "ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/cache"
	"ruleforge/vgen/pkg/catalog"
	"ruleforge/vgen/pkg/codegen"
	"ruleforge/vgen/pkg/config"
	"ruleforge/vgen/pkg/rules"
	"ruleforge/vgen/pkg/telemetry/metrics"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
)

const userSource = `package users

import "ruleforge/vgen/pkg/rules"

//vgen:validate try_new
type User struct {
	Name string ` + "`vgen:\"rules.Len::<_>(Min = 1, Max = 50)\"`" + `
	//vgen:rules.Range::<_>(Min = 0, Max = 150)
	Age int
}
`

const badSource = `package users

//vgen:validate frobnicate
type Broken struct {
	X int
}
`

const plainSource = `package users

type Plain struct{ X int }
`

const descriptor = `package: users
imports:
  rules: ruleforge/vgen/pkg/rules
records:
  - name: Email
    options: newtype
    fields:
      - name: Address
        type: string
        rules: ["rules.Pattern(Expr = ` + "`^[^@]+@[^@]+$`" + `)"]
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

type fixture struct {
	engine   *Engine
	registry *prometheus.Registry
	store    cache.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.Driver = "memory"

	cat := catalog.New()
	if err := rules.Register(cat); err != nil {
		t.Fatalf("failed to register rules: %v", err)
	}

	registry := prometheus.NewRegistry()
	store := cache.NewMemoryStore()
	e, err := New(Options{
		Config:   cfg,
		Metrics:  metrics.NewCollector(&cfg.Telemetry.Metrics, registry),
		Store:    store,
		Catalog:  cat,
		Revision: "abc123",
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &fixture{engine: e, registry: registry, store: store}
}

// metricValue sums the samples of a counter or gauge whose labels include
// every given name=value pair.
func metricValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for k, v := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
					}
				}
				if !found {
					continue metric
				}
			}
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				total += g.GetValue()
			}
		}
	}
	return total
}

func statuses(r *Report) map[string]string {
	out := make(map[string]string)
	for _, f := range r.Files {
		out[filepath.Base(f.Input)] = f.Status
	}
	return out
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "user.go"), userSource)
	writeFile(t, filepath.Join(dir, "plain.go"), plainSource)
	writeFile(t, filepath.Join(dir, "email.vgen.yaml"), descriptor)

	fx := newFixture(t)
	ctx := context.Background()

	report, err := fx.engine.Run(ctx, ModeGenerate, []string{dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	want := map[string]string{
		"email.vgen.yaml": StatusGenerated,
		"plain.go":        StatusNoRecords,
		"user.go":         StatusGenerated,
	}
	if diff := cmp.Diff(want, statuses(report)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
	if report.RunID == "" {
		t.Error("expected run ID")
	}

	out, err := os.ReadFile(filepath.Join(dir, "user_vgen.go"))
	if err != nil {
		t.Fatalf("expected user_vgen.go: %v", err)
	}
	if !strings.HasPrefix(string(out), codegen.Header) {
		t.Errorf("expected generated header, got %q", strings.SplitN(string(out), "\n", 2)[0])
	}
	for _, want := range []string{"func NewUser(", "type UserValidationError struct"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "email_vgen.go")); err != nil {
		t.Errorf("expected email_vgen.go: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "plain_vgen.go")); !os.IsNotExist(err) {
		t.Error("expected no output for a file without records")
	}

	entry, err := fx.store.Get(ctx, filepath.Join(dir, "user.go"))
	if err != nil {
		t.Fatalf("expected cache entry: %v", err)
	}
	if entry.RunID != report.RunID {
		t.Errorf("expected cache run ID %q, got %q", report.RunID, entry.RunID)
	}
	if entry.Revision != "abc123" {
		t.Errorf("expected cache revision %q, got %q", "abc123", entry.Revision)
	}

	if got := metricValue(t, fx.registry, "vgen_generator_files_total", map[string]string{"status": "generated"}); got != 2 {
		t.Errorf("expected 2 generated files, got %v", got)
	}
	if got := metricValue(t, fx.registry, "vgen_generator_records_total", nil); got != 2 {
		t.Errorf("expected 2 records, got %v", got)
	}
}

func TestGenerateUsesCache(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "user.go")
	output := filepath.Join(dir, "user_vgen.go")
	writeFile(t, input, userSource)

	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.engine.Run(ctx, ModeGenerate, []string{dir}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	report, _ := fx.engine.Run(ctx, ModeGenerate, []string{dir})
	if got := report.Files[0].Status; got != StatusUnchanged {
		t.Errorf("expected second run %q, got %q", StatusUnchanged, got)
	}
	if got := metricValue(t, fx.registry, "vgen_generator_cache_hits_total", nil); got != 1 {
		t.Errorf("expected 1 cache hit, got %v", got)
	}

	// A hand-edited output is regenerated even though the input is unchanged.
	writeFile(t, output, codegen.Header+"\npackage users\n")
	report, _ = fx.engine.Run(ctx, ModeGenerate, []string{dir})
	if got := report.Files[0].Status; got != StatusGenerated {
		t.Errorf("expected edited output to be %q, got %q", StatusGenerated, got)
	}

	writeFile(t, input, strings.Replace(userSource, "Max = 150", "Max = 130", 1))
	report, _ = fx.engine.Run(ctx, ModeGenerate, []string{dir})
	if got := report.Files[0].Status; got != StatusGenerated {
		t.Errorf("expected changed input to be %q, got %q", StatusGenerated, got)
	}
	out, _ := os.ReadFile(output)
	if !strings.Contains(string(out), "130") {
		t.Error("expected regenerated output to reflect the new bound")
	}
}

func TestGenerateFailureKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "user.go")
	bad := filepath.Join(dir, "broken.go")
	badOut := filepath.Join(dir, "broken_vgen.go")
	writeFile(t, good, userSource)
	writeFile(t, bad, badSource)
	previous := codegen.Header + "\n// previous\npackage users\n"
	writeFile(t, badOut, previous)

	fx := newFixture(t)
	report, err := fx.engine.Run(context.Background(), ModeGenerate, []string{dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := map[string]string{"broken.go": StatusFailed, "user.go": StatusGenerated}
	if diff := cmp.Diff(want, statuses(report)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}

	runErr := report.Err()
	var re *RunError
	if !errors.As(runErr, &re) {
		t.Fatalf("expected *RunError, got %T", runErr)
	}
	if len(re.Failed) != 1 || re.Total != 2 {
		t.Errorf("expected 1 of 2 failed, got %d of %d", len(re.Failed), re.Total)
	}
	if typ, ok := vgenerrors.TypeOf(runErr); !ok || typ != vgenerrors.ErrorTypeUnknownOption {
		t.Errorf("expected error type %q, got %q", vgenerrors.ErrorTypeUnknownOption, typ)
	}

	out, _ := os.ReadFile(badOut)
	if string(out) != previous {
		t.Error("expected failed file to leave its previous output untouched")
	}
	if got := metricValue(t, fx.registry, "vgen_generator_errors_total", map[string]string{"type": "unknown_option"}); got != 1 {
		t.Errorf("expected 1 unknown_option error, got %v", got)
	}
	if got := metricValue(t, fx.registry, "vgen_generator_runs_total", map[string]string{"status": "failed"}); got != 1 {
		t.Errorf("expected 1 failed run, got %v", got)
	}
}

func TestGenerateRemovesStaleOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "user.go")
	output := filepath.Join(dir, "user_vgen.go")
	writeFile(t, input, userSource)

	fx := newFixture(t)
	ctx := context.Background()
	if _, err := fx.engine.Run(ctx, ModeGenerate, []string{input}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	writeFile(t, input, plainSource)
	report, _ := fx.engine.Run(ctx, ModeGenerate, []string{input})
	if got := report.Files[0].Status; got != StatusRemoved {
		t.Errorf("expected %q, got %q", StatusRemoved, got)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("expected stale output to be removed")
	}
	if _, err := fx.store.Get(ctx, input); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected cache entry to be deleted, got %v", err)
	}
}

func TestCheckMode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "user.go"), userSource)

	fx := newFixture(t)
	ctx := context.Background()

	report, _ := fx.engine.Run(ctx, ModeCheck, []string{dir})
	if got := report.Files[0].Status; got != StatusStale {
		t.Errorf("expected %q before generation, got %q", StatusStale, got)
	}
	if len(report.Files[0].Source) == 0 {
		t.Error("expected stale result to carry the generated source")
	}
	if _, err := os.Stat(filepath.Join(dir, "user_vgen.go")); !os.IsNotExist(err) {
		t.Error("expected check mode not to write")
	}

	if _, err := fx.engine.Run(ctx, ModeGenerate, []string{dir}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	report, _ = fx.engine.Run(ctx, ModeCheck, []string{dir})
	if got := report.Files[0].Status; got != StatusUnchanged {
		t.Errorf("expected %q after generation, got %q", StatusUnchanged, got)
	}
}

func TestExamplesUpToDate(t *testing.T) {
	fx := newFixture(t)
	report, err := fx.engine.Run(context.Background(), ModeCheck, []string{filepath.Join("..", "..", "examples")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := map[string]string{"order.go": StatusUnchanged, "user.go": StatusUnchanged}
	if diff := cmp.Diff(want, statuses(report)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestLint(t *testing.T) {
	dir := t.TempDir()
	src := `package users

import "ruleforge/vgen/pkg/rules"

//vgen:validate
type Account struct {
	//vgen:rules.Lenn::<_>(Min = 1)
	Name string
	//vgen:rules.NonEmpty
	Nick string
	//vgen:rules.Pattern::<_>(Expr = "x")
	Code string
	//vgen:rules.Len::<_>(Min = 2)
	Handle string
	//vgen:rules.MaxItems::<_>(Max = 3)
	Tags []string
	//vgen:rules.MinItems::<string>(Min = 1)
	Roles []string
}
`
	writeFile(t, filepath.Join(dir, "account.go"), src)

	fx := newFixture(t)
	report, err := fx.engine.Run(context.Background(), ModeLint, []string{dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("unexpected lint failure: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "account_vgen.go")); !os.IsNotExist(err) {
		t.Error("expected lint not to write")
	}

	warnings := report.Warnings()
	if len(warnings) != 4 {
		t.Fatalf("expected 4 warnings, got %d: %v", len(warnings), warnings)
	}
	wants := []string{
		"unknown validator `rules.Lenn`",
		"validator `rules.NonEmpty` is generic",
		"validator `rules.Pattern` is not generic",
		"validator `rules.MaxItems` takes the element type; write `rules.MaxItems::<Elem>`",
	}
	for i, want := range wants {
		if !strings.Contains(warnings[i].Message, want) {
			t.Errorf("expected warning %d to contain %q, got %q", i, want, warnings[i].Message)
		}
	}
	if !strings.Contains(warnings[0].Message, "Did you mean 'Len'?") {
		t.Errorf("expected suggestion in %q", warnings[0].Message)
	}
	if warnings[0].Location.Line != 7 {
		t.Errorf("expected warning on line 7, got %d", warnings[0].Location.Line)
	}
}

func TestDuplicateOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "email.go"), userSource)
	writeFile(t, filepath.Join(dir, "email.vgen.yaml"), descriptor)

	fx := newFixture(t)
	report, _ := fx.engine.Run(context.Background(), ModeGenerate, []string{dir})

	want := map[string]string{"email.go": StatusGenerated, "email.vgen.yaml": StatusFailed}
	if diff := cmp.Diff(want, statuses(report)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"a.go",
		"a_vgen.go",
		"a_test.go",
		"b.vgen.yaml",
		"notes.yaml",
		"sub/c.go",
		"vendor/v.go",
		"testdata/t.go",
		".hidden/h.go",
		"_examples/e.go",
	} {
		writeFile(t, filepath.Join(dir, name), "package x\n")
	}

	fx := newFixture(t)
	got, err := fx.engine.Discover([]string{dir, filepath.Join(dir, "a.go"), filepath.Join(dir, "notes.yaml")})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	var rel []string
	for _, p := range got {
		r, _ := filepath.Rel(dir, p)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"a.go", "b.vgen.yaml", "sub/c.go"}
	if diff := cmp.Diff(want, rel); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}

	if _, err := fx.engine.Discover([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestOutputPath(t *testing.T) {
	fx := newFixture(t)
	tests := map[string]string{
		"user.go":             "user_vgen.go",
		"dir/users.vgen.yaml": "dir/users_vgen.go",
	}
	for in, want := range tests {
		if got := fx.engine.OutputPath(in); got != want {
			t.Errorf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestForget(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "user.go")
	writeFile(t, input, userSource)

	fx := newFixture(t)
	ctx := context.Background()
	if _, err := fx.engine.Run(ctx, ModeGenerate, []string{input}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := os.Remove(input); err != nil {
		t.Fatalf("failed to remove input: %v", err)
	}

	removed, err := fx.engine.Forget(ctx, input)
	if err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if !removed {
		t.Error("expected output to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "user_vgen.go")); !os.IsNotExist(err) {
		t.Error("expected output file to be gone")
	}

	// Hand-written files sharing the output name are left alone.
	writeFile(t, filepath.Join(dir, "user_vgen.go"), "package users\n")
	removed, _ = fx.engine.Forget(ctx, input)
	if removed {
		t.Error("expected hand-written file to be kept")
	}
}
