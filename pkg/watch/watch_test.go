package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ruleforge/vgen/pkg/config"
	"ruleforge/vgen/pkg/engine"
	"ruleforge/vgen/pkg/telemetry/health"
	"ruleforge/vgen/pkg/telemetry/metrics"

	"github.com/google/go-cmp/cmp"
)

const userSource = `package users

import "ruleforge/vgen/pkg/rules"

//vgen:validate
type User struct {
	Name string ` + "`vgen:\"rules.Len::<_>(Min = 1)\"`" + `
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.Default()
	e, err := engine.New(engine.Options{Config: cfg})
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	return e
}

func TestDebouncerBatches(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string
	d := NewDebouncer(30*time.Millisecond, func(b []string) {
		mu.Lock()
		batches = append(batches, b)
		mu.Unlock()
	})
	defer d.Stop()

	d.Add("b.go")
	d.Add("a.go")
	d.Add("b.go")
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([][]string{{"a.go", "b.go"}}, batches); diff != "" {
		t.Errorf("batches mismatch (-want +got):\n%s", diff)
	}
}

func TestDebouncerStop(t *testing.T) {
	called := make(chan struct{}, 1)
	d := NewDebouncer(20*time.Millisecond, func([]string) { called <- struct{}{} })

	d.Add("a.go")
	d.Stop()
	d.Add("b.go")

	select {
	case <-called:
		t.Error("expected no flush after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewScheduler(t *testing.T) {
	if _, err := NewScheduler("not a schedule", func(context.Context) {}, nil); err == nil {
		t.Error("expected error for invalid schedule")
	}

	s, err := NewScheduler("0 3 * * *", func(context.Context) {}, nil)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if s.NextRun() != nil {
		t.Error("expected no next run before Start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(ctx); err == nil {
		t.Error("expected error when starting twice")
	}

	next := s.NextRun()
	if next == nil {
		t.Fatal("expected next run after Start")
	}
	if next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("expected next run at 03:00, got %s", next.Format("15:04"))
	}
	s.Stop()
	if s.NextRun() != nil {
		t.Error("expected no next run after Stop")
	}
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher(WatcherConfig{
		Paths:      []string{dir},
		Debounce:   20 * time.Millisecond,
		Extensions: config.DefaultWatchExtensions,
	}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	defer fw.Close()

	batches := make(chan []string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- fw.Watch(ctx, func(b []string) { batches <- b })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, ".hidden.go"), "ignored")
	writeFile(t, filepath.Join(dir, "user.go"), userSource)

	select {
	case b := <-batches:
		want := []string{filepath.Join(dir, "user.go")}
		if diff := cmp.Diff(want, b); diff != "" {
			t.Errorf("batch mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestNewFileWatcherNoPaths(t *testing.T) {
	if _, err := NewFileWatcher(WatcherConfig{}, nil); err == nil {
		t.Error("expected error without paths")
	}
}

func TestRunnerHandleChanges(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "user.go")
	output := filepath.Join(dir, "user_vgen.go")
	writeFile(t, input, userSource)

	r, err := NewRunner(RunnerOptions{Engine: newEngine(t), Paths: []string{dir}})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	ctx := context.Background()

	r.HandleChanges(ctx, []string{input, output, filepath.Join(dir, "README.md")})
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output after change: %v", err)
	}
	if r.LastError() != nil {
		t.Errorf("unexpected last error: %v", r.LastError())
	}
	if r.LastRun().IsZero() {
		t.Error("expected last run time")
	}

	writeFile(t, input, strings.Replace(userSource, "//vgen:validate\n", "//vgen:validate bogus\n", 1))
	r.HandleChanges(ctx, []string{input})
	if r.LastError() == nil {
		t.Error("expected last error after failed regeneration")
	}
	status := r.Checker().CheckReadiness(ctx)
	if status.Ready() {
		t.Errorf("expected degraded readiness, got %q", status.Status)
	}

	if err := os.Remove(input); err != nil {
		t.Fatalf("failed to remove input: %v", err)
	}
	r.HandleChanges(ctx, []string{input})
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("expected output of deleted input to be removed")
	}
}

func TestRunnerRegenerateAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "user.go"), userSource)

	r, err := NewRunner(RunnerOptions{Engine: newEngine(t), Paths: []string{dir}})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	r.RegenerateAll(context.Background())

	if _, err := os.Stat(filepath.Join(dir, "user_vgen.go")); err != nil {
		t.Errorf("expected output: %v", err)
	}
	if r.LastError() != nil {
		t.Errorf("unexpected last error: %v", r.LastError())
	}
}

func TestNewRunnerRequiresEngine(t *testing.T) {
	if _, err := NewRunner(RunnerOptions{}); err == nil {
		t.Error("expected error without engine")
	}
}

func TestServerRoutes(t *testing.T) {
	collector := metrics.NewCollector(nil, nil)
	collector.RecordRun(metrics.StatusSucceeded, time.Millisecond)
	srv := NewServer("127.0.0.1:0", collector, health.New(time.Second), nil)

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{MetricsPath, http.StatusOK, "vgen_generator_runs_total"},
		{health.LivenessPath, http.StatusOK, `"status":"ok"`},
		{health.ReadinessPath, http.StatusOK, `"status":"ready"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("expected status code %d, got %d", tt.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}
