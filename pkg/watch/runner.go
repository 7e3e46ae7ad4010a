package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"ruleforge/vgen/pkg/config"
	"ruleforge/vgen/pkg/engine"
	"ruleforge/vgen/pkg/telemetry/health"
	"ruleforge/vgen/pkg/telemetry/logging"
	"ruleforge/vgen/pkg/telemetry/metrics"
)

// RunnerOptions wires a Runner.
type RunnerOptions struct {
	Engine  *engine.Engine
	Config  config.WatchConfig
	Paths   []string
	Logger  *logging.Logger
	Metrics *metrics.Collector
}

// Runner keeps outputs in sync with their inputs.
type Runner struct {
	engine  *engine.Engine
	cfg     config.WatchConfig
	paths   []string
	logger  *logging.Logger
	metrics *metrics.Collector
	checker *health.Checker

	// runMu serializes runs triggered by file events and the schedule.
	runMu sync.Mutex

	stateMu sync.RWMutex
	lastErr error
	lastRun time.Time
}

// NewRunner creates a Runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Engine == nil {
		return nil, errors.New("watch: engine is nil")
	}
	if len(opts.Paths) == 0 {
		opts.Paths = []string{"."}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector(nil, nil)
	}

	r := &Runner{
		engine:  opts.Engine,
		cfg:     opts.Config,
		paths:   opts.Paths,
		logger:  opts.Logger.With("component", "watch"),
		metrics: opts.Metrics,
		checker: health.New(time.Second),
	}
	r.checker.RegisterCheck("last_run", func(context.Context) error {
		return r.LastError()
	})
	return r, nil
}

// Checker returns the health checker served next to the metrics.
func (r *Runner) Checker() *health.Checker {
	return r.checker
}

// LastError returns the error of the most recent run, or nil.
func (r *Runner) LastError() error {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.lastErr
}

// LastRun returns when the most recent run finished.
func (r *Runner) LastRun() time.Time {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.lastRun
}

func (r *Runner) record(err error) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	r.lastErr = err
	r.lastRun = time.Now()
}

// Run regenerates everything once, then watches until ctx is cancelled.
// Generation failures are logged and reflected in the readiness endpoint;
// only setup failures are returned.
func (r *Runner) Run(ctx context.Context) error {
	r.RegenerateAll(ctx)

	if r.cfg.Schedule != "" {
		sched, err := NewScheduler(r.cfg.Schedule, r.RegenerateAll, r.logger)
		if err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	if r.cfg.MetricsAddress != "" {
		srv := NewServer(r.cfg.MetricsAddress, r.metrics, r.checker, r.logger)
		if _, err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	fw, err := NewFileWatcher(WatcherConfig{
		Paths:      r.paths,
		Debounce:   r.cfg.Debounce,
		Extensions: r.cfg.Extensions,
	}, r.logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	return fw.Watch(ctx, func(changed []string) {
		r.HandleChanges(ctx, changed)
	})
}

// RegenerateAll runs generation over every watched path.
func (r *Runner) RegenerateAll(ctx context.Context) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	report, err := r.engine.Run(ctx, engine.ModeGenerate, r.paths)
	if err == nil {
		err = report.Err()
	}
	if err != nil {
		r.logger.Error("regeneration failed", "error", err)
	}
	r.record(err)
}

// HandleChanges regenerates the changed inputs that still exist and
// forgets the ones that were deleted. Paths that are not inputs are
// ignored.
func (r *Runner) HandleChanges(ctx context.Context, changed []string) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	var present []string
	for _, p := range changed {
		if !r.engine.IsInput(p) {
			continue
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			if _, err := r.engine.Forget(ctx, p); err != nil {
				r.logger.Error("failed to remove output", "input", p, "error", err)
			}
			continue
		}
		present = append(present, p)
	}
	if len(present) == 0 {
		return
	}

	err := r.engine.RunFiles(ctx, engine.ModeGenerate, present).Err()
	if err != nil {
		r.logger.Error("regeneration failed", "error", err)
	}
	r.record(err)
}
