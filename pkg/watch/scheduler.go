package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ruleforge/vgen/pkg/telemetry/logging"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a job on a cron schedule.
type Scheduler struct {
	schedule string
	job      func(context.Context)
	logger   *logging.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewScheduler creates a Scheduler for a standard five-field cron
// expression.
func NewScheduler(schedule string, job func(context.Context), logger *logging.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scheduler{
		schedule: schedule,
		job:      job,
		logger:   logger,
		cron:     cron.New(),
	}, nil
}

// Start schedules the job. It stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.job(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule regeneration: %w", err)
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("regeneration scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("regeneration scheduler stopped")
	}
}

// NextRun returns the next scheduled time, or nil when not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
