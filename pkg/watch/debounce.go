package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects paths and flushes them once no new path has arrived
// for the configured interval.
type Debouncer struct {
	interval time.Duration
	flush    func([]string)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
	stopped bool
}

// NewDebouncer creates a Debouncer calling flush with each batch.
func NewDebouncer(interval time.Duration, flush func([]string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		flush:    flush,
		pending:  make(map[string]bool),
	}
}

// Add records path and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(d.pending))
	for p := range d.pending {
		batch = append(batch, p)
	}
	d.pending = make(map[string]bool)
	d.mu.Unlock()

	sort.Strings(batch)
	d.flush(batch)
}

// Stop cancels any pending flush. Paths added afterwards are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
