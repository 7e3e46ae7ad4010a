package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ruleforge/vgen/pkg/telemetry/logging"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures a FileWatcher.
type WatcherConfig struct {
	// Paths are the files or directories to watch. Directories are watched
	// recursively, including directories created later.
	Paths []string

	// Debounce is the quiet period before a batch is delivered.
	Debounce time.Duration

	// Extensions are the file name suffixes that are reported.
	Extensions []string
}

// FileWatcher reports changed files in debounced batches.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	logger  *logging.Logger
	config  WatcherConfig

	mu      sync.Mutex
	running bool
}

// NewFileWatcher creates a FileWatcher. Call Close when done.
func NewFileWatcher(cfg WatcherConfig, logger *logging.Logger) (*FileWatcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{watcher: w, logger: logger, config: cfg}, nil
}

// Watch delivers batches of changed paths to onChange until ctx is
// cancelled. onChange runs on a timer goroutine and may be called again
// before a slow previous call returns.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func([]string)) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
	}()

	for _, p := range fw.config.Paths {
		if err := fw.addPath(p); err != nil {
			return fmt.Errorf("failed to watch path: %w", err)
		}
	}

	debounce := NewDebouncer(fw.config.Debounce, onChange)
	defer debounce.Stop()

	fw.logger.Info("file watcher started",
		"paths", fw.config.Paths,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(event.Name) {
					if err := fw.addDirectory(event.Name); err != nil {
						fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !fw.shouldProcessEvent(event) {
				continue
			}
			fw.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())
			debounce.Add(filepath.Clean(event.Name))

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Close releases the fsnotify watcher.
func (fw *FileWatcher) Close() error {
	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fw.addDirectory(path)
	}
	return fw.watcher.Add(path)
}

// addDirectory watches dir and its subdirectories.
func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, ext := range fw.config.Extensions {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

func skipDir(path string) bool {
	name := filepath.Base(path)
	return name == "vendor" || name == "testdata" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
