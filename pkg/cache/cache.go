package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"ruleforge/vgen/pkg/config"
)

// ErrNotFound is returned by Get when no entry exists for a path.
var ErrNotFound = errors.New("cache entry not found")

// Entry is one manifest row.
type Entry struct {
	InputPath   string    `json:"input_path"`
	InputHash   string    `json:"input_hash"`
	OutputPath  string    `json:"output_path"`
	OutputHash  string    `json:"output_hash"`
	RunID       string    `json:"run_id"`
	Revision    string    `json:"revision,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Store persists manifest entries keyed by input path.
type Store interface {
	// Get returns the entry for inputPath or ErrNotFound.
	Get(ctx context.Context, inputPath string) (*Entry, error)

	// Put inserts or replaces the entry for e.InputPath.
	Put(ctx context.Context, e Entry) error

	// Delete removes the entry for inputPath. Missing entries are ignored.
	Delete(ctx context.Context, inputPath string) error

	// Len returns the number of entries.
	Len(ctx context.Context) (int, error)

	Close() error
}

// Open returns the store selected by cfg. A disabled cache yields a
// memory store so callers never branch on nil.
func Open(cfg *config.CacheConfig) (Store, error) {
	if cfg == nil || !cfg.IsEnabled() {
		return NewMemoryStore(), nil
	}

	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case DriverModernc, DriverMattn:
		return NewSQLiteStore(SQLiteConfig{Driver: cfg.Driver, Path: cfg.Path})
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}

// Hash returns the hex sha256 of the concatenated parts. Each part is
// length-prefixed so that ("ab", "c") and ("a", "bc") differ.
func Hash(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
