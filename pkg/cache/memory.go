package cache

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Get(ctx context.Context, inputPath string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[inputPath]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *MemoryStore) Put(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[e.InputPath] = e
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, inputPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, inputPath)
	return nil
}

func (m *MemoryStore) Len(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries), nil
}

func (m *MemoryStore) Close() error {
	return nil
}
