package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value  string
	expiry time.Time
}

// memoryStore keeps the session in process memory.
type memoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memoryEntry
	now  func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		ttl:  opts.TTL,
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// NewMemoryStore returns an in-memory Store, mainly for tests and one-shot tooling.
func NewMemoryStore() Store {
	return newMemoryStore(normalizeOptions(Options{}))
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok {
		return "", nil
	}
	if !entry.expiry.After(m.now()) {
		delete(m.data, key)
		return "", nil
	}
	return entry.value, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memoryEntry{value: value, expiry: m.now().Add(m.ttl)}
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryStore) Close() error { return nil }
