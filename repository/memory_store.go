package repository

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore keeps values in process memory. A zero ttl keeps entries until
// they are removed.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:  ttl,
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(key)
}

func (m *MemoryStore) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.data[key] = entry
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Pop(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	val, ok, err := m.lookup(key)
	delete(m.data, key)
	return val, ok, err
}

// lookup must be called with mu held.
func (m *MemoryStore) lookup(key string) (string, bool, error) {
	entry, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.data, key)
		return "", false, nil
	}
	return entry.value, true, nil
}
