package tokenstore

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	userID    uint
	expiresAt time.Time
}

// MemoryStore is the single-process Store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]entry{}, now: time.Now}
}

// WithClock swaps the time source, for tests.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Put(_ context.Context, purpose, token string, userID uint, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gc()
	m.entries[key(purpose, token)] = entry{userID: userID, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Take(_ context.Context, purpose, token string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(purpose, token)
	e, ok := m.entries[k]
	if !ok {
		return 0, ErrTokenNotFound
	}
	delete(m.entries, k)
	if !m.now().Before(e.expiresAt) {
		return 0, ErrTokenNotFound
	}
	return e.userID, nil
}

func (m *MemoryStore) gc() {
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
