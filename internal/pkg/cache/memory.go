package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	key       Key
	value     []byte
	stale     bool
	expiresAt time.Time
}

// MemoryStore is the in-process store used when no shared cache is
// configured, and the deterministic backend for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Read(_ context.Context, key Key) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key.String()]
	if !ok || entry.stale {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore) Write(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &memoryEntry{key: key, value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key.String()] = entry
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, prefix Key) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marked := 0
	for _, entry := range s.entries {
		if entry.key.HasPrefix(prefix) && !entry.stale {
			entry.stale = true
			marked++
		}
	}
	return marked, nil
}
