// internal/idempotency/store.go
package idempotency

import (
	"context"
	"sync"
	"time"
)

// Store remembers idempotency keys for mutating requests. Claim returns true
// when the key was not seen before; a false return means the request was
// already processed and must not be executed again.
type Store interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// MemoryStore is a process-local Store. Good enough for a single instance
// and for tests; multi-instance deployments use the Redis store.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]time.Time)}
}

func (s *MemoryStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if expiry, ok := s.seen[key]; ok && expiry.After(now) {
		return false, nil
	}
	s.seen[key] = now.Add(ttl)
	return true, nil
}
