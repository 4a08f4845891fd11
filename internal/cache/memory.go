package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	memoryDefaultExpiration = 30 * time.Minute
	memoryCleanupInterval   = time.Hour
)

// MemoryStore keeps entries in process.
type MemoryStore struct {
	c  *gocache.Cache
	mu sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: gocache.New(memoryDefaultExpiration, memoryCleanupInterval)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.c.Set(key, append([]byte(nil), value...), expiration(ttl))
	return nil
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.c.Add(key, int64(1), expiration(ttl)); err == nil {
		return 1, nil
	}
	n, err := s.c.IncrementInt64(key, 1)
	if err != nil {
		// The entry expired or holds a non-counter value.
		s.c.Set(key, int64(1), expiration(ttl))
		return 1, nil
	}
	return n, nil
}

func (s *MemoryStore) Decr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.c.DecrementInt64(key, 1)
	if err != nil {
		return 0, nil
	}
	if n < 0 {
		n, _ = s.c.IncrementInt64(key, -n)
	}
	return n, nil
}

func (s *MemoryStore) Count(_ context.Context, key string) (int64, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return 0, nil
	}
	n, _ := v.(int64)
	return n, nil
}

func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}
