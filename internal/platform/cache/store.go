package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/platform/resilience"
)

type item struct {
	value    any
	deadline time.Time
}

func (i item) live(now time.Time) bool {
	return i.deadline.IsZero() || now.Before(i.deadline)
}

// Store is an in-process key/value cache with time-based expiry only.
// A zero TTL keeps the entry until it is deleted. Empty keys are never stored.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
	loads resilience.Flight[any]
	now   func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]item),
		ttl:   ttl,
		now:   time.Now,
	}
}

// TTL returns the default time-to-live used by Set.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns a live value. An expired entry is dropped on sight.
func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.now()
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	switch {
	case !ok:
		return nil, false
	case it.live(now):
		return it.value, true
	}

	s.mu.Lock()
	if current, ok := s.items[key]; ok && !current.live(now) {
		delete(s.items, key)
	}
	s.mu.Unlock()
	return nil, false
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *Store) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}
	it := item{value: value}
	if ttl > 0 {
		it.deadline = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// DeletePrefix removes every key under prefix and reports how many went.
func (s *Store) DeletePrefix(_ context.Context, prefix string) int {
	if prefix == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
			removed++
		}
	}
	return removed
}

func (s *Store) Clear(_ context.Context) {
	s.mu.Lock()
	clear(s.items)
	s.mu.Unlock()
}

// Len counts live entries.
func (s *Store) Len() int {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, it := range s.items {
		if it.live(now) {
			n++
		}
	}
	return n
}

// GetOrLoad returns the cached value for key or runs loader once across
// concurrent callers and caches its result. Loader errors are not cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, _, err := s.loads.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, err
}
