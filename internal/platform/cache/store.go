package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/platform/resilience"
)

// loadTimeout bounds a shared load once it no longer follows any caller's ctx.
const loadTimeout = time.Minute

type entry struct {
	value     any
	expiresAt time.Time
	gen       uint64
	timer     *time.Timer
}

// Stats is a point-in-time view of the store counters.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
	Loads   int64
	Evicted int64
}

// Store is a TTL cache keyed by endpoint. Loads for the same key are collapsed into
// one call, only successful loads are stored, and each entry is evicted by its own
// timer when the TTL elapses.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	gen     uint64
	flight  resilience.SingleFlight
	now     func() time.Time

	hits    atomic.Int64
	misses  atomic.Int64
	loads   atomic.Int64
	evicted atomic.Int64
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	// the eviction timer may not have fired yet
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.evict(key, e.gen)
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok && old.timer != nil {
		old.timer.Stop()
	}

	s.gen++
	e := entry{value: value, gen: s.gen}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
		gen := s.gen
		e.timer = time.AfterFunc(s.ttl, func() { s.evict(key, gen) })
	}
	s.entries[key] = e
}

// Len counts stored entries, including ones whose timer has not fired yet.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Stats() Stats {
	return Stats{
		Entries: s.Len(),
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Loads:   s.loads.Load(),
		Evicted: s.evicted.Load(),
	}
}

// GetOrLoad returns the cached value for key or runs loader once for all concurrent
// callers. Loader errors are returned to every waiter and are not cached.
//
// The shared load runs detached from the caller that started it, bounded by
// loadTimeout. A caller whose ctx ends stops waiting with ctx.Err() while the load
// carries on for the remaining waiters.
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

	ch := s.flight.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		if cached, ok := s.Get(loadCtx, key); ok {
			return cached, nil
		}

		s.loads.Add(1)
		loaded, loadErr := loader(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(loadCtx, key, loaded)
		return loaded, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) evict(key string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.gen != gen {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(s.entries, key)
	s.evicted.Add(1)
}
