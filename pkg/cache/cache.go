// Package cache provides a bounded in-memory TTL cache.
//
// Every component-level cache in the pipeline (audio features, taste
// profiles, final scores) is an injected instance of this type rather than
// package-level map state, so eviction policy and TTL are explicit and the
// implementation can be swapped without touching component logic.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Default cache configuration constants.
const (
	defaultTTL     = 30 * time.Minute
	defaultMaxSize = 10_000
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache is a thread-safe map with per-cache TTL and a size bound.
// When the bound is exceeded the oldest entry is evicted; expired entries
// are dropped lazily on read. Concurrent writers for the same key race with
// last-write-wins semantics, which is acceptable because all cached values
// are idempotent recomputations.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// Option applies a configuration option to the TTLCache.
type Option[V any] func(*TTLCache[V])

// WithTTL sets the entry time-to-live. Zero or negative means entries never
// expire.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(c *TTLCache[V]) {
		c.ttl = ttl
	}
}

// WithMaxSize bounds the number of entries. Zero or negative means unbounded.
func WithMaxSize[V any](size int) Option[V] {
	return func(c *TTLCache[V]) {
		c.maxSize = size
	}
}

// WithClock overrides the time source, used by tests to control expiry.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *TTLCache[V]) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a TTLCache with the given options.
func New[V any](opts ...Option[V]) *TTLCache[V] {
	c := &TTLCache[V]{
		entries: make(map[string]entry[V]),
		ttl:     defaultTTL,
		maxSize: defaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key if present and fresh.
func (c *TTLCache[V]) Get(_ context.Context, key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		c.misses.Add(1)
		return zero, false
	}
	if c.expired(e) {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// refreshed the entry in the meantime.
		if cur, still := c.entries[key]; still && c.expired(cur) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return e.value, true
}

// Set stores value under key, evicting the oldest entry when over capacity.
func (c *TTLCache[V]) Set(_ context.Context, key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOneLocked()
	}
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Delete removes key from the cache.
func (c *TTLCache[V]) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the current number of entries, including not-yet-collected
// expired ones.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cumulative hit and miss counts.
func (c *TTLCache[V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *TTLCache[V]) expired(e entry[V]) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(e.storedAt) > c.ttl
}

// evictOneLocked drops an expired entry if one exists, otherwise the oldest.
func (c *TTLCache[V]) evictOneLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		first     = true
	)
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			return
		}
		if first || e.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, first = k, e.storedAt, false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
