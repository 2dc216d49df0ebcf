package mojang

import (
	"sync"
	"time"
)

// expiringCache is a small in-process memo with per-entry TTL. Entries are
// overwritten in place; expired entries are simply skipped on read, so the
// map stays bounded by the set of keys ever requested.
type expiringCache[K comparable, V any] struct {
	mu      sync.Mutex
	timeout time.Duration
	entries map[K]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

func newExpiringCache[K comparable, V any](timeout time.Duration) *expiringCache[K, V] {
	return &expiringCache[K, V]{
		timeout: timeout,
		entries: make(map[K]cacheEntry[V]),
	}
}

func (c *expiringCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || time.Since(entry.storedAt) > c.timeout {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *expiringCache[K, V]) set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, storedAt: time.Now()}
}

// getOrFetch returns the cached value or populates it via fetch. Concurrent
// misses on the same key may fetch more than once; the last write wins.
func (c *expiringCache[K, V]) getOrFetch(key K, fetch func() (V, error)) (V, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}
	v, err := fetch()
	if err != nil {
		var zero V
		return zero, err
	}
	c.set(key, v)
	return v, nil
}
