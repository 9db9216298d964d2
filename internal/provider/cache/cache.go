package cache

import (
	"sync"
	"time"
)

// entry stores one cached value with the instant it was stored.
type entry[V any] struct {
	storedAt time.Time
	value    V
}

// TTL is a process-local cache whose entries are valid for a fixed duration.
// Freshness is checked at read time; stale entries are overwritten by the
// next Put, never evicted in the background.
type TTL[K comparable, V any] struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[K]entry[V]
}

// New returns a cache valid for ttl. now defaults to time.Now.
func New[K comparable, V any](ttl time.Duration, now func() time.Time) *TTL[K, V] {
	if now == nil {
		now = time.Now
	}
	return &TTL[K, V]{ttl: ttl, now: now, items: make(map[K]entry[V])}
}

// Get returns the value for key when it is younger than the TTL.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || c.ttl <= 0 || c.now().Sub(e.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value for key, stamped with the current clock.
func (c *TTL[K, V]) Put(key K, value V) {
	c.mu.Lock()
	c.items[key] = entry[V]{storedAt: c.now(), value: value}
	c.mu.Unlock()
}
