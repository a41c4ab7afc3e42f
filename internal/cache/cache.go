// Package cache provides a small in-process TTL cache used for catalog
// lookups (city and category lists) that change rarely but are read on
// every browse page.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// TTLCache is a concurrency-safe cache whose entries expire after a fixed
// duration. Expired entries are dropped lazily on read.
type TTLCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
	m   map[string]entry
}

// New creates a cache with the given entry lifetime. A non-positive ttl
// disables caching entirely: Get always misses.
func New(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry),
	}
}

// Get returns the cached value for key, or ok=false when the key is
// missing or expired.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have refreshed it.
		if cur, ok := c.m[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the cache's TTL.
func (c *TTLCache) Set(key string, value interface{}) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.m[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate removes key immediately, for writers that know the cached
// value just went stale.
func (c *TTLCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Flush empties the cache.
func (c *TTLCache) Flush() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}
