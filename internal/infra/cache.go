// Package infra provides shared infrastructure for the market data client
// and the server: caching, rate limiting, retrying HTTP and logging.
package infra

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe in-memory cache with a fixed TTL.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache whose entries live for ttl. A non-positive ttl
// disables caching: Set becomes a no-op.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]cacheEntry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key.
func (c *Cache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *Cache[V]) Cleanup() {
	c.mu.Lock()
	now := c.now()
	for k, v := range c.entries {
		if now.After(v.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
