// Package cache provides the in-memory TTL cache behind report and
// contact reads. The dashboard polls every few seconds during expo
// hours; the TTL caps how often a poll reaches Supabase.
package cache

import (
	"sync"
	"time"
)

type item[T any] struct {
	value  T
	expiry time.Time
}

// InMemory is a thread-safe TTL cache. One instance is shared by the
// report and contact services, keyed by snapshot name.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]item[T]
	ttl   time.Duration
}

// New creates a cache whose entries expire after ttl. A background
// sweeper reclaims expired entries so stale snapshots do not pile up
// over a multi-day expo.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]item[T]),
		ttl:   ttl,
	}
	go c.sweep()
	return c
}

// Get returns the cached value, or false if absent or expired.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || time.Now().After(it.expiry) {
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set stores value under key with the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[T]{
		value:  value,
		expiry: time.Now().Add(c.ttl),
	}
}

// Delete drops one entry, forcing the next read to recompute.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

func (c *InMemory[T]) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for k, it := range c.items {
			if now.After(it.expiry) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
