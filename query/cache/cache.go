// Package cache provides a typed LRU cache with TTL and hit statistics.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Stats represents cache statistics
type Stats struct {
	Hits    int64
	Misses  int64
	Size    int
	MaxSize int
	// Evictions counts entries dropped for capacity or expiry.
	Evictions int64
	HitRate   float64
}

// LRUCache is a size-bounded LRU cache whose entries expire after a TTL.
// It is safe for concurrent use.
type LRUCache[K comparable, V any] struct {
	lru     *expirable.LRU[K, V]
	maxSize int

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewLRUCache creates a new LRU cache. A ttl of zero disables expiry.
func NewLRUCache[K comparable, V any](maxSize int, ttl time.Duration) *LRUCache[K, V] {
	c := &LRUCache[K, V]{maxSize: maxSize}
	c.lru = expirable.NewLRU[K, V](maxSize, func(K, V) {
		c.evictions.Add(1)
	}, ttl)
	return c
}

// Get retrieves a value from the cache
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores a value in the cache
func (c *LRUCache[K, V]) Set(key K, value V) {
	c.lru.Add(key, value)
}

// Invalidate removes a specific key from the cache. Explicit removals are
// not counted as evictions.
func (c *LRUCache[K, V]) Invalidate(key K) {
	c.remove(key)
}

// Clear removes all entries from the cache. Explicit removals are not
// counted as evictions.
func (c *LRUCache[K, V]) Clear() {
	for _, key := range c.lru.Keys() {
		c.remove(key)
	}
}

// remove deletes key and takes back the eviction the callback recorded.
func (c *LRUCache[K, V]) remove(key K) {
	if c.lru.Remove(key) {
		c.evictions.Add(-1)
	}
}

// GetStats returns cache statistics
func (c *LRUCache[K, V]) GetStats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	stats := Stats{
		Hits:      hits,
		Misses:    misses,
		Size:      c.lru.Len(),
		MaxSize:   c.maxSize,
		Evictions: c.evictions.Load(),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}
