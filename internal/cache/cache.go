// Package cache provides the bounded in-memory cache shared by the preview
// and optimized-surface paths: capacity-bounded with lowest-access-count
// eviction, plus TTL expiry that applies regardless of capacity pressure.
package cache

import (
	"sync"
	"time"
)

// entry wraps a cached payload with its bookkeeping fields.
type entry[V any] struct {
	key         string
	value       V
	storedAt    time.Time
	accessCount int64
	sizeBytes   int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries     int
	SizeBytes   int64
	Hits        int64
	Misses      int64
	Evictions   int64
	Expirations int64
}

// Cache is a bounded TTL cache. When capacity is exceeded the entry with
// the lowest access count is evicted first, ties broken by oldest insert.
type Cache[V any] struct {
	mu       sync.RWMutex
	entries  map[string]*entry[V]
	capacity int
	ttl      time.Duration
	now      func() time.Time

	hits        int64
	misses      int64
	evictions   int64
	expirations int64
}

// New creates a cache with the given capacity and entry TTL.
func New[V any](capacity int, ttl time.Duration) *Cache[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache[V]{
		entries:  make(map[string]*entry[V]),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cached value and bumps its access count. Expired entries
// are removed on access and reported as misses.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}

	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		c.expirations++
		c.misses++
		return zero, false
	}

	e.accessCount++
	c.hits++
	return e.value, true
}

// Set stores a value, evicting the least-used entries if the capacity is
// exceeded. sizeBytes is advisory and only feeds Stats.
func (c *Cache[V]) Set(key string, value V, sizeBytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		existing.value = value
		existing.storedAt = c.now()
		existing.sizeBytes = sizeBytes
		return
	}

	c.entries[key] = &entry[V]{
		key:       key,
		value:     value,
		storedAt:  c.now(),
		sizeBytes: sizeBytes,
	}

	for len(c.entries) > c.capacity {
		c.evictLowestLocked()
	}
}

// Delete removes an entry if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V])
}

// Sweep removes every expired entry and returns how many were dropped.
// Expiry ignores capacity pressure entirely.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return 0
	}

	removed := 0
	cutoff := c.now().Add(-c.ttl)
	for key, e := range c.entries {
		if e.storedAt.Before(cutoff) {
			delete(c.entries, key)
			c.expirations++
			removed++
		}
	}
	return removed
}

// Shrink evicts least-used entries until at most targetFraction of the
// capacity remains. Used by the memory monitor when the process is under
// pressure. Returns how many entries were evicted.
func (c *Cache[V]) Shrink(targetFraction float64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if targetFraction < 0 {
		targetFraction = 0
	}
	target := int(float64(c.capacity) * targetFraction)

	removed := 0
	for len(c.entries) > target {
		if !c.evictLowestLocked() {
			break
		}
		removed++
	}
	return removed
}

// Len returns the current entry count.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var size int64
	for _, e := range c.entries {
		size += e.sizeBytes
	}

	return Stats{
		Entries:     len(c.entries),
		SizeBytes:   size,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}

// evictLowestLocked removes the entry with the lowest access count,
// breaking ties by oldest insert time. Caller holds the write lock.
func (c *Cache[V]) evictLowestLocked() bool {
	var victim *entry[V]
	for _, e := range c.entries {
		if victim == nil {
			victim = e
			continue
		}
		if e.accessCount < victim.accessCount ||
			(e.accessCount == victim.accessCount && e.storedAt.Before(victim.storedAt)) {
			victim = e
		}
	}

	if victim == nil {
		return false
	}
	delete(c.entries, victim.key)
	c.evictions++
	return true
}
