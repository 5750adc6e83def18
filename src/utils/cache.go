package utils

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value      V
	expiration time.Time
}

// Cache is a keyed in-memory cache with a per-entry expiration.
type Cache[K comparable, V any] struct {
	entries map[K]cacheEntry[V]
	mutex   sync.RWMutex
}

// NewCache initializes a new empty cache.
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]cacheEntry[V]),
	}
}

// Set stores value under key until duration elapses. Expired entries are
// swept on write so keys that are never read again do not accumulate.
func (c *Cache[K, V]) Set(key K, value V, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for k, entry := range c.entries {
		if !now.Before(entry.expiration) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry[V]{
		value:      value,
		expiration: now.Add(duration),
	}
}

// Get retrieves the cached value for key if it has not expired. An expired
// entry is removed.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()

	if ok && time.Now().Before(entry.expiration) {
		return entry.value, true
	}
	if ok {
		c.evict(key)
	}
	var zero V
	return zero, false
}

// evict removes key only if it is still expired, so a concurrent Set is kept.
func (c *Cache[K, V]) evict(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if entry, ok := c.entries[key]; ok && !time.Now().Before(entry.expiration) {
		delete(c.entries, key)
	}
}
