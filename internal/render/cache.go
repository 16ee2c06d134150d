package render

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Cache memoises render results by source content. Entries expire after the
// TTL; when full, the oldest entry is evicted.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	max     int
	now     func() time.Time
}

type cacheEntry struct {
	result  Result
	created time.Time
}

func NewCache(ttl time.Duration, max int) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if max <= 0 {
		max = 512
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}
}

// Key is the cache key for source: its SHA-256 in hex.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) Get(source string) (Result, bool) {
	key := Key(source)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Result{}, false
	}
	if c.now().Sub(e.created) > c.ttl {
		delete(c.entries, key)
		return Result{}, false
	}
	return e.result, true
}

func (c *Cache) Put(source string, r Result) {
	key := Key(source)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.max {
		c.evictOldestLocked()
	}
	c.entries[key] = cacheEntry{result: r, created: c.now()}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cleanup removes expired entries and returns how many were removed.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.created) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.created.Before(oldest) {
			oldestKey, oldest = key, e.created
		}
	}
	delete(c.entries, oldestKey)
}
