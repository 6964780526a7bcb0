package cache

import (
	"strings"
	"sync"
	"time"
)

// Entry is a cached value with its write time and time to live. Entries are
// replaced wholesale on Set, never mutated in place.
type Entry struct {
	Value      interface{}
	WrittenAt  time.Time
	TTLSeconds int
}

func (e Entry) isValid(now time.Time) bool {
	return now.Sub(e.WrittenAt) < time.Duration(e.TTLSeconds)*time.Second
}

// Cache is an in-memory key/value store with a per-key TTL. Expired entries
// are not evicted eagerly; they expire lazily on read. A stale entry remains
// retrievable through GetStale until it is overwritten or invalidated, which
// lets callers fall back to stale data when a refetch fails.
type Cache struct {
	lock    sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: map[string]Entry{},
		now:     time.Now,
	}
}

// Get returns the cached value for key, or false if the key is missing or the
// entry has expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.isValid(c.now()) {
		return nil, false
	}
	return entry.Value, true
}

// GetStale returns the cached value for key even if the entry has expired.
// The second return reports whether the entry is still within its TTL.
func (c *Cache) GetStale(key string) (interface{}, bool, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return entry.Value, true, entry.isValid(c.now())
}

func (c *Cache) Set(key string, value interface{}, ttlSeconds int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.entries[key] = Entry{
		Value:      value,
		WrittenAt:  c.now(),
		TTLSeconds: ttlSeconds,
	}
}

func (c *Cache) Invalidate(key string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.entries, key)
}

func (c *Cache) InvalidatePrefix(prefix string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
