package insight

import (
	"strings"
	"sync"
)

// Cache is a session-scoped store of raw commentary text keyed per event.
// Entries are never evicted. A pending set tracks keys with a generation
// in flight so concurrent requests for the same event do not trigger
// duplicate upstream calls.
type Cache struct {
	mu      sync.Mutex
	entries map[string]string
	pending map[string]struct{}
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]string),
		pending: make(map[string]struct{}),
	}
}

// Key derives the cache key for an event: the event's own identifier when
// present, otherwise stock code, datetime and title hyphen-joined so
// distinct events sharing one field do not collide.
func Key(id, stockCode, datetime, title string) string {
	if id != "" {
		return id
	}
	return strings.Join([]string{stockCode, datetime, title}, "-")
}

// Get returns the cached text for key, if any.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.entries[key]
	return text, ok
}

// Put stores text under key, replacing any earlier entry.
func (c *Cache) Put(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = text
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// BeginFetch marks key as having a generation in flight. It returns false
// when a fetch for key is already outstanding, in which case the caller
// must not issue another one.
func (c *Cache) BeginFetch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, inFlight := c.pending[key]; inFlight {
		return false
	}
	c.pending[key] = struct{}{}
	return true
}

// EndFetch clears the in-flight mark for key. Call it when the fetch
// finishes, whether or not it succeeded.
func (c *Cache) EndFetch(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)
}
