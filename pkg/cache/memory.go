package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process cache with per-entry TTL.
//
// Eviction is lazy: an expired entry is removed when Get observes it.
// The cache is unbounded; there is no LRU or size limit.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is overridable for tests.
	now func() time.Time
}

type memoryEntry struct {
	data       []byte
	insertedAt time.Time
	ttl        time.Duration
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the stored value if present and fresh. An expired entry is
// evicted and reported as a miss.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.ttl > 0 && c.now().Sub(e.insertedAt) > e.ttl {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores data under key, overwriting any existing entry and resetting
// its insertion time.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{data: data, insertedAt: c.now(), ttl: ttl}
	return nil
}

// Delete removes the entry for key, if any.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Clear drops all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

// Close does nothing for the memory cache.
func (c *MemoryCache) Close() error { return nil }

// Len reports the number of stored entries, including any that have
// expired but not yet been evicted.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
