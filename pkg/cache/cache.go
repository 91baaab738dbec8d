// Package cache provides response caching for registry clients.
//
// Three implementations are available:
//   - [MemoryCache]: in-process TTL map, the default for a single run
//   - [FileCache]: persistent JSON files for reuse across CLI invocations
//   - [NullCache]: no-op cache for --no-cache
//
// Entries expire lazily: expiration is checked on read and expired entries
// are evicted at that point. There is no background sweeper; for a
// short-lived CLI process, unbounded growth between reads is acceptable.
package cache

import (
	"context"
	"time"
)

// Cache stores raw response bytes under string keys with a per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return value reports whether a
	// fresh entry was found; expired or missing entries report false.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value, overwriting any existing entry for key and
	// resetting its insertion time. A ttl of 0 means the entry never
	// expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a single entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}
