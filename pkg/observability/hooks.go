// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about scan operations, cache
// operations, and registry API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the core
// library free of observability framework imports and lets different
// backends (OpenTelemetry, Prometheus, DataDog, etc.) plug in.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetScanHooks(&myScanHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Scan Hooks
// =============================================================================

// ScanHooks receives events from scan and search operations.
type ScanHooks interface {
	// Search events
	OnSearchStart(ctx context.Context, query string)
	OnSearchComplete(ctx context.Context, query string, resultCount int, duration time.Duration, err error)

	// Scan events
	OnScanStart(ctx context.Context, pkg string)
	OnScanComplete(ctx context.Context, pkg string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, url string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, url string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, url string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnSearchStart(context.Context, string)                               {}
func (NoopScanHooks) OnSearchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopScanHooks) OnScanStart(context.Context, string)                                 {}
func (NoopScanHooks) OnScanComplete(context.Context, string, time.Duration, error)        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	scanHooks  ScanHooks  = NoopScanHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetScanHooks registers custom scan hooks.
// This should be called once at application startup before any scan operations.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scanHooks = NoopScanHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
