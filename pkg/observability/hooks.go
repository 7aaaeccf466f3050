// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about layout runs, the placement search, cache operations
// and served HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// A layout engine may also be handed its own hooks at construction, which
// take precedence over the global registry for that engine.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    reg := metrics.NewRegistry()
//	    observability.SetLayoutHooks(reg)
//	    observability.SetCacheHooks(reg)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, runID, nodes, edges)
//	// ... place nodes ...
//	observability.Layout().OnLayoutComplete(ctx, runID, strategy, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from a layout run.
type LayoutHooks interface {
	// Run events
	OnLayoutStart(ctx context.Context, runID string, nodeCount, edgeCount int)
	OnLayoutComplete(ctx context.Context, runID, strategy string, duration time.Duration, err error)

	// Search events. OnCandidateRejected fires on the hot path; keep it cheap.
	OnCandidateRejected(ctx context.Context, runID, nodeID, rule string)
	OnBacktrack(ctx context.Context, runID, nodeID string, depth int)
	OnFallback(ctx context.Context, runID, reason string)

	// Post-pass events
	OnAlign(ctx context.Context, runID, nodeID string, applied bool)
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

// HTTPHooks receives events from the HTTP service.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a handler failure.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int, int) {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopLayoutHooks) OnCandidateRejected(context.Context, string, string, string) {}
func (NoopLayoutHooks) OnBacktrack(context.Context, string, string, int)            {}
func (NoopLayoutHooks) OnFallback(context.Context, string, string)                  {}
func (NoopLayoutHooks) OnAlign(context.Context, string, string, bool)               {}

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
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
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
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
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
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}

// =============================================================================
// Fan-out
// =============================================================================

// MultiLayoutHooks forwards every event to each of its members in order.
type MultiLayoutHooks []LayoutHooks

func (m MultiLayoutHooks) OnLayoutStart(ctx context.Context, runID string, nodes, edges int) {
	for _, h := range m {
		h.OnLayoutStart(ctx, runID, nodes, edges)
	}
}

func (m MultiLayoutHooks) OnLayoutComplete(ctx context.Context, runID, strategy string, d time.Duration, err error) {
	for _, h := range m {
		h.OnLayoutComplete(ctx, runID, strategy, d, err)
	}
}

func (m MultiLayoutHooks) OnCandidateRejected(ctx context.Context, runID, nodeID, rule string) {
	for _, h := range m {
		h.OnCandidateRejected(ctx, runID, nodeID, rule)
	}
}

func (m MultiLayoutHooks) OnBacktrack(ctx context.Context, runID, nodeID string, depth int) {
	for _, h := range m {
		h.OnBacktrack(ctx, runID, nodeID, depth)
	}
}

func (m MultiLayoutHooks) OnFallback(ctx context.Context, runID, reason string) {
	for _, h := range m {
		h.OnFallback(ctx, runID, reason)
	}
}

func (m MultiLayoutHooks) OnAlign(ctx context.Context, runID, nodeID string, applied bool) {
	for _, h := range m {
		h.OnAlign(ctx, runID, nodeID, applied)
	}
}
