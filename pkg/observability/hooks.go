// Package observability lets applications observe graph construction,
// caching and API traffic without the library depending on a metrics
// backend.
//
// Each event category has a hooks interface with a no-op default. The
// application registers its own implementation once at startup:
//
//	func main() {
//	    observability.SetBuildHooks(&promBuildHooks{})
//	    observability.SetCacheHooks(&promCacheHooks{})
//	}
//
// Library code emits events through the accessors:
//
//	observability.Build().OnBuildStart(ctx, name, length)
//	g, err := bulge.FromDotBracket(db, opts)
//	observability.Build().OnBuildComplete(ctx, name, g.NumElements(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildHooks receives events from the build pipeline.
type BuildHooks interface {
	OnBuildStart(ctx context.Context, name string, length int)
	OnBuildComplete(ctx context.Context, name string, elements int, duration time.Duration, err error)

	OnAnalyzeComplete(ctx context.Context, name string, duration time.Duration)

	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is "graph" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// RequestHooks receives events for incoming API requests.
type RequestHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopBuildHooks ignores every event.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(context.Context, string, int) {}
func (NoopBuildHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopBuildHooks) OnAnalyzeComplete(context.Context, string, time.Duration) {}
func (NoopBuildHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopRequestHooks ignores every event.
type NoopRequestHooks struct{}

func (NoopRequestHooks) OnRequest(context.Context, string, string) {}
func (NoopRequestHooks) OnResponse(context.Context, string, string, int, time.Duration) {
}

var (
	buildHooks   BuildHooks   = NoopBuildHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	requestHooks RequestHooks = NoopRequestHooks{}
	hooksMu      sync.RWMutex
)

// SetBuildHooks registers build hooks. A nil h is ignored.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetRequestHooks registers request hooks. A nil h is ignored.
func SetRequestHooks(h RequestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		requestHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Request returns the registered request hooks.
func Request() RequestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return requestHooks
}

// Reset restores the no-op defaults. Tests use it to isolate registrations.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
	cacheHooks = NoopCacheHooks{}
	requestHooks = NoopRequestHooks{}
}
