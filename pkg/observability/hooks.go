// Package observability provides hooks for metrics, tracing and logging.
//
// Consumers register hooks at startup to receive events about pipeline
// stages, cache operations and API requests. Libraries emit events through
// the registry and never depend on a concrete backend.
//
// Register hooks in main:
//
//	observability.SetPipelineHooks(&myPipelineHooks{})
//
// Libraries emit events:
//
//	observability.Pipeline().OnBuildStart(ctx, len(projects))
//	// ... build the graph ...
//	observability.Pipeline().OnBuildComplete(ctx, g.Len(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the resolution pipeline.
type PipelineHooks interface {
	// Discovery, parsing and conversion of manifests.
	OnLoadStart(ctx context.Context, dir string)
	OnLoadComplete(ctx context.Context, dir string, manifests int, duration time.Duration, err error)

	// Graph construction and validation.
	OnBuildStart(ctx context.Context, projects int)
	OnBuildComplete(ctx context.Context, nodes int, duration time.Duration, err error)

	// Configuration merge.
	OnMergeStart(ctx context.Context, nodes int)
	OnMergeComplete(ctx context.Context, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// APIHooks receives events from the HTTP API server.
type APIHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, time.Duration, error)        {}
func (NoopPipelineHooks) OnMergeStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnMergeComplete(context.Context, time.Duration, error)             {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopAPIHooks is a no-op implementation of APIHooks.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string)                      {}
func (NoopAPIHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry holds the active hooks. Instrumentation is installed once at
// startup, so a single RWMutex is enough.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	api      APIHooks
}

var hooks = &registry{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	api:      NoopAPIHooks{},
}

func set[T any](slot *T, h T) {
	if any(h) == nil {
		return
	}
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	*slot = h
}

func get[T any](slot *T) T {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return *slot
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { set(&hooks.pipeline, h) }

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { set(&hooks.cache, h) }

// SetAPIHooks registers API hooks. Nil is ignored.
func SetAPIHooks(h APIHooks) { set(&hooks.api, h) }

func Pipeline() PipelineHooks { return get(&hooks.pipeline) }
func Cache() CacheHooks       { return get(&hooks.cache) }
func API() APIHooks           { return get(&hooks.api) }

// Reset restores the no-op defaults.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.api = NoopAPIHooks{}
}
