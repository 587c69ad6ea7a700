package observability

import (
	"context"
	"testing"
	"time"
)

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnLoadStart(ctx, "/work")
	Pipeline().OnMergeComplete(ctx, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "graph", 128)
	API().OnResponse(ctx, "POST", "/v1/graph", 200, time.Millisecond)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Errorf("API() = %T", API())
	}
}

func TestSetAndReset(t *testing.T) {
	defer Reset()

	h := &countingCacheHooks{}
	SetCacheHooks(h)
	SetCacheHooks(nil) // ignored

	Cache().OnCacheHit(context.Background(), "graph")
	Cache().OnCacheHit(context.Background(), "artifact")
	if h.hits != 2 {
		t.Errorf("hits = %d, want 2", h.hits)
	}

	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("after Reset, Cache() = %T", Cache())
	}
}
