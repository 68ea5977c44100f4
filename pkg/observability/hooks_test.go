package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, 15)
	l.OnLayoutComplete(ctx, 15, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)

	s := NoopStoreHooks{}
	s.OnStoreRead(ctx, "get", time.Millisecond, nil)
	s.OnStoreWrite(ctx, "put", time.Millisecond, nil)
}

type testLayoutHooks struct {
	starts, completes int
}

func (h *testLayoutHooks) OnLayoutStart(context.Context, int) { h.starts++ }
func (h *testLayoutHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.completes++
}

type testCacheHooks struct{ hits int }

func (h *testCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (h *testCacheHooks) OnCacheSet(context.Context, string, int) {}

type testStoreHooks struct{ reads int }

func (h *testStoreHooks) OnStoreRead(context.Context, string, time.Duration, error)  { h.reads++ }
func (h *testStoreHooks) OnStoreWrite(context.Context, string, time.Duration, error) {}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	// Nil registrations are ignored.
	SetLayoutHooks(nil)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks(nil) should keep existing hooks")
	}

	Layout().OnLayoutStart(context.Background(), 3)
	if customLayout.starts != 1 {
		t.Errorf("starts = %d, want 1", customLayout.starts)
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset should restore noop hooks")
	}
}
