package observability

import (
	"context"
	"testing"
	"time"
)

type countingCacheHooks struct {
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()

	// None of these should panic.
	ctx := context.Background()
	Resolve().OnRequirementAdded(ctx, "simple")
	Resolve().OnRequirementRejected(ctx, "simple", `python_version < "3"`)
	Resolve().OnResolveComplete(ctx, 1, time.Second, nil)
	Cache().OnCacheHit(ctx, "pypi")
	HTTP().OnRequest(ctx, "GET", "https://pypi.org/pypi/simple/json")
}

func TestSetCacheHooks(t *testing.T) {
	t.Cleanup(Reset)

	hooks := &countingCacheHooks{}
	SetCacheHooks(hooks)

	ctx := context.Background()
	Cache().OnCacheHit(ctx, "pypi")
	Cache().OnCacheMiss(ctx, "pypi")
	Cache().OnCacheSet(ctx, "pypi", 128)
	Cache().OnCacheHit(ctx, "pypi")

	if hooks.hits != 2 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", hooks.hits, hooks.misses, hooks.sets)
	}
}

func TestSetHooksNilIgnored(t *testing.T) {
	t.Cleanup(Reset)

	SetCacheHooks(nil)
	if Cache() == nil {
		t.Fatal("nil registration should keep the previous hooks")
	}
}

func TestReset(t *testing.T) {
	SetCacheHooks(&countingCacheHooks{})
	Reset()

	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore no-op cache hooks")
	}
}
