package observability

import (
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	r := NoopResizeHooks{}
	r.OnResizeStart(2)
	r.OnResizeComplete("changed", 5, time.Millisecond, nil)

	s := NoopSelectionHooks{}
	s.OnSelectStart(4)
	s.OnSelectComplete(4, time.Millisecond, nil)

	a := NoopApplyHooks{}
	a.OnApplyStart(3)
	a.OnApplyVertex("conv1", errors.New("boom"))
	a.OnApplyComplete(2, time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Resize().(NoopResizeHooks); !ok {
		t.Error("Resize() should return NoopResizeHooks by default")
	}
	if _, ok := Selection().(NoopSelectionHooks); !ok {
		t.Error("Selection() should return NoopSelectionHooks by default")
	}
	if _, ok := Apply().(NoopApplyHooks); !ok {
		t.Error("Apply() should return NoopApplyHooks by default")
	}

	customResize := &testResizeHooks{}
	SetResizeHooks(customResize)
	if Resize() != customResize {
		t.Error("SetResizeHooks should set custom hooks")
	}

	customSelection := &testSelectionHooks{}
	SetSelectionHooks(customSelection)
	if Selection() != customSelection {
		t.Error("SetSelectionHooks should set custom hooks")
	}

	customApply := &testApplyHooks{}
	SetApplyHooks(customApply)
	if Apply() != customApply {
		t.Error("SetApplyHooks should set custom hooks")
	}

	Resize().OnResizeStart(1)
	if customResize.starts != 1 {
		t.Errorf("starts = %d, want 1", customResize.starts)
	}

	// Reset and verify
	Reset()
	if _, ok := Resize().(NoopResizeHooks); !ok {
		t.Error("Reset() should restore NoopResizeHooks")
	}
	if _, ok := Apply().(NoopApplyHooks); !ok {
		t.Error("Reset() should restore NoopApplyHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testResizeHooks{}
	SetResizeHooks(custom)

	// Setting nil should be ignored
	SetResizeHooks(nil)

	if Resize() != custom {
		t.Error("SetResizeHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testResizeHooks struct {
	NoopResizeHooks
	starts int
}

func (h *testResizeHooks) OnResizeStart(int) { h.starts++ }

type testSelectionHooks struct{ NoopSelectionHooks }
type testApplyHooks struct{ NoopApplyHooks }
