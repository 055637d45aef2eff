// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation of the size engines without
// adding hard dependencies on specific observability backends. Consumers
// register hooks at startup to receive events about propagation, neuron
// selection and plan commits.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetResizeHooks(&myResizeHooks{})
//	    observability.SetApplyHooks(&myApplyHooks{})
//	    // ... run application
//	}
//
// Engines call hooks to emit events:
//
//	observability.Resize().OnResizeStart(len(requests))
//	// ... solve ...
//	observability.Resize().OnResizeComplete(status, touched, duration, err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Resize Hooks
// =============================================================================

// ResizeHooks receives events from the size-change propagation engine.
type ResizeHooks interface {
	// OnResizeStart is called before a strategy chain is run.
	OnResizeStart(requests int)

	// OnResizeComplete is called once the chain produced an outcome.
	// status is the outcome status name, touched the number of vertices
	// that received a pending delta.
	OnResizeComplete(status string, touched int, duration time.Duration, err error)
}

// =============================================================================
// Selection Hooks
// =============================================================================

// SelectionHooks receives events from the neuron selection engine.
type SelectionHooks interface {
	OnSelectStart(vertices int)
	OnSelectComplete(selected int, duration time.Duration, err error)
}

// =============================================================================
// Apply Hooks
// =============================================================================

// ApplyHooks receives events from the commit step.
type ApplyHooks interface {
	// OnApplyStart is called with the number of vertices holding pending state.
	OnApplyStart(pending int)

	// OnApplyVertex is called after a vertex is committed (err == nil) or
	// when its mutation hook failed.
	OnApplyVertex(name string, err error)

	// OnApplyComplete is called once the pass ends.
	OnApplyComplete(committed int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResizeHooks is a no-op implementation of ResizeHooks.
type NoopResizeHooks struct{}

func (NoopResizeHooks) OnResizeStart(int)                                  {}
func (NoopResizeHooks) OnResizeComplete(string, int, time.Duration, error) {}

// NoopSelectionHooks is a no-op implementation of SelectionHooks.
type NoopSelectionHooks struct{}

func (NoopSelectionHooks) OnSelectStart(int)                          {}
func (NoopSelectionHooks) OnSelectComplete(int, time.Duration, error) {}

// NoopApplyHooks is a no-op implementation of ApplyHooks.
type NoopApplyHooks struct{}

func (NoopApplyHooks) OnApplyStart(int)                          {}
func (NoopApplyHooks) OnApplyVertex(string, error)               {}
func (NoopApplyHooks) OnApplyComplete(int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	resizeHooks    ResizeHooks    = NoopResizeHooks{}
	selectionHooks SelectionHooks = NoopSelectionHooks{}
	applyHooks     ApplyHooks     = NoopApplyHooks{}
	hooksMu        sync.RWMutex
)

// SetResizeHooks registers custom propagation hooks.
// This should be called once at application startup.
func SetResizeHooks(h ResizeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resizeHooks = h
	}
}

// SetSelectionHooks registers custom selection hooks.
func SetSelectionHooks(h SelectionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		selectionHooks = h
	}
}

// SetApplyHooks registers custom commit hooks.
func SetApplyHooks(h ApplyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		applyHooks = h
	}
}

// Resize returns the registered propagation hooks.
func Resize() ResizeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resizeHooks
}

// Selection returns the registered selection hooks.
func Selection() SelectionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return selectionHooks
}

// Apply returns the registered commit hooks.
func Apply() ApplyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return applyHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	resizeHooks = NoopResizeHooks{}
	selectionHooks = NoopSelectionHooks{}
	applyHooks = NoopApplyHooks{}
}
