// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about editor mutations, layout synchronization and record
// storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Editor hooks are called from the synchronous editor core and therefore
// take no context. Record hooks are called from storage backends that run
// under a request or command context.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetRecordHooks(&myRecordHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Editor().OnCommit("addElement", len(state.Elements))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from the layout store and editor.
type EditorHooks interface {
	// OnCommit records a mutation that changed the layout.
	OnCommit(action string, elements int)

	// OnReject records an interaction that was refused by a placement check.
	OnReject(action, reason string)

	// OnHistory records an undo or redo with the resulting stack depths.
	OnHistory(op string, past, future int)
}

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from the synchronization adapter.
type SyncHooks interface {
	// OnImport records a one-time import of the host value.
	OnImport(elements int, err error)

	// OnExport records a hand-off of the layout to the host sink.
	OnExport(size int, err error)
}

// =============================================================================
// Record Hooks
// =============================================================================

// RecordHooks receives events from layout record stores.
type RecordHooks interface {
	// OnGet records a lookup and whether the layout existed.
	OnGet(ctx context.Context, backend, id string, found bool, duration time.Duration, err error)

	// OnSet records a write.
	OnSet(ctx context.Context, backend, id string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnCommit(string, int)       {}
func (NoopEditorHooks) OnReject(string, string)    {}
func (NoopEditorHooks) OnHistory(string, int, int) {}

// NoopSyncHooks is a no-op implementation of SyncHooks.
type NoopSyncHooks struct{}

func (NoopSyncHooks) OnImport(int, error) {}
func (NoopSyncHooks) OnExport(int, error) {}

// NoopRecordHooks is a no-op implementation of RecordHooks.
type NoopRecordHooks struct{}

func (NoopRecordHooks) OnGet(context.Context, string, string, bool, time.Duration, error) {}
func (NoopRecordHooks) OnSet(context.Context, string, string, int, time.Duration, error)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	syncHooks   SyncHooks   = NoopSyncHooks{}
	recordHooks RecordHooks = NoopRecordHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any editor is created.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetSyncHooks registers custom synchronization hooks.
func SetSyncHooks(h SyncHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		syncHooks = h
	}
}

// SetRecordHooks registers custom record store hooks.
func SetRecordHooks(h RecordHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		recordHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Sync returns the registered synchronization hooks.
func Sync() SyncHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return syncHooks
}

// Records returns the registered record store hooks.
func Records() RecordHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return recordHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	syncHooks = NoopSyncHooks{}
	recordHooks = NoopRecordHooks{}
}
