// Package pkg provides the core libraries for seatmap, a grid layout editor
// for vehicle seating charts.
//
// # Overview
//
// A seating chart is a rows x cols grid holding seats, toilets, driver
// positions and doors. Each element anchors at one cell and may span
// several. The pkg directory is organized into four areas:
//
//  1. [layout] - Domain types and pure grid rules (placement, numbering)
//  2. [store], [editor] - The editing core (state, undo, interaction)
//  3. [io], [sync], [records] - Persistence (JSON codec, host binding, backends)
//  4. [render], [availability] - Consumers of a finished layout
//
// # Architecture
//
// The typical data flow through an editing session:
//
//	stored JSON value
//	         ↓
//	    [sync] adapter (import once, write back after first touch)
//	         ↓
//	    [store] (single source of truth, undo/redo via History)
//	         ↑ actions          ↓ changes
//	    [editor] (tools, selection, gestures, keyboard)
//	         ↓
//	    [render] grid / SVG / PDF / PNG
//
// # Quick Start
//
// Edit a layout held in a record store:
//
//	import (
//	    "github.com/matzehuels/seatmap/pkg/editor"
//	    "github.com/matzehuels/seatmap/pkg/layout"
//	    "github.com/matzehuels/seatmap/pkg/store"
//	    "github.com/matzehuels/seatmap/pkg/sync"
//	)
//
//	doc := store.NewHistory(store.New(layout.Dimensions{Rows: 12, Cols: 4}))
//	adapter := sync.New(doc, func(v []byte) error { return records.Set(ctx, id, v) })
//	ed := editor.New(doc, editor.OnTouch(adapter.Touch))
//	adapter.Import(value)
//
//	ed.ClickCell(2, 1, editor.Mods{}) // place a seat
//	ed.Undo()
//
// # Main Packages
//
// [layout] - Element, dimension and state types, the cell-occupancy and
// placement rules, and seat numbering.
//
// [store] - The layout store. Every mutation is an action; subscribers see
// each change with the previous and next state. [store.History] adds
// bounded undo and redo.
//
// [editor] - Interaction state on top of the store: the active tool, the
// selection, drag and drop, inline seat-number editing, pointer gesture
// classification and keyboard shortcuts.
//
// [io] - Lenient and strict decoding of the persisted JSON array, and the
// compact encoding written back to hosts.
//
// [sync] - Binds a store to a host value. Imports happen once; exports are
// suppressed until the user first touches the layout.
//
// [records] - Named layout storage with file, memory, Redis and MongoDB
// backends.
//
// [render] - The cell grid every front end draws from, SVG output, and
// PDF/PNG conversion with an on-disk [cache] of converted artifacts.
//
// [availability] - Seat status (available, booked, reserved, selected,
// disabled) for a layout and a set of bookings.
//
// [errors] and [observability] - Structured error codes and the hook
// registry for logging and metrics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/editor/...             # Specific package
//
// Record backends run without servers: Redis through redismock and MongoDB
// through the driver's mock deployment.
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/layout
// [store]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/store
// [store.History]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/store#History
// [editor]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/editor
// [io]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/io
// [sync]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/sync
// [records]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/records
// [render]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/cache
// [availability]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/availability
// [errors]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/seatmap/pkg/observability
package pkg
