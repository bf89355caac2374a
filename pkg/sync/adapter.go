// Package sync connects an editing session to an externally owned layout
// value.
//
// The protocol has two phases separated by an explicit touched flag:
//
//  1. Before the user interacts, [Adapter.Import] may load the host value
//     once. Empty values and empty arrays are skipped; malformed values
//     fall back to an empty layout of the minimum import size.
//  2. After [Adapter.Touch], every committed change is encoded and handed
//     to the host sink. The adapter never imports again, so external
//     changes made while the session is open are overwritten by the next
//     export.
//
// Sink failures are logged and not retried; the host owns persistence.
package sync

import (
	"io"

	"github.com/charmbracelet/log"

	seatio "github.com/matzehuels/seatmap/pkg/io"
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/observability"
	"github.com/matzehuels/seatmap/pkg/store"
)

// Sink receives the encoded layout after every change.
type Sink func(value []byte) error

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger for import and export diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMinDimensions sets the smallest grid an import produces.
func WithMinDimensions(d layout.Dimensions) Option {
	return func(a *Adapter) { a.minDims = d }
}

// Adapter mediates between a store and the host value.
type Adapter struct {
	doc     store.Actions
	sink    Sink
	logger  *log.Logger
	minDims layout.Dimensions

	touched     bool
	imported    bool
	unsubscribe func()
}

// New attaches an adapter to doc. A nil sink discards exports.
func New(doc store.Actions, sink Sink, opts ...Option) *Adapter {
	a := &Adapter{
		doc:     doc,
		sink:    sink,
		logger:  log.New(io.Discard),
		minDims: layout.MinImportDimensions,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.unsubscribe = doc.Subscribe(a.export)
	return a
}

// Close detaches the adapter from its store.
func (a *Adapter) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Touched reports whether the user has interacted with the session.
func (a *Adapter) Touched() bool { return a.touched }

// Imported reports whether a host value has been loaded.
func (a *Adapter) Imported() bool { return a.imported }

// Touch records the first user interaction and switches to export mode.
func (a *Adapter) Touch() {
	if !a.touched {
		a.logger.Debug("session touched, exporting changes")
	}
	a.touched = true
}

// Import loads value into the store if this is the first non-empty value
// and the session is untouched. A value holding no elements counts as
// empty. It reports whether the store was loaded.
func (a *Adapter) Import(value []byte) bool {
	if a.imported || a.touched || seatio.IsEmpty(value) {
		return false
	}

	elements, err := seatio.Decode(value)
	if err != nil {
		a.imported = true
		a.logger.Warn("malformed layout, starting empty", "err", err)
		observability.Sync().OnImport(0, err)
		a.doc.LoadLayout(nil, a.minDims)
		return true
	}
	if len(elements) == 0 {
		return false
	}
	a.imported = true

	dims := layout.Extent(elements, a.minDims)
	a.logger.Debug("layout imported", "elements", len(elements), "rows", dims.Rows, "cols", dims.Cols)
	observability.Sync().OnImport(len(elements), nil)
	a.doc.LoadLayout(elements, dims)
	return true
}

func (a *Adapter) export(c store.Change) {
	if !a.touched || a.sink == nil {
		return
	}
	data, err := seatio.Encode(c.Next.Elements)
	if err != nil {
		a.logger.Error("encode layout", "err", err)
		observability.Sync().OnExport(0, err)
		return
	}
	if err := a.sink(data); err != nil {
		a.logger.Error("export layout", "action", c.Action, "err", err)
		observability.Sync().OnExport(len(data), err)
		return
	}
	observability.Sync().OnExport(len(data), nil)
}
