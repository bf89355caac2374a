package store

import (
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/observability"
)

// DefaultHistoryLimit is the number of undo levels kept by default.
const DefaultHistoryLimit = 50

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithLimit sets the maximum number of past states kept. Values below one
// are ignored.
func WithLimit(n int) HistoryOption {
	return func(h *History) {
		if n > 0 {
			h.limit = n
		}
	}
}

// History wraps a Store with undo and redo.
//
// Every committed change pushes the state it replaced onto the past stack
// and clears the future stack. Changes that leave the layout serializing
// identically are not committed by the store and therefore never reach
// the history. The past stack is bounded; the oldest entry is discarded
// when it overflows.
type History struct {
	*Store
	past   []layout.State
	future []layout.State
	limit  int
}

// NewHistory decorates s. The store must not already be wrapped.
func NewHistory(s *Store, opts ...HistoryOption) *History {
	h := &History{Store: s, limit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(h)
	}
	s.beforeNotify = h.push
	return h
}

func (h *History) push(prev layout.State) {
	h.appendPast(prev)
	h.future = nil
}

func (h *History) appendPast(st layout.State) {
	h.past = append(h.past, st)
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
}

// Undo restores the previous state. It does nothing when there is none.
func (h *History) Undo() {
	if len(h.past) == 0 {
		return
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, h.Store.State())
	h.Store.restore(ActionUndo, prev)
	observability.Editor().OnHistory(ActionUndo, len(h.past), len(h.future))
}

// Redo re-applies the most recently undone state. It does nothing when
// there is none.
func (h *History) Redo() {
	if len(h.future) == 0 {
		return
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.appendPast(h.Store.State())
	h.Store.restore(ActionRedo, next)
	observability.Editor().OnHistory(ActionRedo, len(h.past), len(h.future))
}

// CanUndo reports whether Undo would change anything.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change anything.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth returns the sizes of the past and future stacks.
func (h *History) Depth() (past, future int) {
	return len(h.past), len(h.future)
}

// Clear drops all history without touching the current state.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}

var _ Actions = (*History)(nil)
