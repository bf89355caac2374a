// Package store owns the mutable layout state of an editor session.
//
// A [Store] holds one [layout.State] and exposes it only through named
// actions. Every action is applied atomically: readers never see a
// half-applied change, and subscribers are notified synchronously after
// the new state is in place. An action whose result serializes identically
// to the current state is dropped without notification.
//
// [History] decorates a Store with bounded undo/redo. Both types implement
// [Actions], so the editor can be composed against either.
//
// The store performs no placement validation. Callers gate AddElement and
// MoveElements with the checks in package layout; the store only clamps
// moved anchors to the grid so a tolerated squash never produces negative
// coordinates.
//
// A Store is not safe for concurrent use. The editor drives it from a
// single event loop.
package store

import (
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/observability"
)

// Action names reported to listeners and hooks.
const (
	ActionSetDimensions  = "setDimensions"
	ActionAddElement     = "addElement"
	ActionRemoveElements = "removeElements"
	ActionUpdateElement  = "updateElement"
	ActionUpdateElements = "updateElements"
	ActionMoveElements   = "moveElements"
	ActionToggleDisabled = "toggleDisabled"
	ActionClearAll       = "clearAll"
	ActionLoadLayout     = "loadLayout"
	ActionUndo           = "undo"
	ActionRedo           = "redo"
)

// Change describes one committed transition.
type Change struct {
	Action string
	Prev   layout.State
	Next   layout.State
}

// Listener is called after every committed change.
type Listener func(Change)

// Actions is the mutation and observation API shared by Store and History.
type Actions interface {
	State() layout.State
	Subscribe(fn Listener) (cancel func())

	SetDimensions(rows, cols int)
	AddElement(e layout.Element)
	RemoveElements(ids layout.IDSet)
	UpdateElement(id string, p layout.Patch)
	UpdateElements(patches map[string]layout.Patch)
	MoveElements(ids layout.IDSet, dRow, dCol int)
	ToggleDisabled(ids layout.IDSet)
	ClearAll()
	LoadLayout(elements []layout.Element, dims layout.Dimensions)
}

type subscriber struct {
	id int
	fn Listener
}

// Store is the single owner of a layout state.
type Store struct {
	state     layout.State
	listeners []subscriber
	nextSubID int

	// beforeNotify runs after the state is replaced but before listeners
	// see it. History uses it to push the previous snapshot.
	beforeNotify func(prev layout.State)
}

// New creates a store with an empty layout of the given size.
func New(dims layout.Dimensions) *Store {
	return &Store{state: layout.State{Dimensions: clampDims(dims), Elements: []layout.Element{}}}
}

// State returns a copy of the current layout.
func (s *Store) State() layout.State {
	return s.state.Clone()
}

// Subscribe registers fn for change notifications. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn Listener) func() {
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// commit installs next when it differs from the current state. record
// controls whether beforeNotify runs, which restores from history skip.
func (s *Store) commit(action string, next layout.State, record bool) bool {
	if next.Elements == nil {
		next.Elements = []layout.Element{}
	}
	if next.Equal(s.state) {
		return false
	}
	prev := s.state
	s.state = next

	if record && s.beforeNotify != nil {
		s.beforeNotify(prev.Clone())
	}
	observability.Editor().OnCommit(action, len(next.Elements))

	// Listeners may unsubscribe while being notified.
	subs := append([]subscriber(nil), s.listeners...)
	for _, sub := range subs {
		sub.fn(Change{Action: action, Prev: prev.Clone(), Next: next.Clone()})
	}
	return true
}

// SetDimensions resizes the grid. Both values are clamped to at least one.
// Elements that fall outside the new grid are kept as they are.
func (s *Store) SetDimensions(rows, cols int) {
	next := s.state.Clone()
	next.Dimensions = clampDims(layout.Dimensions{Rows: rows, Cols: cols})
	s.commit(ActionSetDimensions, next, true)
}

// AddElement appends e. An element whose id already exists is ignored.
func (s *Store) AddElement(e layout.Element) {
	if e.ID == "" || s.state.Index(e.ID) >= 0 {
		return
	}
	next := s.state.Clone()
	next.Elements = append(next.Elements, layout.Normalize(e))
	s.commit(ActionAddElement, next, true)
}

// RemoveElements drops every element whose id is in ids.
func (s *Store) RemoveElements(ids layout.IDSet) {
	if ids.Len() == 0 {
		return
	}
	next := s.state.Clone()
	kept := next.Elements[:0]
	for _, e := range next.Elements {
		if !ids.Has(e.ID) {
			kept = append(kept, e)
		}
	}
	next.Elements = kept
	s.commit(ActionRemoveElements, next, true)
}

// UpdateElement merges p into the element with the given id.
func (s *Store) UpdateElement(id string, p layout.Patch) {
	s.updateElements(ActionUpdateElement, map[string]layout.Patch{id: p})
}

// UpdateElements applies several patches as one change.
func (s *Store) UpdateElements(patches map[string]layout.Patch) {
	s.updateElements(ActionUpdateElements, patches)
}

func (s *Store) updateElements(action string, patches map[string]layout.Patch) {
	if len(patches) == 0 {
		return
	}
	next := s.state.Clone()
	for i, e := range next.Elements {
		if p, ok := patches[e.ID]; ok {
			next.Elements[i] = layout.ApplyPatch(e, p)
		}
	}
	s.commit(action, next, true)
}

// MoveElements shifts every element in ids by (dRow, dCol). Each axis of
// the resulting anchor is clamped to the grid independently.
func (s *Store) MoveElements(ids layout.IDSet, dRow, dCol int) {
	if ids.Len() == 0 {
		return
	}
	next := s.state.Clone()
	for i, e := range next.Elements {
		if !ids.Has(e.ID) {
			continue
		}
		target := layout.Position{Row: e.Position.Row + dRow, Col: e.Position.Col + dCol}
		next.Elements[i].Position = layout.ClampPosition(target, next.Dimensions)
	}
	s.commit(ActionMoveElements, next, true)
}

// ToggleDisabled flips the disabled flag of every seat in ids. Other
// element types are left alone.
func (s *Store) ToggleDisabled(ids layout.IDSet) {
	next := s.state.Clone()
	for i, e := range next.Elements {
		if ids.Has(e.ID) && e.IsSeat() {
			next.Elements[i].Disabled = !e.Disabled
		}
	}
	s.commit(ActionToggleDisabled, next, true)
}

// ClearAll removes every element and keeps the grid size.
func (s *Store) ClearAll() {
	s.commit(ActionClearAll, layout.State{Dimensions: s.state.Dimensions}, true)
}

// LoadLayout replaces the whole state.
func (s *Store) LoadLayout(elements []layout.Element, dims layout.Dimensions) {
	next := layout.State{Dimensions: clampDims(dims), Elements: make([]layout.Element, len(elements))}
	for i, e := range elements {
		next.Elements[i] = layout.Normalize(e)
	}
	s.commit(ActionLoadLayout, next, true)
}

// restore installs a snapshot without recording it.
func (s *Store) restore(action string, st layout.State) {
	s.commit(action, st, false)
}

func clampDims(d layout.Dimensions) layout.Dimensions {
	return layout.Dimensions{Rows: max(d.Rows, 1), Cols: max(d.Cols, 1)}
}

var _ Actions = (*Store)(nil)
