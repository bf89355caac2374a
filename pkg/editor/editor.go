// Package editor implements the interactive layer of the seat map editor:
// selection, inline seat number editing, click and drag classification and
// keyboard shortcuts.
//
// An [Editor] is the composition root of one editing session. It drives a
// [Document] (normally a [store.History]) and never mutates layout state
// directly. Every placement and move is gated by the checks in package
// layout before it reaches the document; a rejected action simply does not
// commit. No method returns an error or panics on bad input: invalid
// pointer or drop coordinates and unknown ids degrade to a no-op with a
// debug log line.
//
// Every user-originated method first calls the touch callback registered
// with [OnTouch], which the synchronization adapter uses to switch from
// import to export.
//
// An Editor is not safe for concurrent use.
package editor

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/observability"
	"github.com/matzehuels/seatmap/pkg/store"
)

// Document is the layout state an Editor drives.
type Document interface {
	store.Actions
	Undo()
	Redo()
	CanUndo() bool
	CanRedo() bool
}

var _ Document = (*store.History)(nil)

// Mods is a set of modifier keys held during a click.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModMeta
	ModAlt
)

// mode maps modifiers to a selection mode: shift selects a range, ctrl or
// meta toggles, alt adds, anything else selects singly.
func (m Mods) mode() Mode {
	switch {
	case m&ModShift != 0:
		return ModeRange
	case m&(ModCtrl|ModMeta) != 0:
		return ModeToggle
	case m&ModAlt != 0:
		return ModeAdd
	default:
		return ModeSingle
	}
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithGesture sets the click/drag thresholds.
func WithGesture(cfg GestureConfig) Option {
	return func(e *Editor) { e.gesture = NewGesture(cfg) }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(km KeyMap) Option {
	return func(e *Editor) { e.keys = km }
}

// WithAutoNumber controls whether newly placed seats get the next free
// seat number. It is on by default.
func WithAutoNumber(on bool) Option {
	return func(e *Editor) { e.autoNumber = on }
}

// WithTool sets the initial placement tool.
func WithTool(t layout.ElementType, size layout.Size) Option {
	return func(e *Editor) { e.SetTool(t, size) }
}

// OnTouch registers fn to run at the start of every user-originated action.
func OnTouch(fn func()) Option {
	return func(e *Editor) { e.onTouch = fn }
}

// Editor couples a Document with selection, editing and gesture state.
type Editor struct {
	doc     Document
	sel     *Selection
	edit    editState
	gesture *Gesture
	keys    KeyMap
	dragID  string

	tool       layout.ElementType
	toolSize   layout.Size
	autoNumber bool

	logger      *log.Logger
	onTouch     func()
	unsubscribe func()
}

// New creates an editor over doc. Call Close to detach it.
func New(doc Document, opts ...Option) *Editor {
	e := &Editor{
		doc:        doc,
		sel:        NewSelection(),
		gesture:    NewGesture(DefaultGestureConfig),
		keys:       DefaultKeyMap(),
		tool:       layout.TypeSeat,
		autoNumber: true,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.unsubscribe = doc.Subscribe(e.reconcile)
	return e
}

// Close detaches the editor from its document.
func (e *Editor) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// reconcile keeps selection and edit state pointing at live elements after
// removals, undo and redo.
func (e *Editor) reconcile(c store.Change) {
	e.sel.Prune(c.Next)
	if e.edit.id != "" && c.Next.Index(e.edit.id) < 0 {
		e.edit = editState{}
	}
	if e.dragID != "" && c.Next.Index(e.dragID) < 0 {
		e.dragID = ""
	}
}

func (e *Editor) touch() {
	if e.onTouch != nil {
		e.onTouch()
	}
}

// =============================================================================
// Accessors
// =============================================================================

// State returns the current layout.
func (e *Editor) State() layout.State { return e.doc.State() }

// Selected returns a copy of the selected ids.
func (e *Editor) Selected() layout.IDSet { return e.sel.IDs() }

// IsSelected reports whether id is selected.
func (e *Editor) IsSelected(id string) bool { return e.sel.Has(id) }

// LastSelected returns the range selection anchor.
func (e *Editor) LastSelected() string { return e.sel.Last() }

// Keys returns the active key bindings.
func (e *Editor) Keys() KeyMap { return e.keys }

// Tool returns the placement tool type and size.
func (e *Editor) Tool() (layout.ElementType, layout.Size) { return e.tool, e.toolSize }

// CanUndo reports whether there is anything to undo.
func (e *Editor) CanUndo() bool { return e.doc.CanUndo() }

// CanRedo reports whether there is anything to redo.
func (e *Editor) CanRedo() bool { return e.doc.CanRedo() }

// SetTool selects the element type and size used by clicks on empty
// cells. Unknown types and spans beyond layout.MaxToolSpan are refused.
func (e *Editor) SetTool(t layout.ElementType, size layout.Size) bool {
	rs, cs := size.Spans()
	if !t.Valid() || rs > layout.MaxToolSpan || cs > layout.MaxToolSpan {
		return false
	}
	e.tool = t
	e.toolSize = layout.Normalize(layout.Element{Size: size}).Size
	return true
}

// SetAutoNumber toggles automatic seat numbering.
func (e *Editor) SetAutoNumber(on bool) { e.autoNumber = on }

// =============================================================================
// Selection
// =============================================================================

// Select applies mode to id. Unknown ids are ignored.
func (e *Editor) Select(id string, mode Mode) {
	e.touch()
	st := e.doc.State()
	if st.Index(id) < 0 {
		return
	}
	e.sel.Select(st, id, mode)
}

// SelectAll selects every element.
func (e *Editor) SelectAll() {
	e.touch()
	e.sel.SelectAll(e.doc.State())
}

// DeselectAll clears the selection.
func (e *Editor) DeselectAll() {
	e.touch()
	e.sel.DeselectAll()
}

// =============================================================================
// Placement
// =============================================================================

// ClickCell handles a click on the grid cell (row, col).
//
// A click on an element selects it according to mods. A click on an empty
// cell without modifiers clears the selection and places the current tool
// there, selecting the new element when the placement is accepted. While an
// element is being edited, clicks on it are ignored and clicks anywhere
// else commit the edit first.
func (e *Editor) ClickCell(row, col int, mods Mods) {
	e.touch()
	st := e.doc.State()
	el, found := layout.ElementAt(st, row, col, nil)

	if e.edit.id != "" {
		if found && el.ID == e.edit.id {
			return
		}
		e.commitEdit()
		st = e.doc.State()
	}

	if found {
		e.sel.Select(st, el.ID, mods.mode())
		return
	}
	if mods != 0 {
		return
	}
	e.sel.DeselectAll()
	if id, ok := e.place(st, e.tool, row, col, e.toolSize); ok {
		e.sel.Select(e.doc.State(), id, ModeSingle)
	}
}

// Place adds an element of type t and size at (row, col) if the
// rectangle is inside the grid and free. It returns the new element id.
func (e *Editor) Place(t layout.ElementType, row, col int, size layout.Size) (string, bool) {
	e.touch()
	if !t.Valid() {
		e.logger.Debug("placement ignored", "reason", "unknown type", "type", t)
		return "", false
	}
	return e.place(e.doc.State(), t, row, col, size)
}

func (e *Editor) place(st layout.State, t layout.ElementType, row, col int, size layout.Size) (string, bool) {
	rs, cs := size.Spans()
	if !layout.CanPlace(st, row, col, rs, cs, nil) {
		observability.Editor().OnReject(store.ActionAddElement, "blocked")
		e.logger.Debug("placement rejected", "type", t, "row", row, "col", col, "rowSpan", rs, "colSpan", cs)
		return "", false
	}
	el := layout.NewElement(t, row, col, size)
	if el.IsSeat() && e.autoNumber {
		el.SeatNumber = layout.NextSeatNumber(st.Elements)
	}
	e.doc.AddElement(el)
	return el.ID, true
}

// =============================================================================
// Moving
// =============================================================================

// StartDrag marks id as the dragged element. An unselected element becomes
// the sole selection. Unknown ids are ignored.
func (e *Editor) StartDrag(id string) bool {
	e.touch()
	st := e.doc.State()
	if st.Index(id) < 0 {
		e.logger.Debug("drag ignored", "reason", "unknown element", "id", id)
		return false
	}
	if e.edit.id != "" && e.edit.id != id {
		e.commitEdit()
		st = e.doc.State()
	}
	if !e.sel.Has(id) {
		e.sel.Select(st, id, ModeSingle)
	}
	e.dragID = id
	return true
}

// Drop ends a drag over (row, col). The whole selection moves by the
// offset from the dragged element's anchor to the drop cell, provided
// every moved element lands inside the grid on free cells. It reports
// whether the layout changed.
func (e *Editor) Drop(row, col int) bool {
	e.touch()
	id := e.dragID
	e.dragID = ""
	if id == "" {
		e.logger.Debug("drop ignored", "reason", "no drag in progress")
		return false
	}

	st := e.doc.State()
	el, ok := st.Find(id)
	if !ok {
		e.logger.Debug("drop ignored", "reason", "unknown element", "id", id)
		return false
	}
	if !(layout.Rect{Top: 1, Left: 1, Bottom: st.Dimensions.Rows, Right: st.Dimensions.Cols}).Contains(row, col) {
		e.logger.Debug("drop ignored", "reason", "target outside grid", "row", row, "col", col)
		return false
	}
	dRow, dCol := row-el.Position.Row, col-el.Position.Col
	if dRow == 0 && dCol == 0 {
		e.logger.Debug("drop ignored", "reason", "zero delta", "id", id)
		return false
	}
	return e.moveSelection(st, dRow, dCol)
}

// CancelDrag abandons a drag without moving anything.
func (e *Editor) CancelDrag() {
	e.dragID = ""
	e.gesture.Reset()
}

// Dragging returns the id of the element being dragged, or "".
func (e *Editor) Dragging() string { return e.dragID }

// Nudge moves the selection by (dRow, dCol). It does nothing while an
// element is being edited, and drops the move entirely when any element
// would leave the grid or collide.
func (e *Editor) Nudge(dRow, dCol int) bool {
	e.touch()
	if e.sel.Len() == 0 || e.edit.id != "" {
		return false
	}
	return e.moveSelection(e.doc.State(), dRow, dCol)
}

func (e *Editor) moveSelection(st layout.State, dRow, dCol int) bool {
	ids := e.sel.IDs()
	if !layout.CanMove(st, ids, dRow, dCol) {
		observability.Editor().OnReject(store.ActionMoveElements, "blocked")
		e.logger.Debug("move rejected", "elements", ids.Len(), "dRow", dRow, "dCol", dCol)
		return false
	}
	e.doc.MoveElements(ids, dRow, dCol)
	return true
}

// =============================================================================
// Pointer gestures
// =============================================================================

// PointerDown records a press on cell (row, col).
func (e *Editor) PointerDown(row, col int, at time.Time) {
	e.touch()
	e.gesture.Down(Point{Row: row, Col: col}, at)
}

// PointerMove records motion while pressed. Once the gesture qualifies as
// a drag, the element under the press origin starts dragging.
func (e *Editor) PointerMove(row, col int, at time.Time) {
	if e.gesture.Move(Point{Row: row, Col: col}, at) != GestureDragStart {
		return
	}
	o := e.gesture.Origin()
	el, ok := layout.ElementAt(e.doc.State(), o.Row, o.Col, nil)
	if !ok {
		e.logger.Debug("drag ignored", "reason", "empty origin", "row", o.Row, "col", o.Col)
		return
	}
	e.StartDrag(el.ID)
}

// PointerUp records a release on cell (row, col) and performs the click,
// double click or drop it completes. Clicks land on the cell where the
// press started; drops land on the release cell.
func (e *Editor) PointerUp(row, col int, mods Mods, at time.Time) GestureEvent {
	e.touch()
	ev := e.gesture.Up(Point{Row: row, Col: col}, at)
	o := e.gesture.Origin()
	switch ev {
	case GestureDrop:
		e.Drop(row, col)
	case GestureClick:
		e.ClickCell(o.Row, o.Col, mods)
	case GestureDoubleClick:
		el, ok := layout.ElementAt(e.doc.State(), o.Row, o.Col, nil)
		if ok && el.IsSeat() {
			e.sel.Select(e.doc.State(), el.ID, ModeSingle)
			e.BeginEdit(el.ID)
		} else {
			e.ClickCell(o.Row, o.Col, mods)
		}
	}
	return ev
}

// =============================================================================
// Commands
// =============================================================================

// DeleteSelection removes the selected elements. It does nothing when the
// selection is empty or an element is being edited.
func (e *Editor) DeleteSelection() bool {
	e.touch()
	if e.sel.Len() == 0 || e.edit.id != "" {
		return false
	}
	e.doc.RemoveElements(e.sel.IDs())
	e.sel.DeselectAll()
	return true
}

// ToggleDisabled flips the disabled flag on the selected seats.
func (e *Editor) ToggleDisabled() {
	e.touch()
	if e.sel.Len() == 0 {
		return
	}
	e.doc.ToggleDisabled(e.sel.IDs())
}

// Renumber assigns 1..n to all seats in reading order as one change.
func (e *Editor) Renumber() {
	e.touch()
	e.doc.UpdateElements(layout.RenumberPatches(e.doc.State()))
}

// SetDimensions resizes the grid. Elements outside the new size are kept.
func (e *Editor) SetDimensions(rows, cols int) {
	e.touch()
	e.doc.SetDimensions(rows, cols)
}

// ClearAll removes every element.
func (e *Editor) ClearAll() {
	e.touch()
	e.edit = editState{}
	e.doc.ClearAll()
	e.sel.DeselectAll()
}

// Undo reverts the last change.
func (e *Editor) Undo() {
	e.touch()
	e.doc.Undo()
}

// Redo re-applies the last undone change.
func (e *Editor) Redo() {
	e.touch()
	e.doc.Redo()
}
