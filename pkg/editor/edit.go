package editor

import (
	"strings"

	"github.com/matzehuels/seatmap/pkg/layout"
)

// editState is the inline seat number editor. At most one element is in
// edit mode at a time.
type editState struct {
	id    string
	draft string
}

// EditingID returns the id of the element being edited, or "".
func (e *Editor) EditingID() string { return e.edit.id }

// Draft returns the uncommitted seat number text.
func (e *Editor) Draft() string { return e.edit.draft }

// BeginEdit opens the seat number editor for id, seeded with its current
// number. Only seats can be edited. An edit already open on another
// element is committed first. It reports whether an edit is now open
// on id.
func (e *Editor) BeginEdit(id string) bool {
	e.touch()
	if e.edit.id == id {
		return true
	}
	el, ok := e.doc.State().Find(id)
	if !ok || !el.IsSeat() {
		return false
	}
	if e.edit.id != "" {
		e.commitEdit()
	}
	e.edit = editState{id: id, draft: el.SeatNumber}
	return true
}

// SetDraft replaces the uncommitted text. It does nothing when no edit
// is open.
func (e *Editor) SetDraft(s string) {
	if e.edit.id == "" {
		return
	}
	e.edit.draft = s
}

// CommitEdit writes the trimmed draft as the seat number and closes the
// editor. An empty draft clears the number.
func (e *Editor) CommitEdit() {
	e.touch()
	e.commitEdit()
}

func (e *Editor) commitEdit() {
	if e.edit.id == "" {
		return
	}
	id, draft := e.edit.id, strings.TrimSpace(e.edit.draft)
	e.edit = editState{}
	e.doc.UpdateElement(id, layout.SetSeatNumber(draft))
}

// CancelEdit closes the editor without changing the element.
func (e *Editor) CancelEdit() {
	e.touch()
	e.edit = editState{}
}
