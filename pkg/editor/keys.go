package editor

import "github.com/charmbracelet/bubbles/key"

// Key is a keyboard event in the textual form bubbletea reports
// ("ctrl+z", "shift+up", "a"). InTextInput marks events that arrived while
// focus was inside a text-entry control.
type Key struct {
	Name        string
	InTextInput bool
}

func (k Key) String() string { return k.Name }

// KeyMap binds editor commands to keys.
type KeyMap struct {
	Undo      key.Binding
	Redo      key.Binding
	SelectAll key.Binding
	Delete    key.Binding
	Escape    key.Binding
	Confirm   key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Disable   key.Binding
	Renumber  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y", "ctrl+shift+z"),
			key.WithHelp("ctrl+y", "redo"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select all"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "backspace"),
			key.WithHelp("del", "remove"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/deselect"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit number"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "move right"),
		),
		Disable: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle disabled"),
		),
		Renumber: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "renumber seats"),
		),
	}
}

// ShortHelp lists the bindings shown in a compact help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Redo, k.Delete, k.Confirm, k.Disable, k.Renumber}
}

// FullHelp lists every binding grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Undo, k.Redo, k.SelectAll, k.Delete},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Escape, k.Confirm, k.Disable, k.Renumber},
	}
}

// HandleKey dispatches k and reports whether it was consumed.
//
// Inside a text input only escape and enter are handled, cancelling or
// committing the open edit. Otherwise delete and the arrow keys require a
// non-empty selection and no open edit.
func (e *Editor) HandleKey(k Key) bool {
	km := e.keys

	if k.InTextInput || e.edit.id != "" {
		switch {
		case key.Matches(k, km.Escape):
			e.CancelEdit()
			return true
		case key.Matches(k, km.Confirm):
			e.CommitEdit()
			return true
		}
		if k.InTextInput {
			return false
		}
	}

	switch {
	case key.Matches(k, km.Undo):
		e.Undo()
	case key.Matches(k, km.Redo):
		e.Redo()
	case key.Matches(k, km.SelectAll):
		e.SelectAll()
	case key.Matches(k, km.Delete):
		return e.DeleteSelection()
	case key.Matches(k, km.Escape):
		e.DeselectAll()
	case key.Matches(k, km.Confirm):
		return e.editSelected()
	case key.Matches(k, km.Up):
		return e.nudgeKey(-1, 0)
	case key.Matches(k, km.Down):
		return e.nudgeKey(1, 0)
	case key.Matches(k, km.Left):
		return e.nudgeKey(0, -1)
	case key.Matches(k, km.Right):
		return e.nudgeKey(0, 1)
	case key.Matches(k, km.Disable):
		e.ToggleDisabled()
	case key.Matches(k, km.Renumber):
		e.Renumber()
	default:
		return false
	}
	return true
}

// nudgeKey consumes arrow keys whenever there is something to nudge, even
// if the move itself is rejected.
func (e *Editor) nudgeKey(dRow, dCol int) bool {
	if e.sel.Len() == 0 || e.edit.id != "" {
		return false
	}
	e.Nudge(dRow, dCol)
	return true
}

// editSelected opens the number editor for a single selected seat.
func (e *Editor) editSelected() bool {
	if e.sel.Len() != 1 {
		return false
	}
	for id := range e.sel.ids {
		return e.BeginEdit(id)
	}
	return false
}
