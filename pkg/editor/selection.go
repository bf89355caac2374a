package editor

import "github.com/matzehuels/seatmap/pkg/layout"

// Mode selects how a clicked element combines with the current selection.
type Mode int

const (
	// ModeSingle replaces the selection with the clicked element.
	ModeSingle Mode = iota
	// ModeAdd unions the clicked element into the selection.
	ModeAdd
	// ModeToggle adds the clicked element or removes it if already selected.
	ModeToggle
	// ModeRange selects every element anchored inside the box spanned by
	// the last selected element and the clicked one.
	ModeRange
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeToggle:
		return "toggle"
	case ModeRange:
		return "range"
	default:
		return "single"
	}
}

// Selection tracks the selected element ids and the last element selected
// by a non-range click, which anchors subsequent range selections.
type Selection struct {
	ids  layout.IDSet
	last string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: layout.NewIDSet()}
}

// IDs returns a copy of the selected ids.
func (s *Selection) IDs() layout.IDSet { return s.ids.Clone() }

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool { return s.ids.Has(id) }

// Len returns the number of selected elements.
func (s *Selection) Len() int { return s.ids.Len() }

// Last returns the anchor for range selection, or "" when unset.
func (s *Selection) Last() string { return s.last }

// Select applies mode to id against the layout st.
func (s *Selection) Select(st layout.State, id string, mode Mode) {
	switch mode {
	case ModeAdd:
		s.ids.Add(id)
		s.last = id
	case ModeToggle:
		if s.ids.Has(id) {
			s.ids.Remove(id)
		} else {
			s.ids.Add(id)
		}
		s.last = id
	case ModeRange:
		if !s.selectRange(st, id) {
			s.Select(st, id, ModeSingle)
		}
	default:
		s.ids = layout.NewIDSet(id)
		s.last = id
	}
}

// selectRange replaces the selection with every element whose anchor lies
// in the bounding box of the range anchor and id. It reports false when
// either end does not resolve to an element. The range anchor is kept so
// repeated range clicks pivot around the same element.
func (s *Selection) selectRange(st layout.State, id string) bool {
	if s.last == "" {
		return false
	}
	from, ok := st.Find(s.last)
	if !ok {
		return false
	}
	to, ok := st.Find(id)
	if !ok {
		return false
	}

	box := layout.Rect{
		Top:    min(from.Position.Row, to.Position.Row),
		Left:   min(from.Position.Col, to.Position.Col),
		Bottom: max(from.Position.Row, to.Position.Row),
		Right:  max(from.Position.Col, to.Position.Col),
	}
	ids := layout.NewIDSet()
	for _, e := range st.Elements {
		if box.Contains(e.Position.Row, e.Position.Col) {
			ids.Add(e.ID)
		}
	}
	s.ids = ids
	return true
}

// SelectAll selects every element. The range anchor becomes the first
// element, or is cleared when the layout is empty.
func (s *Selection) SelectAll(st layout.State) {
	s.ids = layout.NewIDSet(st.IDs()...)
	s.last = ""
	if len(st.Elements) > 0 {
		s.last = st.Elements[0].ID
	}
}

// DeselectAll clears the selection and the range anchor.
func (s *Selection) DeselectAll() {
	s.ids = layout.NewIDSet()
	s.last = ""
}

// Prune drops ids that no longer exist in st.
func (s *Selection) Prune(st layout.State) {
	for id := range s.ids {
		if st.Index(id) < 0 {
			s.ids.Remove(id)
		}
	}
	if s.last != "" && st.Index(s.last) < 0 {
		s.last = ""
	}
}
