package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// ElementType identifies what an element represents on the grid.
type ElementType string

const (
	TypeSeat   ElementType = "seat"
	TypeWC     ElementType = "wc"
	TypeDriver ElementType = "driver"
	TypeDoor   ElementType = "door"
)

// ElementTypes lists every valid type in registry order.
var ElementTypes = []ElementType{TypeSeat, TypeWC, TypeDriver, TypeDoor}

// Valid reports whether t is one of the known element types.
func (t ElementType) Valid() bool {
	switch t {
	case TypeSeat, TypeWC, TypeDriver, TypeDoor:
		return true
	}
	return false
}

// Dimensions is the size of the grid in cells.
type Dimensions struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Position is a 1-based cell coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Size is the number of cells an element spans. The zero value means 1x1.
type Size struct {
	RowSpan int `json:"rowSpan"`
	ColSpan int `json:"colSpan"`
}

// Spans returns the effective row and column spans, treating anything
// below one as one.
func (s Size) Spans() (rows, cols int) {
	rows, cols = s.RowSpan, s.ColSpan
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// normalized collapses a 1x1 size to the zero value so that equal layouts
// serialize identically.
func (s Size) normalized() Size {
	r, c := s.Spans()
	if r == 1 && c == 1 {
		return Size{}
	}
	return Size{RowSpan: r, ColSpan: c}
}

// Element is a single placed item: a seat, the driver position, a wc or a door.
//
// ID and Type are fixed for the lifetime of the element. SeatNumber and
// Disabled are only meaningful for seats.
type Element struct {
	ID         string      `json:"id"`
	Type       ElementType `json:"type"`
	SeatNumber string      `json:"seatNumber,omitempty"`
	Position   Position    `json:"position"`
	Size       Size        `json:"size,omitzero"`
	Disabled   bool        `json:"disabled,omitempty"`
}

// Spans returns the element's effective row and column spans.
func (e Element) Spans() (rows, cols int) {
	return e.Size.Spans()
}

// Rect returns the inclusive cell range the element occupies.
func (e Element) Rect() Rect {
	rs, cs := e.Spans()
	return Rect{
		Top:    e.Position.Row,
		Left:   e.Position.Col,
		Bottom: e.Position.Row + rs - 1,
		Right:  e.Position.Col + cs - 1,
	}
}

// IsSeat reports whether the element is a seat.
func (e Element) IsSeat() bool { return e.Type == TypeSeat }

// Normalize returns e with its size canonicalized.
func Normalize(e Element) Element {
	e.Size = e.Size.normalized()
	return e
}

// NewID returns a fresh element identifier.
func NewID() string {
	return uuid.NewString()
}

// NewElement creates an element of the given type anchored at (row, col).
func NewElement(t ElementType, row, col int, size Size) Element {
	return Normalize(Element{
		ID:       NewID(),
		Type:     t,
		Position: Position{Row: row, Col: col},
		Size:     size,
	})
}

// Rect is an inclusive cell rectangle.
type Rect struct {
	Top, Left, Bottom, Right int
}

// Contains reports whether the cell (row, col) lies inside r.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Top && row <= r.Bottom && col >= r.Left && col <= r.Right
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	return r.Left <= o.Right && o.Left <= r.Right && r.Top <= o.Bottom && o.Top <= r.Bottom
}

// Within reports whether r lies entirely inside a grid of size d.
func (r Rect) Within(d Dimensions) bool {
	return r.Top >= 1 && r.Left >= 1 && r.Bottom <= d.Rows && r.Right <= d.Cols
}

// State is a complete layout snapshot.
type State struct {
	Dimensions Dimensions `json:"dimensions"`
	Elements   []Element  `json:"elements"`
}

// Clone returns a deep copy of s. Elements hold no references, so copying
// the slice is enough.
func (s State) Clone() State {
	out := State{Dimensions: s.Dimensions}
	if s.Elements != nil {
		out.Elements = make([]Element, len(s.Elements))
		copy(out.Elements, s.Elements)
	}
	return out
}

// Find returns the element with the given id.
func (s State) Find(id string) (Element, bool) {
	if i := s.Index(id); i >= 0 {
		return s.Elements[i], true
	}
	return Element{}, false
}

// Index returns the position of id in Elements, or -1.
func (s State) Index(id string) int {
	for i, e := range s.Elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// IDs returns every element id in iteration order.
func (s State) IDs() []string {
	ids := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		ids[i] = e.ID
	}
	return ids
}

// canonical returns the serialized form used for equality checks. An
// empty element list and a nil one compare equal.
func (s State) canonical() []byte {
	elems := s.Elements
	if elems == nil {
		elems = []Element{}
	}
	data, _ := json.Marshal(State{Dimensions: s.Dimensions, Elements: elems})
	return data
}

// Equal reports whether s and o serialize identically.
func (s State) Equal(o State) bool {
	return string(s.canonical()) == string(o.canonical())
}

// Fingerprint returns a SHA-256 hex digest of the canonical serialization.
func (s State) Fingerprint() string {
	sum := sha256.Sum256(s.canonical())
	return hex.EncodeToString(sum[:])
}
