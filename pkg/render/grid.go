package render

import (
	"github.com/matzehuels/seatmap/pkg/layout"
)

// View carries the editor state that affects how cells look but is not
// part of the layout itself.
type View struct {
	Selected layout.IDSet
	Editing  string // id of the seat whose number is being edited
	Draft    string // uncommitted text for the edited seat
}

// Cell is one grid position. An empty cell has no ID.
type Cell struct {
	Row, Col int
	ID       string
	Type     layout.ElementType
	Label    string
	Anchor   bool // top-left cell of the covering element
	Selected bool
	Editing  bool
	Disabled bool
}

// Empty reports whether no element covers the cell.
func (c Cell) Empty() bool { return c.ID == "" }

// Grid returns the rows x cols cell matrix for s. Cells are indexed
// [row-1][col-1]. Where elements overlap, the earlier element wins, which
// matches [layout.ElementAt]. Cells of elements outside the grid are
// dropped; see [Orphans].
func Grid(s layout.State, v View) [][]Cell {
	rows, cols := max(s.Dimensions.Rows, 0), max(s.Dimensions.Cols, 0)
	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
		for c := range grid[r] {
			grid[r][c] = Cell{Row: r + 1, Col: c + 1}
		}
	}

	for _, e := range s.Elements {
		rect := e.Rect()
		editing := v.Editing != "" && v.Editing == e.ID
		label := Label(e)
		if editing {
			label = v.Draft
		}
		for row := max(rect.Top, 1); row <= min(rect.Bottom, rows); row++ {
			for col := max(rect.Left, 1); col <= min(rect.Right, cols); col++ {
				cell := &grid[row-1][col-1]
				if !cell.Empty() {
					continue
				}
				cell.ID = e.ID
				cell.Type = e.Type
				cell.Label = label
				cell.Anchor = row == rect.Top && col == rect.Left
				cell.Selected = v.Selected.Has(e.ID)
				cell.Editing = editing
				cell.Disabled = e.IsSeat() && e.Disabled
			}
		}
	}
	return grid
}

// Label is the text shown for an element: the seat number for seats, the
// tool glyph otherwise.
func Label(e layout.Element) string {
	if e.IsSeat() {
		return e.SeatNumber
	}
	if tool, ok := layout.ToolFor(e.Type); ok {
		return tool.Glyph
	}
	return string(e.Type)
}

// Orphans returns the elements that extend past the current dimensions.
// They stay in the layout but have no cells in [Grid].
func Orphans(s layout.State) []layout.Element {
	return layout.OutOfBounds(s)
}

// Stats summarizes a layout.
type Stats struct {
	ByType        map[layout.ElementType]int
	Seats         int
	EnabledSeats  int
	NumberedSeats int
	Orphans       int
}

// Summarize counts elements per type and seat availability.
func Summarize(s layout.State) Stats {
	st := Stats{ByType: make(map[layout.ElementType]int, len(layout.ElementTypes))}
	for _, e := range s.Elements {
		st.ByType[e.Type]++
		if !e.IsSeat() {
			continue
		}
		st.Seats++
		if !e.Disabled {
			st.EnabledSeats++
		}
		if e.SeatNumber != "" {
			st.NumberedSeats++
		}
	}
	st.Orphans = len(Orphans(s))
	return st
}
