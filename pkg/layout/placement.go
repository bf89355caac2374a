package layout

// ElementAt returns the element covering (row, col), skipping ids in
// exclude. When elements overlap, which gated mutations never produce, the
// first in insertion order wins.
func ElementAt(s State, row, col int, exclude IDSet) (Element, bool) {
	for _, e := range s.Elements {
		if exclude.Has(e.ID) {
			continue
		}
		if e.Rect().Contains(row, col) {
			return e, true
		}
	}
	return Element{}, false
}

// CanPlace reports whether a rowSpan x colSpan rectangle anchored at
// (row, col) fits inside the grid without covering any element outside
// exclude.
func CanPlace(s State, row, col, rowSpan, colSpan int, exclude IDSet) bool {
	if rowSpan < 1 || colSpan < 1 {
		return false
	}
	r := Rect{Top: row, Left: col, Bottom: row + rowSpan - 1, Right: col + colSpan - 1}
	if !r.Within(s.Dimensions) {
		return false
	}
	for rr := r.Top; rr <= r.Bottom; rr++ {
		for cc := r.Left; cc <= r.Right; cc++ {
			if _, ok := ElementAt(s, rr, cc, exclude); ok {
				return false
			}
		}
	}
	return true
}

// CanPlaceElement is CanPlace for e's own size at (row, col).
func CanPlaceElement(s State, e Element, row, col int, exclude IDSet) bool {
	rs, cs := e.Spans()
	return CanPlace(s, row, col, rs, cs, exclude)
}

// CanMove reports whether every element in ids can be shifted by
// (dRow, dCol). Each target rectangle is checked with the whole moving
// set excluded. An empty set, an unknown id or a zero delta is rejected.
func CanMove(s State, ids IDSet, dRow, dCol int) bool {
	if ids.Len() == 0 || (dRow == 0 && dCol == 0) {
		return false
	}
	found := 0
	for _, e := range s.Elements {
		if !ids.Has(e.ID) {
			continue
		}
		found++
		if !CanPlaceElement(s, e, e.Position.Row+dRow, e.Position.Col+dCol, ids) {
			return false
		}
	}
	return found == ids.Len()
}

// Overlaps returns the pairs of element ids whose rectangles intersect.
func Overlaps(s State) [][2]string {
	var out [][2]string
	for i := 0; i < len(s.Elements); i++ {
		ri := s.Elements[i].Rect()
		for j := i + 1; j < len(s.Elements); j++ {
			if ri.Intersects(s.Elements[j].Rect()) {
				out = append(out, [2]string{s.Elements[i].ID, s.Elements[j].ID})
			}
		}
	}
	return out
}

// OutOfBounds returns the elements whose rectangle extends past the grid.
// This happens after the grid is shrunk, which the store tolerates.
func OutOfBounds(s State) []Element {
	var out []Element
	for _, e := range s.Elements {
		if !e.Rect().Within(s.Dimensions) {
			out = append(out, e)
		}
	}
	return out
}

// Extent returns the smallest grid that contains every element, never
// smaller than min.
func Extent(elements []Element, min Dimensions) Dimensions {
	d := min
	for _, e := range elements {
		r := e.Rect()
		if r.Bottom > d.Rows {
			d.Rows = r.Bottom
		}
		if r.Right > d.Cols {
			d.Cols = r.Right
		}
	}
	return d
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampPosition pins p inside a grid of size d, independently per axis.
func ClampPosition(p Position, d Dimensions) Position {
	return Position{
		Row: clamp(p.Row, 1, max(d.Rows, 1)),
		Col: clamp(p.Col, 1, max(d.Cols, 1)),
	}
}
