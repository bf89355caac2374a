package layout

import "testing"

func seat(id string, row, col int) Element {
	return Element{ID: id, Type: TypeSeat, Position: Position{Row: row, Col: col}}
}

func sized(id string, t ElementType, row, col, rs, cs int) Element {
	return Normalize(Element{ID: id, Type: t, Position: Position{Row: row, Col: col}, Size: Size{RowSpan: rs, ColSpan: cs}})
}

func TestElementAt(t *testing.T) {
	s := State{
		Dimensions: Dimensions{Rows: 4, Cols: 4},
		Elements: []Element{
			seat("a", 1, 1),
			sized("wc", TypeWC, 2, 2, 2, 2),
		},
	}

	tests := []struct {
		name     string
		row, col int
		exclude  IDSet
		wantID   string
		wantOK   bool
	}{
		{name: "Anchor", row: 1, col: 1, wantID: "a", wantOK: true},
		{name: "Empty", row: 1, col: 2, wantOK: false},
		{name: "MultiCellAnchor", row: 2, col: 2, wantID: "wc", wantOK: true},
		{name: "MultiCellInterior", row: 3, col: 3, wantID: "wc", wantOK: true},
		{name: "JustOutside", row: 4, col: 3, wantOK: false},
		{name: "Excluded", row: 3, col: 2, exclude: NewIDSet("wc"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := ElementAt(s, tt.row, tt.col, tt.exclude)
			if ok != tt.wantOK {
				t.Fatalf("ElementAt(%d,%d) ok = %v, want %v", tt.row, tt.col, ok, tt.wantOK)
			}
			if ok && e.ID != tt.wantID {
				t.Errorf("ElementAt(%d,%d) = %q, want %q", tt.row, tt.col, e.ID, tt.wantID)
			}
		})
	}
}

func TestElementAtFirstMatchWins(t *testing.T) {
	s := State{
		Dimensions: Dimensions{Rows: 2, Cols: 2},
		Elements:   []Element{seat("first", 1, 1), seat("second", 1, 1)},
	}
	e, ok := ElementAt(s, 1, 1, nil)
	if !ok || e.ID != "first" {
		t.Errorf("ElementAt = %q, %v; want first", e.ID, ok)
	}
}

func TestCanPlace(t *testing.T) {
	s := State{
		Dimensions: Dimensions{Rows: 3, Cols: 3},
		Elements:   []Element{seat("a", 2, 2)},
	}

	tests := []struct {
		name             string
		row, col, rs, cs int
		exclude          IDSet
		want             bool
	}{
		{name: "FreeCell", row: 1, col: 1, rs: 1, cs: 1, want: true},
		{name: "Occupied", row: 2, col: 2, rs: 1, cs: 1, want: false},
		{name: "SpanCoversOccupied", row: 1, col: 1, rs: 2, cs: 2, want: false},
		{name: "SpanFree", row: 1, col: 1, rs: 1, cs: 3, want: true},
		{name: "PastRight", row: 1, col: 3, rs: 1, cs: 2, want: false},
		{name: "PastBottom", row: 3, col: 1, rs: 2, cs: 1, want: false},
		{name: "RowZero", row: 0, col: 1, rs: 1, cs: 1, want: false},
		{name: "ColZero", row: 1, col: 0, rs: 1, cs: 1, want: false},
		{name: "ZeroSpan", row: 1, col: 1, rs: 0, cs: 1, want: false},
		{name: "OccupiedButExcluded", row: 2, col: 2, rs: 1, cs: 1, exclude: NewIDSet("a"), want: true},
		{name: "WholeGridExcluded", row: 1, col: 1, rs: 3, cs: 3, exclude: NewIDSet("a"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPlace(s, tt.row, tt.col, tt.rs, tt.cs, tt.exclude); got != tt.want {
				t.Errorf("CanPlace(%d,%d,%d,%d) = %v, want %v", tt.row, tt.col, tt.rs, tt.cs, got, tt.want)
			}
		})
	}
}

func TestCanMove(t *testing.T) {
	row := State{
		Dimensions: Dimensions{Rows: 2, Cols: 2},
		Elements:   []Element{seat("a", 1, 1), seat("b", 1, 2)},
	}
	wide := State{
		Dimensions: Dimensions{Rows: 3, Cols: 4},
		Elements:   []Element{seat("a", 1, 1), seat("b", 1, 2), seat("c", 1, 4)},
	}

	tests := []struct {
		name       string
		state      State
		ids        IDSet
		dRow, dCol int
		want       bool
	}{
		{name: "BlockPastEdge", state: row, ids: NewIDSet("a", "b"), dCol: 1, want: false},
		{name: "BlockDown", state: row, ids: NewIDSet("a", "b"), dRow: 1, want: true},
		{name: "SingleIntoNeighbour", state: row, ids: NewIDSet("a"), dCol: 1, want: false},
		{name: "BlockShiftsIntoOwnCells", state: wide, ids: NewIDSet("a", "b"), dCol: 1, want: true},
		{name: "BlockHitsOutsider", state: wide, ids: NewIDSet("a", "b"), dCol: 2, want: false},
		{name: "ZeroDelta", state: row, ids: NewIDSet("a"), want: false},
		{name: "EmptySet", state: row, ids: NewIDSet(), dRow: 1, want: false},
		{name: "UnknownID", state: row, ids: NewIDSet("a", "ghost"), dRow: 1, want: false},
		{name: "NegativeOut", state: row, ids: NewIDSet("a"), dRow: -1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMove(tt.state, tt.ids, tt.dRow, tt.dCol); got != tt.want {
				t.Errorf("CanMove(%v, %d, %d) = %v, want %v", tt.ids.Sorted(), tt.dRow, tt.dCol, got, tt.want)
			}
		})
	}
}

func TestOverlapsAndOutOfBounds(t *testing.T) {
	s := State{
		Dimensions: Dimensions{Rows: 2, Cols: 2},
		Elements: []Element{
			sized("big", TypeWC, 1, 1, 2, 2),
			seat("dup", 2, 2),
			seat("far", 5, 1),
		},
	}

	overlaps := Overlaps(s)
	if len(overlaps) != 1 || overlaps[0] != [2]string{"big", "dup"} {
		t.Errorf("Overlaps = %v, want [[big dup]]", overlaps)
	}

	oob := OutOfBounds(s)
	if len(oob) != 1 || oob[0].ID != "far" {
		t.Errorf("OutOfBounds = %v, want [far]", oob)
	}
}

func TestExtent(t *testing.T) {
	min := Dimensions{Rows: 12, Cols: 4}

	tests := []struct {
		name     string
		elements []Element
		want     Dimensions
	}{
		{name: "Empty", want: min},
		{name: "SmallLayout", elements: []Element{seat("a", 3, 2)}, want: min},
		{name: "DeepLayout", elements: []Element{seat("a", 15, 1)}, want: Dimensions{Rows: 15, Cols: 4}},
		{name: "SpanCounts", elements: []Element{sized("d", TypeDoor, 12, 4, 2, 3)}, want: Dimensions{Rows: 13, Cols: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extent(tt.elements, min); got != tt.want {
				t.Errorf("Extent = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClampPosition(t *testing.T) {
	d := Dimensions{Rows: 4, Cols: 3}
	tests := []struct {
		in, want Position
	}{
		{Position{2, 2}, Position{2, 2}},
		{Position{0, 5}, Position{1, 3}},
		{Position{9, -2}, Position{4, 1}},
	}
	for _, tt := range tests {
		if got := ClampPosition(tt.in, d); got != tt.want {
			t.Errorf("ClampPosition(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
