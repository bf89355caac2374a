package layout

// Tool describes a placeable element type as offered to the operator.
type Tool struct {
	Type        ElementType
	Label       string
	Glyph       string // short marker used by text renderers
	DefaultSize Size
}

// MaxToolSpan bounds both spans of a tool size.
const MaxToolSpan = 10

// MaxGridSpan is the hard limit on grid rows and columns. Configured bounds
// and decoded layouts never exceed it.
const MaxGridSpan = 100

// MaxDimensions is the largest grid any layout may occupy.
var MaxDimensions = Dimensions{Rows: MaxGridSpan, Cols: MaxGridSpan}

// Tools is the fixed tool registry in display order.
var Tools = []Tool{
	{Type: TypeSeat, Label: "Seat", Glyph: "S"},
	{Type: TypeWC, Label: "WC", Glyph: "WC"},
	{Type: TypeDriver, Label: "Driver", Glyph: "DR"},
	{Type: TypeDoor, Label: "Door", Glyph: "[]"},
}

// ToolFor returns the registry entry for t.
func ToolFor(t ElementType) (Tool, bool) {
	for _, tool := range Tools {
		if tool.Type == t {
			return tool, true
		}
	}
	return Tool{}, false
}

// Bounds are the grid size limits enforced by input surfaces.
type Bounds struct {
	MinRows, MaxRows int
	MinCols, MaxCols int
}

// DefaultBounds matches a typical coach: 4-20 rows, 2-8 columns.
var DefaultBounds = Bounds{MinRows: 4, MaxRows: 20, MinCols: 2, MaxCols: 8}

// MinImportDimensions is the smallest grid an imported layout is shown on.
var MinImportDimensions = Dimensions{Rows: 12, Cols: 4}
