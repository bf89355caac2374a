package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/layout"
)

// IsEmpty reports whether data carries no layout: nil, blank, or JSON null.
func IsEmpty(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Decode parses a persisted layout, defaulting every missing or unusable
// field. Elements reaching past [layout.MaxGridSpan] are pulled back onto
// the largest grid. An empty value decodes to no elements.
//
// Decode returns an error only when data is not a JSON array of objects.
func Decode(data []byte) ([]layout.Element, error) {
	entries, err := splitEntries(data)
	if err != nil {
		return nil, err
	}

	out := make([]layout.Element, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, fields := range entries {
		e := lenientElement(fields)
		if seen[e.ID] {
			e.ID = layout.NewID()
		}
		seen[e.ID] = true
		out = append(out, layout.Normalize(e))
	}
	return out, nil
}

// DecodeStrict parses a persisted layout and rejects anything Decode would
// have to repair. It also rejects layouts whose elements overlap.
func DecodeStrict(data []byte) ([]layout.Element, error) {
	entries, err := splitEntries(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "malformed layout")
	}

	out := make([]layout.Element, 0, len(entries))
	seen := make(map[string]int, len(entries))
	for i, fields := range entries {
		e, err := strictElement(fields)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidLayout, "element %d: %s", i, err)
		}
		if j, dup := seen[e.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidLayout, "element %d: duplicate id %q (first used by element %d)", i, e.ID, j)
		}
		seen[e.ID] = i
		out = append(out, layout.Normalize(e))
	}

	st := layout.State{Dimensions: layout.Extent(out, layout.Dimensions{Rows: 1, Cols: 1}), Elements: out}
	if pairs := layout.Overlaps(st); len(pairs) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "elements %q and %q overlap", pairs[0][0], pairs[0][1])
	}
	return out, nil
}

// ReadJSON decodes a persisted layout from r with [Decode].
// ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]layout.Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Decode(data)
}

// ImportJSON reads the layout file at path with [Decode].
func ImportJSON(path string) ([]layout.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// splitEntries checks the top-level shape and returns each entry's fields.
func splitEntries(data []byte) ([]map[string]json.RawMessage, error) {
	if IsEmpty(data) {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode: expected an array of elements: %w", err)
	}
	entries := make([]map[string]json.RawMessage, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &entries[i]); err != nil || entries[i] == nil {
			return nil, fmt.Errorf("decode: element %d is not an object", i)
		}
	}
	return entries, nil
}

// =============================================================================
// Lenient field decoding
// =============================================================================

func lenientElement(f map[string]json.RawMessage) layout.Element {
	e := layout.Element{
		ID:       layout.NewID(),
		Type:     layout.TypeSeat,
		Position: layout.Position{Row: 1, Col: 1},
	}
	if id, ok := stringField(f["id"]); ok && id != "" {
		e.ID = id
	}
	if t, ok := stringField(f["type"]); ok && layout.ElementType(t).Valid() {
		e.Type = layout.ElementType(t)
	}
	e.SeatNumber = labelField(f["seatNumber"])

	if pos, ok := objectField(f["position"]); ok {
		if row, ok := intField(pos["row"]); ok && row >= 1 {
			e.Position.Row = row
		}
		if col, ok := intField(pos["col"]); ok && col >= 1 {
			e.Position.Col = col
		}
	}
	if size, ok := objectField(f["size"]); ok {
		rs, _ := intField(size["rowSpan"])
		cs, _ := intField(size["colSpan"])
		e.Size = layout.Size{RowSpan: max(rs, 1), ColSpan: max(cs, 1)}
	}
	if v, ok := boolField(f["disabled"]); ok {
		e.Disabled = v
	}
	return fitGrid(e)
}

// fitGrid pulls e back inside [layout.MaxDimensions], shrinking oversized
// spans before pinning the anchor.
func fitGrid(e layout.Element) layout.Element {
	if e.Rect().Within(layout.MaxDimensions) {
		return e
	}
	rs, cs := e.Spans()
	e.Size = layout.Size{RowSpan: min(rs, layout.MaxGridSpan), ColSpan: min(cs, layout.MaxGridSpan)}
	e.Position.Row = min(e.Position.Row, layout.MaxGridSpan-e.Size.RowSpan+1)
	e.Position.Col = min(e.Position.Col, layout.MaxGridSpan-e.Size.ColSpan+1)
	return e
}

// =============================================================================
// Strict field decoding
// =============================================================================

func strictElement(f map[string]json.RawMessage) (layout.Element, error) {
	var e layout.Element

	id, ok := stringField(f["id"])
	if !ok || id == "" {
		return e, fmt.Errorf("missing or invalid id")
	}
	e.ID = id

	t, ok := stringField(f["type"])
	if !ok || !layout.ElementType(t).Valid() {
		return e, fmt.Errorf("unknown type %s", string(f["type"]))
	}
	e.Type = layout.ElementType(t)

	pos, ok := objectField(f["position"])
	if !ok {
		return e, fmt.Errorf("missing position")
	}
	row, rowOK := intField(pos["row"])
	col, colOK := intField(pos["col"])
	if !rowOK || !colOK || row < 1 || col < 1 {
		return e, fmt.Errorf("position must have row and col of at least 1")
	}
	e.Position = layout.Position{Row: row, Col: col}

	if raw, present := f["seatNumber"]; present {
		s, ok := stringField(raw)
		if !ok {
			return e, fmt.Errorf("seatNumber must be a string")
		}
		if err := errors.ValidateSeatNumber(s); err != nil {
			return e, fmt.Errorf("%s", errors.UserMessage(err))
		}
		e.SeatNumber = s
	}

	if raw, present := f["size"]; present {
		size, ok := objectField(raw)
		if !ok {
			return e, fmt.Errorf("size must be an object")
		}
		rs, rsOK := intField(size["rowSpan"])
		cs, csOK := intField(size["colSpan"])
		if !rsOK || !csOK || rs < 1 || cs < 1 {
			return e, fmt.Errorf("size must have rowSpan and colSpan of at least 1")
		}
		e.Size = layout.Size{RowSpan: rs, ColSpan: cs}
		if err := errors.ValidateToolSize(e.Size); err != nil {
			return e, fmt.Errorf("%s", errors.UserMessage(err))
		}
	}

	if raw, present := f["disabled"]; present {
		v, ok := boolField(raw)
		if !ok {
			return e, fmt.Errorf("disabled must be a boolean")
		}
		e.Disabled = v
	}

	if !e.Rect().Within(layout.MaxDimensions) {
		return e, fmt.Errorf("element extends past the %dx%d grid limit", layout.MaxGridSpan, layout.MaxGridSpan)
	}
	return e, nil
}

// =============================================================================
// Field helpers
// =============================================================================

func stringField(raw json.RawMessage) (string, bool) {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

// labelField accepts seat numbers stored as strings or as numbers.
func labelField(raw json.RawMessage) string {
	if s, ok := stringField(raw); ok {
		return s
	}
	var n json.Number
	if raw != nil && json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

func intField(raw json.RawMessage) (int, bool) {
	var f float64
	if raw == nil || json.Unmarshal(raw, &f) != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func boolField(raw json.RawMessage) (bool, bool) {
	var b bool
	if raw == nil || json.Unmarshal(raw, &b) != nil {
		return false, false
	}
	return b, true
}

func objectField(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var m map[string]json.RawMessage
	if raw == nil || json.Unmarshal(raw, &m) != nil || m == nil {
		return nil, false
	}
	return m, true
}
