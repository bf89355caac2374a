package layout

// Patch describes a partial update to an element. A nil field is left
// untouched. ID and Type cannot be patched.
//
// An empty SeatNumber clears the label.
type Patch struct {
	SeatNumber *string
	Position   *Position
	Size       *Size
	Disabled   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.SeatNumber == nil && p.Position == nil && p.Size == nil && p.Disabled == nil
}

// SetSeatNumber returns a patch that sets the seat label.
func SetSeatNumber(s string) Patch { return Patch{SeatNumber: &s} }

// SetDisabled returns a patch that sets the disabled flag.
func SetDisabled(v bool) Patch { return Patch{Disabled: &v} }

// SetPosition returns a patch that moves the anchor.
func SetPosition(row, col int) Patch { return Patch{Position: &Position{Row: row, Col: col}} }

// SetSize returns a patch that resizes the element.
func SetSize(rowSpan, colSpan int) Patch {
	return Patch{Size: &Size{RowSpan: rowSpan, ColSpan: colSpan}}
}

// ApplyPatch merges p into e and returns the result.
func ApplyPatch(e Element, p Patch) Element {
	if p.SeatNumber != nil {
		e.SeatNumber = *p.SeatNumber
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Size != nil {
		e.Size = *p.Size
	}
	if p.Disabled != nil {
		e.Disabled = *p.Disabled
	}
	return Normalize(e)
}
