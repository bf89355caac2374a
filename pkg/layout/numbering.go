package layout

import (
	"sort"
	"strconv"
	"strings"
)

// NextSeatNumber returns the label for the next auto-numbered seat: one
// more than the highest numeric seat label, or "1" when there is none.
// Non-numeric labels are ignored.
func NextSeatNumber(elements []Element) string {
	highest := 0
	for _, e := range elements {
		if !e.IsSeat() {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(e.SeatNumber))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return strconv.Itoa(highest + 1)
}

// RenumberPatches assigns 1..n to every seat in row-major order of the
// anchors. Seats already carrying the right label get no patch.
func RenumberPatches(s State) map[string]Patch {
	seats := make([]Element, 0, len(s.Elements))
	for _, e := range s.Elements {
		if e.IsSeat() {
			seats = append(seats, e)
		}
	}
	sort.SliceStable(seats, func(i, j int) bool {
		a, b := seats[i].Position, seats[j].Position
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})

	patches := make(map[string]Patch)
	for i, e := range seats {
		label := strconv.Itoa(i + 1)
		if e.SeatNumber != label {
			patches[e.ID] = SetSeatNumber(label)
		}
	}
	return patches
}
