// Package io provides JSON import and export for seat map layouts.
//
// # Overview
//
// This package converts between the persisted layout format and
// [layout.Element] values. The persisted format is what hosts store and
// what downstream consumers such as seat selection read, so it is kept
// minimal and stable.
//
// # JSON Format
//
// A layout is a bare JSON array of elements, with no envelope:
//
//	[
//	  {"id": "d", "type": "driver", "position": {"row": 1, "col": 1}},
//	  {"id": "s1", "type": "seat", "seatNumber": "1", "position": {"row": 2, "col": 1}},
//	  {"id": "w", "type": "wc", "position": {"row": 5, "col": 3}, "size": {"rowSpan": 2, "colSpan": 2}},
//	  {"id": "s2", "type": "seat", "position": {"row": 2, "col": 2}, "disabled": true}
//	]
//
// # Element Fields
//
// Required:
//   - id: Unique string identifier
//   - type: One of "seat", "wc", "driver", "door"
//   - position: 1-based anchor cell {row, col}
//
// Optional:
//   - seatNumber: Display label (seats only; omitted when empty)
//   - size: {rowSpan, colSpan} (omitted when 1x1)
//   - disabled: Seat is not bookable (omitted when false)
//
// # Decoding
//
// [Decode] is lenient and is what the editor uses to import a host value.
// Missing or unusable fields are defaulted: a fresh id, position 1,1, type
// seat, spans of 1, flags false. Duplicate ids are replaced with fresh
// ones. Only structural problems (the value is not an array, or an entry
// is not an object) are reported as errors.
//
// [DecodeStrict] is used where a layout arrives from an API client. It
// rejects every missing or invalid field, duplicate ids and overlapping
// elements with an [errors.ErrCodeInvalidLayout] error naming the entry.
//
// # Encoding
//
// [Encode] produces the compact persisted form with falsy optional fields
// stripped. [WriteJSON] and [ExportJSON] write the same content indented
// for files.
//
// [errors.ErrCodeInvalidLayout]: github.com/matzehuels/seatmap/pkg/errors.ErrCodeInvalidLayout
package io
