// Package layout defines the seating-chart data model and the placement
// rules that every editor mutation is checked against.
//
// # Model
//
// A [State] is a grid of [Dimensions] plus an ordered list of [Element]
// values. Each element occupies a rectangle anchored at its top-left
// [Position] and extending [Size] cells down and right. Rows and columns
// are 1-based.
//
// Element order is insertion order. It carries no meaning beyond stable
// iteration, but it is preserved across snapshots so two states can be
// compared by their serialized form.
//
// # Placement
//
// [ElementAt] answers which element covers a cell, and [CanPlace] answers
// whether a rectangle fits inside the grid without overlapping anything.
// [CanMove] applies the same check to a batch of elements shifted by the
// same delta, excluding the batch itself so members never collide with
// their own old positions.
//
// Nothing in this package mutates state. The store in package store owns
// the mutations and callers are expected to gate them with these checks.
//
// # Tools
//
// [Tools] is the fixed registry of placeable element types together with
// their default and maximum sizes. [DefaultBounds] carries the grid size
// limits that input surfaces enforce; the store itself never does.
package layout
