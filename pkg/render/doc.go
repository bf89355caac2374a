// Package render turns layout snapshots into something a screen or file
// can show.
//
// [Grid] is the contract every front end draws from: a rows x cols matrix
// of [Cell] values, each naming the element that covers it, whether it is
// that element's anchor, and whether it is selected, being edited or
// disabled. Rendering is pure; callers pass the editor's [View] alongside
// the layout state and redraw after every store change.
//
//	cells := render.Grid(st, render.View{Selected: ed.Selected()})
//
// Elements left outside the grid after a shrink have no cells. [Orphans]
// lists them so a front end can warn about them.
//
// # File Output
//
// [RenderSVG] draws a layout as a printable chart. A [Converter] turns that
// SVG into PDF or PNG with the external rsvg-convert tool (from librsvg)
// and can keep the results in a [cache.Cache] keyed by the SVG content.
//
//	svg := render.RenderSVG(st, render.WithCellSize(64))
//	cv := render.NewConverter(render.WithCache(fc, 24*time.Hour))
//	png, err := cv.Convert(ctx, svg, render.FormatPNG, 2)
//
// [cache.Cache]: github.com/matzehuels/seatmap/pkg/cache.Cache
package render
