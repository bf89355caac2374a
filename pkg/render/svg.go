package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/seatmap/pkg/layout"
)

const (
	defaultCellSize = 48.0
	cellPadding     = 3.0
	fontSizeRatio   = 0.36
)

var fills = map[layout.ElementType]string{
	layout.TypeSeat:   "#dbeafe",
	layout.TypeWC:     "#e0e7ff",
	layout.TypeDriver: "#fde68a",
	layout.TypeDoor:   "#d1fae5",
}

const (
	disabledFill  = "#e5e7eb"
	selectedStyle = `stroke="#2563eb" stroke-width="3"`
	normalStyle   = `stroke="#374151" stroke-width="1.5"`
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cellSize  float64
	view      View
	gridLines bool
}

// WithCellSize sets the edge length of one grid cell in SVG units.
func WithCellSize(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.cellSize = px
		}
	}
}

// WithView highlights the selection and in-progress edit.
func WithView(v View) SVGOption { return func(r *svgRenderer) { r.view = v } }

// WithoutGrid omits the empty-cell outlines.
func WithoutGrid() SVGOption { return func(r *svgRenderer) { r.gridLines = false } }

// RenderSVG draws the layout as a standalone SVG document. Each element is
// one rounded rectangle spanning its cells; orphans are not drawn.
func RenderSVG(s layout.State, opts ...SVGOption) []byte {
	r := svgRenderer{cellSize: defaultCellSize, gridLines: true}
	for _, opt := range opts {
		opt(&r)
	}

	w := float64(max(s.Dimensions.Cols, 0)) * r.cellSize
	h := float64(max(s.Dimensions.Rows, 0)) * r.cellSize

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="white"/>`+"\n", w, h)

	if r.gridLines {
		r.renderGrid(&buf, s.Dimensions)
	}
	for _, e := range s.Elements {
		if !e.Rect().Within(s.Dimensions) {
			continue
		}
		r.renderElement(&buf, e)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderGrid(buf *bytes.Buffer, d layout.Dimensions) {
	for row := 0; row < d.Rows; row++ {
		for col := 0; col < d.Cols; col++ {
			fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#e5e7eb" stroke-dasharray="4 3"/>`+"\n",
				float64(col)*r.cellSize+cellPadding, float64(row)*r.cellSize+cellPadding,
				r.cellSize-2*cellPadding, r.cellSize-2*cellPadding)
		}
	}
}

func (r *svgRenderer) renderElement(buf *bytes.Buffer, e layout.Element) {
	rows, cols := e.Spans()
	x := float64(e.Position.Col-1)*r.cellSize + cellPadding
	y := float64(e.Position.Row-1)*r.cellSize + cellPadding
	w := float64(cols)*r.cellSize - 2*cellPadding
	h := float64(rows)*r.cellSize - 2*cellPadding

	fill := fills[e.Type]
	if e.IsSeat() && e.Disabled {
		fill = disabledFill
	}
	stroke := normalStyle
	if r.view.Selected.Has(e.ID) {
		stroke = selectedStyle
	}

	fmt.Fprintf(buf, `  <rect id="el-%s" class="element %s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" %s/>`+"\n",
		escapeXML(e.ID), e.Type, x, y, w, h, fill, stroke)

	label := Label(e)
	if r.view.Editing != "" && r.view.Editing == e.ID {
		label = r.view.Draft
	}
	if label == "" {
		return
	}
	fontSize := r.cellSize * fontSizeRatio
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="central"`,
		x+w/2, y+h/2, fontSize)
	if e.IsSeat() && e.Disabled {
		buf.WriteString(` fill="#9ca3af" text-decoration="line-through"`)
	}
	fmt.Fprintf(buf, ">%s</text>\n", escapeXML(label))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
