package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/teeline/internal/braille"
	"github.com/verte-zerg/teeline/internal/capture"
	"github.com/verte-zerg/teeline/internal/glyph"
)

const (
	minCanvasRows = 4
	// Fraction of the surface left empty around the reference glyph.
	guideMargin = 0.1
)

// rect is a cell rectangle on the terminal screen.
type rect struct {
	left int
	top  int
	cols int
	rows int
}

// canvasRect picks the largest square-looking canvas (two columns per row)
// that fits the screen below top and above reserved footer lines. The
// returned rect excludes the border.
func canvasRect(width, height, top, reserved int) rect {
	rows := height - top - reserved - 2
	if byWidth := (width - 2) / 2; byWidth < rows {
		rows = byWidth
	}
	if rows < minCanvasRows {
		rows = minCanvasRows
	}
	cols := rows * 2
	left := (width - cols - 2) / 2
	if left < 0 {
		left = 0
	}
	return rect{left: left + 1, top: top + 1, cols: cols, rows: rows}
}

// toSurface maps a terminal cell to the centre of the matching region on the
// drawing surface. Cells outside the canvas map outside the surface.
func toSurface(r rect, x, y int) capture.Point {
	if r.cols <= 0 || r.rows <= 0 {
		return capture.Point{X: -1, Y: -1}
	}
	return capture.Point{
		X: (float64(x-r.left) + 0.5) / float64(r.cols) * capture.SurfaceWidth,
		Y: (float64(y-r.top) + 0.5) / float64(r.rows) * capture.SurfaceHeight,
	}
}

// toDot maps a surface point to a dot on g.
func toDot(g *braille.Grid, p capture.Point) (int, int) {
	x := int(math.Round(p.X / capture.SurfaceWidth * float64(g.Width()-1)))
	y := int(math.Round(p.Y / capture.SurfaceHeight * float64(g.Height()-1)))
	return x, y
}

// fitGuide scales reference subpaths into the surface, keeping aspect ratio
// and centring them inside the margin.
func fitGuide(subpaths [][]glyph.Point) [][]capture.Point {
	var flat []float64
	for _, sp := range subpaths {
		for _, p := range sp {
			flat = append(flat, p.X, p.Y)
		}
	}
	minX, minY, maxX, maxY, ok := glyph.Bounds(flat)
	if !ok {
		return nil
	}
	spanX, spanY := maxX-minX, maxY-minY
	span := math.Max(spanX, spanY)
	inner := capture.SurfaceWidth * (1 - 2*guideMargin)
	scale := 1.0
	if span > 0 {
		scale = inner / span
	}
	offX := (capture.SurfaceWidth - spanX*scale) / 2
	offY := (capture.SurfaceHeight - spanY*scale) / 2

	out := make([][]capture.Point, 0, len(subpaths))
	for _, sp := range subpaths {
		pts := make([]capture.Point, len(sp))
		for i, p := range sp {
			pts[i] = capture.Point{
				X: offX + (p.X-minX)*scale,
				Y: offY + (p.Y-minY)*scale,
			}
		}
		out = append(out, pts)
	}
	return out
}

func plotPolyline(g *braille.Grid, pts []capture.Point, keep func(x int) bool) {
	if len(pts) == 0 {
		return
	}
	x0, y0 := toDot(g, pts[0])
	if len(pts) == 1 {
		g.Set(x0, y0)
		return
	}
	for _, p := range pts[1:] {
		x1, y1 := toDot(g, p)
		g.Line(x0, y0, x1, y1, keep)
		x0, y0 = x1, y1
	}
}

// renderCanvas draws the dotted guide and the ink strokes into a bordered box.
func renderCanvas(r rect, guide [][]capture.Point, strokes []capture.Stroke, erasing bool) string {
	guideGrid := braille.NewGrid(r.cols, r.rows)
	inkGrid := braille.NewGrid(r.cols, r.rows)
	dotted := func(x int) bool { return x%2 == 0 }
	for _, sp := range guide {
		plotPolyline(guideGrid, sp, dotted)
	}
	for _, s := range strokes {
		plotPolyline(inkGrid, s, nil)
	}

	ink := inkStyle
	if erasing {
		ink = eraseInkStyle
	}
	lines := make([]string, r.rows)
	for row := 0; row < r.rows; row++ {
		var b strings.Builder
		for col := 0; col < r.cols; col++ {
			inkMask := inkGrid.Mask(col, row)
			guideMask := guideGrid.Mask(col, row)
			switch {
			case inkMask != 0:
				b.WriteString(ink.Render(string(braille.FromMask(inkMask | guideMask))))
			case guideMask != 0:
				b.WriteString(guideStyle.Render(string(braille.FromMask(guideMask))))
			default:
				b.WriteRune(' ')
			}
		}
		lines[row] = b.String()
	}
	border := canvasBorderStyle
	if erasing {
		border = border.BorderForeground(lipgloss.Color("#FF4D4F"))
	}
	return border.Render(strings.Join(lines, "\n"))
}
