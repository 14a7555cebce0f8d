// Package braille rasterizes dots and lines onto terminal cells using
// Unicode braille patterns (2x4 dots per cell).
package braille

import "math"

// Dots per cell on each axis.
const (
	DotsX = 2
	DotsY = 4
)

// Grid is a cols x rows grid of braille cells addressed in dot coordinates.
type Grid struct {
	cols  int
	rows  int
	cells [][]uint8
}

// NewGrid returns an empty grid.
func NewGrid(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	cells := make([][]uint8, rows)
	for y := range cells {
		cells[y] = make([]uint8, cols)
	}
	return &Grid{cols: cols, rows: rows, cells: cells}
}

// Cols returns the width in cells.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the height in cells.
func (g *Grid) Rows() int { return g.rows }

// Width returns the width in dots.
func (g *Grid) Width() int { return g.cols * DotsX }

// Height returns the height in dots.
func (g *Grid) Height() int { return g.rows * DotsY }

// Set turns on the dot at (x, y). Out of range dots are ignored.
func (g *Grid) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cellX, cellY := x/DotsX, y/DotsY
	if cellY >= g.rows || cellX >= g.cols {
		return
	}
	g.cells[cellY][cellX] |= dotMask(x%DotsX, y%DotsY)
}

// Line draws a line between two dots, calling keep for every dot x to decide
// whether it is plotted. A nil keep plots every dot.
func (g *Grid) Line(x0, y0, x1, y1 int, keep func(x int) bool) {
	drawLine(x0, y0, x1, y1, func(x, y int) {
		if keep == nil || keep(x) {
			g.Set(x, y)
		}
	})
}

// Mask returns the raw dot mask of a cell.
func (g *Grid) Mask(col, row int) uint8 {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return 0
	}
	return g.cells[row][col]
}

// Rune returns the braille rune for a cell.
func (g *Grid) Rune(col, row int) rune {
	return FromMask(g.Mask(col, row))
}

// FromMask converts a dot mask to its braille rune.
func FromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func dotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}
