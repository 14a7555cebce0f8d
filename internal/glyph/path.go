// Package glyph parses reference glyph paths and loads glyph assets.
package glyph

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies a path command.
type Kind byte

// Path command kinds.
const (
	MoveTo     Kind = 'M'
	LineTo     Kind = 'L'
	Horizontal Kind = 'H'
	Vertical   Kind = 'V'
	CubicTo    Kind = 'C'
	SmoothTo   Kind = 'S'
	QuadTo     Kind = 'Q'
	SmoothQuad Kind = 'T'
	ArcTo      Kind = 'A'
	Close      Kind = 'Z'
)

// Mode controls how command letters are recognised.
type Mode int

const (
	// Loose treats lowercase command letters as their uppercase counterparts.
	Loose Mode = iota
	// Strict only splits on uppercase (absolute) command letters; lowercase
	// letters end up in operand text and are discarded.
	Strict
)

// Command is a single tokenized path command.
type Command struct {
	Kind     Kind
	Operands []float64
}

// Point is a 2-D coordinate.
type Point struct {
	X float64
	Y float64
}

func isCommandLetter(r rune, mode Mode) bool {
	if mode == Loose {
		r = unicode.ToUpper(r)
	}
	switch Kind(r) {
	case MoveTo, LineTo, Horizontal, Vertical, CubicTo, SmoothTo, QuadTo, SmoothQuad, ArcTo, Close:
		return true
	}
	return false
}

// Tokenize splits a path description into commands. Text before the first
// command letter is ignored and operand tokens that are not numbers are dropped.
func Tokenize(d string, mode Mode) []Command {
	var cmds []Command
	start := -1
	runes := []rune(d)
	flush := func(end int) {
		if start < 0 {
			return
		}
		kind := Kind(unicode.ToUpper(runes[start]))
		cmds = append(cmds, Command{
			Kind:     kind,
			Operands: parseOperands(string(runes[start+1 : end])),
		})
	}
	for i, r := range runes {
		if !isCommandLetter(r, mode) {
			continue
		}
		flush(i)
		start = i
	}
	flush(len(runes))
	return cmds
}

func parseOperands(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Extract flattens a path description into interleaved x,y coordinates.
//
// Move and line commands append their first operand pair, horizontal and
// vertical commands update one axis of the current point and append it.
// Curve and arc commands contribute only their end anchor (the last operand
// pair); control points are not sampled, so curved glyphs are under-represented.
// Close commands add nothing. Malformed commands are skipped.
func Extract(d string, mode Mode) []float64 {
	var points []float64
	for _, sub := range Subpaths(Tokenize(d, mode)) {
		for _, p := range sub {
			points = append(points, p.X, p.Y)
		}
	}
	return points
}

// Subpaths walks commands and groups the emitted anchor points into
// polylines, starting a new one at every move command.
func Subpaths(cmds []Command) [][]Point {
	var (
		out  [][]Point
		cur  []Point
		x, y float64
	)
	emit := func() {
		cur = append(cur, Point{X: x, Y: y})
	}
	for _, cmd := range cmds {
		ops := cmd.Operands
		switch cmd.Kind {
		case MoveTo:
			if len(ops) < 2 {
				continue
			}
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			x, y = ops[0], ops[1]
			emit()
		case LineTo:
			if len(ops) < 2 {
				continue
			}
			x, y = ops[0], ops[1]
			emit()
		case Horizontal:
			if len(ops) < 1 {
				continue
			}
			x = ops[0]
			emit()
		case Vertical:
			if len(ops) < 1 {
				continue
			}
			y = ops[0]
			emit()
		case CubicTo, SmoothTo, QuadTo, SmoothQuad, ArcTo:
			if len(ops) < 2 {
				continue
			}
			x, y = ops[len(ops)-2], ops[len(ops)-1]
			emit()
		case Close:
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// Bounds returns the bounding box of interleaved coordinates. ok is false
// when there are no complete points.
func Bounds(points []float64) (minX, minY, maxX, maxY float64, ok bool) {
	for i := 0; i+1 < len(points); i += 2 {
		x, y := points[i], points[i+1]
		if !ok {
			minX, maxX = x, x
			minY, maxY = y, y
			ok = true
			continue
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return minX, minY, maxX, maxY, ok
}
