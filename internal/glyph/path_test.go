package glyph

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractMoveLineCount(t *testing.T) {
	cases := []string{
		"M0,0",
		"M0,0 L10,10",
		"M 1 2 L 3 4 L 5,6 M7 8 L9 10",
		"M0,0L100,0L100,100L0,100",
	}
	for _, d := range cases {
		want := 2 * strings.Count(strings.ToUpper(d), "M")
		want += 2 * strings.Count(strings.ToUpper(d), "L")
		for _, mode := range []Mode{Loose, Strict} {
			got := Extract(d, mode)
			if len(got) != want {
				t.Fatalf("%q mode %d: expected %d coords, got %d (%v)", d, mode, want, len(got), got)
			}
		}
	}
}

func TestExtractSquare(t *testing.T) {
	got := Extract("M0,0 L100,0 L100,100 L0,100 Z", Strict)
	want := []float64{0, 0, 100, 0, 100, 100, 0, 100}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractHorizontalVertical(t *testing.T) {
	got := Extract("M10,20 H50 V80 H10", Loose)
	want := []float64{10, 20, 50, 20, 50, 80, 10, 80}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractCurveAnchors(t *testing.T) {
	got := Extract("M0,0 C10,10 20,10 30,0 Q40,10 50,0 A5 5 0 0 1 60,0", Strict)
	want := []float64{0, 0, 30, 0, 50, 0, 60, 0}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractModes(t *testing.T) {
	d := "M0,0 l10,10"
	if got := Extract(d, Loose); len(got) != 4 {
		t.Fatalf("loose: expected lowercase line to count, got %v", got)
	}
	if got := Extract(d, Strict); len(got) != 2 {
		t.Fatalf("strict: expected lowercase line to be ignored, got %v", got)
	}
}

func TestExtractMalformed(t *testing.T) {
	for _, d := range []string{"", "hello", "M", "M x,y", "L5", "Z", "H V"} {
		if got := Extract(d, Strict); len(got) != 0 {
			t.Fatalf("%q: expected no points, got %v", d, got)
		}
	}
	for _, mode := range []Mode{Strict, Loose} {
		if got := Extract("L Inf,5 L -Inf,5", mode); len(got) != 0 {
			t.Fatalf("expected infinite operands dropped, got %v", got)
		}
	}
	if got := Extract("M0,0 L NaN,5", Strict); fmt.Sprint(got) != fmt.Sprint([]float64{0, 0}) {
		t.Fatalf("expected NaN operand dropped, got %v", got)
	}
	got := Extract("M0,0 Lfoo L5,5", Strict)
	if fmt.Sprint(got) != fmt.Sprint([]float64{0, 0, 5, 5}) {
		t.Fatalf("expected malformed command skipped, got %v", got)
	}
}

func TestSubpathsSplitOnMove(t *testing.T) {
	subs := Subpaths(Tokenize("M0,0 V10 M5,0 V10", Strict))
	if len(subs) != 2 {
		t.Fatalf("expected 2 subpaths, got %d", len(subs))
	}
	if subs[1][0] != (Point{X: 5, Y: 0}) || subs[1][1] != (Point{X: 5, Y: 10}) {
		t.Fatalf("unexpected second subpath: %v", subs[1])
	}
}

func TestBounds(t *testing.T) {
	minX, minY, maxX, maxY, ok := Bounds([]float64{3, 4, -1, 9, 7, 2})
	if !ok || minX != -1 || minY != 2 || maxX != 7 || maxY != 9 {
		t.Fatalf("unexpected bounds: %v %v %v %v %v", minX, minY, maxX, maxY, ok)
	}
	if _, _, _, _, ok := Bounds(nil); ok {
		t.Fatalf("expected no bounds for empty input")
	}
}
