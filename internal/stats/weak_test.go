package stats

import (
	"testing"

	"github.com/verte-zerg/teeline/internal/model"
)

func TestSelectWeakGlyphs(t *testing.T) {
	aggs := []model.GlyphAggregate{
		{Glyph: "a", Attempts: 4, Passed: 1, ScoreSum: 2.0},
		{Glyph: "b", Attempts: 2, Passed: 2, ScoreSum: 1.8},
		{Glyph: "c", Attempts: 2, Passed: 0, ScoreSum: 0.6},
		{Glyph: "d", Attempts: 2, Passed: 0, ScoreSum: 0.4},
	}
	weak := SelectWeakGlyphs(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak glyphs, got %v", weak)
	}
	for _, g := range []string{"c", "d"} {
		if _, ok := weak[g]; !ok {
			t.Fatalf("expected %s to be weak, got %v", g, weak)
		}
	}
	all := SelectWeakGlyphs(aggs, 0)
	if _, ok := all["b"]; ok || len(all) != 3 {
		t.Fatalf("expected glyphs that always pass to be excluded, got %v", all)
	}
	if len(SelectWeakGlyphs(nil, 3)) != 0 {
		t.Fatalf("expected empty weak set")
	}
}
