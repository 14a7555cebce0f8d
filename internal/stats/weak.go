package stats

import (
	"sort"

	"github.com/verte-zerg/teeline/internal/model"
)

// SelectWeakGlyphs selects the lowest pass-rate glyphs from aggregates.
func SelectWeakGlyphs(aggs []model.GlyphAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.GlyphAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Passed < agg.Attempts {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		pi := passRate(candidates[i])
		pj := passRate(candidates[j])
		if pi == pj {
			ai, aj := avgScore(candidates[i]), avgScore(candidates[j])
			if ai == aj {
				return candidates[i].Glyph < candidates[j].Glyph
			}
			return ai < aj
		}
		return pi < pj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		weakSet[candidates[i].Glyph] = struct{}{}
	}
	return weakSet
}

func passRate(agg model.GlyphAggregate) float64 {
	if agg.Attempts == 0 {
		return 1.0
	}
	return float64(agg.Passed) / float64(agg.Attempts)
}
