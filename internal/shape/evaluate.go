package shape

import "github.com/verte-zerg/teeline/internal/glyph"

// Result is the outcome of scoring one submission.
type Result struct {
	IsCorrect bool
	Score     float64
}

// Evaluate scores traced raw points against a reference path description and
// compares the score with threshold.
func (s *Scorer) Evaluate(traced []float64, referencePath string, mode glyph.Mode, threshold float64) Result {
	reference := glyph.Extract(referencePath, mode)
	score := s.Score(traced, reference)
	return Result{IsCorrect: Passes(score, threshold), Score: score}
}

// Passes reports whether score meets threshold.
func Passes(score, threshold float64) bool {
	return score >= threshold
}
