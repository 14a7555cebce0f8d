package shape

import (
	"math"

	"github.com/rs/zerolog"
)

// EuclideanPenalty scales the normalized distance in the degenerate fallback,
// making that path stricter than the cosine path.
const EuclideanPenalty = 10.0

// Scorer computes similarity scores between a traced sequence and a
// reference sequence.
//
// The score is the cosine similarity of both sequences after per-axis
// normalization and resampling to a common point count, clamped to [0,1].
// Earlier revisions of the trainer scored with a mean absolute difference
// over zero-padded vectors, and later with a padded Euclidean distance.
// Those produce different pass/fail outcomes for the same trace; only the
// Euclidean form survives, as the fallback for degenerate shapes.
type Scorer struct {
	Logger zerolog.Logger
}

// NewScorer returns a Scorer that logs scoring decisions to logger.
func NewScorer(logger zerolog.Logger) *Scorer {
	return &Scorer{Logger: logger}
}

// Similarity scores traced against reference without logging.
func Similarity(traced, reference []float64) float64 {
	s := Scorer{Logger: zerolog.Nop()}
	return s.Score(traced, reference)
}

// Score returns a similarity in [0,1]. Inputs with fewer than two
// coordinates, or holding NaN or infinite coordinates, score 0.
func (s *Scorer) Score(traced, reference []float64) float64 {
	if len(traced) < 2 || len(reference) < 2 {
		s.Logger.Debug().
			Int("traced", len(traced)).
			Int("reference", len(reference)).
			Msg("insufficient coordinates")
		return 0
	}
	if !finite(traced) || !finite(reference) {
		s.Logger.Debug().Msg("non-finite coordinates")
		return 0
	}
	a := Normalize(traced)
	b := Normalize(reference)
	if IsZero(a) || IsZero(b) {
		score := euclideanSimilarity(a, b)
		s.Logger.Debug().Float64("score", score).Msg("degenerate shape, euclidean fallback")
		return score
	}

	n := len(a) / 2
	if m := len(b) / 2; m > n {
		n = m
	}
	a = Resample(a, n)
	b = Resample(b, n)

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		score := euclideanSimilarity(a, b)
		s.Logger.Debug().Float64("score", score).Msg("zero magnitude, euclidean fallback")
		return score
	}
	score := clamp01(dot / (math.Sqrt(magA) * math.Sqrt(magB)))
	s.Logger.Debug().Int("points", n).Float64("score", score).Msg("cosine similarity")
	return score
}

// euclideanSimilarity zero-pads the shorter vector, divides the Euclidean
// distance by the vector length and applies EuclideanPenalty.
func euclideanSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		var av, bv float64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		d := av - bv
		sum += d * d
	}
	dist := math.Sqrt(sum) / float64(n)
	return math.Max(0, 1-dist*EuclideanPenalty)
}

func finite(points []float64) bool {
	for _, v := range points {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
