// Package shape compares traced point sequences against reference glyphs.
//
// Point sequences are flat slices of interleaved x,y coordinates.
package shape

// Normalize rescales each axis of points into [0,1] independently.
//
// An axis whose values are all equal is shifted to zero instead of divided,
// so a single point normalizes to [0 0]. Sequences that hold at most two
// distinct values (a dot, a short diagonal) are rescaled against their
// global min/max instead of per axis.
//
// The global rule depends on coordinate values, not on shape. The horizontal
// stroke {0,10, 10,10} has two distinct values and normalizes to
// {0,1, 1,1}, while {0,10, 5,10, 10,10} has three and normalizes to y=0.
// The same stroke can therefore score differently against a reference
// depending on where it was drawn and how many points it has.
func Normalize(points []float64) []float64 {
	if len(points) == 0 {
		return []float64{}
	}
	if distinctValues(points, 3) <= 2 {
		return rescaleGlobal(points)
	}
	minX, maxX := axisRange(points, 0)
	minY, maxY := axisRange(points, 1)
	rangeX := divisor(minX, maxX)
	rangeY := divisor(minY, maxY)
	out := make([]float64, len(points))
	for i, v := range points {
		if i%2 == 0 {
			out[i] = (v - minX) / rangeX
		} else {
			out[i] = (v - minY) / rangeY
		}
	}
	return out
}

// IsZero reports whether every coordinate is exactly zero. Normalized
// sequences of degenerate input collapse to all zeros.
func IsZero(points []float64) bool {
	for _, v := range points {
		if v != 0 {
			return false
		}
	}
	return true
}

func rescaleGlobal(points []float64) []float64 {
	lo, hi := points[0], points[0]
	for _, v := range points[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	r := divisor(lo, hi)
	out := make([]float64, len(points))
	for i, v := range points {
		out[i] = (v - lo) / r
	}
	return out
}

func axisRange(points []float64, offset int) (lo, hi float64) {
	if offset >= len(points) {
		return 0, 0
	}
	lo, hi = points[offset], points[offset]
	for i := offset; i < len(points); i += 2 {
		v := points[i]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func divisor(lo, hi float64) float64 {
	if hi == lo {
		return 1
	}
	return hi - lo
}

// distinctValues counts distinct values, stopping once limit is reached.
func distinctValues(points []float64, limit int) int {
	seen := make(map[float64]struct{}, limit)
	for _, v := range points {
		seen[v] = struct{}{}
		if len(seen) >= limit {
			break
		}
	}
	return len(seen)
}
