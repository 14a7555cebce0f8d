package shape

import "math"

// Resample re-derives points (interleaved x,y) as exactly n points by linear
// interpolation over point indices.
//
// n < 1 yields an empty sequence. n == 1 yields the first point. A sequence
// with a single point yields that point repeated n times; an empty sequence
// stays empty.
func Resample(points []float64, n int) []float64 {
	count := len(points) / 2
	if n < 1 || count == 0 {
		return []float64{}
	}
	out := make([]float64, 0, n*2)
	if count == 1 || n == 1 {
		for i := 0; i < n; i++ {
			out = append(out, points[0], points[1])
		}
		return out
	}
	step := float64(count-1) / float64(n-1)
	last := count - 1
	for i := 0; i < n; i++ {
		t := float64(i) * step
		lo := int(math.Floor(t))
		if lo > last {
			lo = last
		}
		hi := int(math.Ceil(t))
		if hi > last {
			hi = last
		}
		frac := t - float64(lo)
		x := points[lo*2] + (points[hi*2]-points[lo*2])*frac
		y := points[lo*2+1] + (points[hi*2+1]-points[lo*2+1])*frac
		out = append(out, x, y)
	}
	return out
}
