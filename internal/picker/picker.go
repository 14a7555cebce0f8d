// Package picker chooses the next glyph to practice.
package picker

import (
	"math/rand"
	"time"
)

// Picker selects glyph ids.
type Picker struct {
	rnd *rand.Rand
}

// New returns a Picker seeded with the current time.
func New() *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a Picker with a fixed seed.
func NewSeeded(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Next returns the id following current in ids, wrapping around. An unknown
// current yields the first id. Empty ids yields "".
func Next(ids []string, current string) string {
	if len(ids) == 0 {
		return ""
	}
	for i, id := range ids {
		if id == current {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

// Weighted picks an id at random, giving glyphs in weakSet a weight of
// 1+factor instead of 1. The current glyph is avoided when another exists.
func (p *Picker) Weighted(ids []string, current string, weakSet map[string]struct{}, factor float64) string {
	if len(ids) == 0 {
		return ""
	}
	if len(ids) == 1 {
		return ids[0]
	}
	if factor < 0 {
		factor = 0
	}
	weights := make([]float64, len(ids))
	total := 0.0
	for i, id := range ids {
		if id == current {
			continue
		}
		w := 1.0
		if _, ok := weakSet[id]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	r := p.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		acc += w
		if r <= acc {
			return ids[i]
		}
	}
	for i := len(ids) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return ids[i]
		}
	}
	return ids[0]
}
