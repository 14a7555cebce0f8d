// Package capture turns pointer events into traced strokes.
package capture

import (
	"errors"
	"math"
)

// Canonical drawing surface and eraser size, in device units.
const (
	SurfaceWidth  = 400.0
	SurfaceHeight = 400.0
	EraseRadius   = 10.0
)

// ErrNothingDrawn is returned by Submit when the trace has no strokes.
var ErrNothingDrawn = errors.New("nothing drawn")

// State is the gesture state of a Session.
type State int

// Gesture states.
const (
	Idle State = iota
	Drawing
	ErasingIdle
	ErasingActive
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case ErasingIdle:
		return "erasing-idle"
	case ErasingActive:
		return "erasing"
	default:
		return "unknown"
	}
}

// Point is a pointer position on the drawing surface.
type Point struct {
	X float64
	Y float64
}

// Stroke is one continuous pointer-down-to-pointer-up drag.
type Stroke []Point

// Trace is the ordered set of strokes drawn for one attempt.
type Trace struct {
	Strokes []Stroke
}

// Flatten returns every stroke's points in drawing order as interleaved x,y.
func (t Trace) Flatten() []float64 {
	n := 0
	for _, s := range t.Strokes {
		n += len(s)
	}
	out := make([]float64, 0, n*2)
	for _, s := range t.Strokes {
		for _, p := range s {
			out = append(out, p.X, p.Y)
		}
	}
	return out
}

// PointCount returns the number of points across all strokes.
func (t Trace) PointCount() int {
	n := 0
	for _, s := range t.Strokes {
		n += len(s)
	}
	return n
}

// Scorer scores a flattened trace against reference points.
type Scorer interface {
	Score(traced, reference []float64) float64
}

// Result is the outcome of a scored submission.
type Result struct {
	IsCorrect bool
	Score     float64
	Points    int
}

// Session owns the trace and gesture state for one glyph attempt.
type Session struct {
	Width       float64
	Height      float64
	EraseRadius float64

	trace   Trace
	erasing bool
	active  bool
}

// NewSession returns a session on the canonical 400x400 surface.
func NewSession() *Session {
	return &Session{
		Width:       SurfaceWidth,
		Height:      SurfaceHeight,
		EraseRadius: EraseRadius,
	}
}

// State returns the current gesture state.
func (s *Session) State() State {
	switch {
	case s.erasing && s.active:
		return ErasingActive
	case s.erasing:
		return ErasingIdle
	case s.active:
		return Drawing
	default:
		return Idle
	}
}

// Erasing reports whether the session is in erase mode.
func (s *Session) Erasing() bool {
	return s.erasing
}

// Trace returns a copy of the current trace. Later drawing or erasing does
// not change it.
func (s *Session) Trace() Trace {
	out := Trace{Strokes: make([]Stroke, len(s.trace.Strokes))}
	for i, stroke := range s.trace.Strokes {
		out.Strokes[i] = append(Stroke(nil), stroke...)
	}
	return out
}

// ToggleErase flips between draw and erase mode. A gesture in progress is
// ended first so a single drag never mixes drawing and erasing.
func (s *Session) ToggleErase() {
	s.active = false
	s.erasing = !s.erasing
}

// InBounds reports whether p lies on the drawing surface, edges included.
func (s *Session) InBounds(p Point) bool {
	return p.X >= 0 && p.X <= s.Width && p.Y >= 0 && p.Y <= s.Height
}

// PointerDown starts a stroke in draw mode or an erase gesture in erase mode.
// Presses outside the surface are ignored.
func (s *Session) PointerDown(p Point) {
	if !s.InBounds(p) {
		return
	}
	s.active = true
	if s.erasing {
		return
	}
	s.trace.Strokes = append(s.trace.Strokes, Stroke{p})
}

// PointerMove extends the active stroke or erases around p. Moves outside
// the surface or without a pressed pointer are ignored.
func (s *Session) PointerMove(p Point) {
	if !s.active || !s.InBounds(p) {
		return
	}
	if s.erasing {
		s.eraseAt(p)
		return
	}
	last := len(s.trace.Strokes) - 1
	if last < 0 {
		return
	}
	s.trace.Strokes[last] = append(s.trace.Strokes[last], p)
}

// PointerUp ends the current gesture.
func (s *Session) PointerUp() {
	s.active = false
}

// eraseAt removes every point closer than EraseRadius to p and drops
// strokes that end up empty.
func (s *Session) eraseAt(p Point) {
	kept := s.trace.Strokes[:0]
	for _, stroke := range s.trace.Strokes {
		filtered := stroke[:0]
		for _, q := range stroke {
			if math.Hypot(p.X-q.X, p.Y-q.Y) >= s.EraseRadius {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			kept = append(kept, filtered)
		}
	}
	for i := len(kept); i < len(s.trace.Strokes); i++ {
		s.trace.Strokes[i] = nil
	}
	s.trace.Strokes = kept
}

// Clear discards the trace and ends any gesture. The mode is kept.
func (s *Session) Clear() {
	s.trace = Trace{}
	s.active = false
}

// Submit scores the trace against reference and resets the session for the
// next attempt. An empty trace returns ErrNothingDrawn without calling scorer
// and leaves the session untouched.
func (s *Session) Submit(scorer Scorer, reference []float64, threshold float64) (Result, error) {
	if len(s.trace.Strokes) == 0 {
		return Result{}, ErrNothingDrawn
	}
	traced := s.trace.Flatten()
	score := scorer.Score(traced, reference)
	s.Clear()
	return Result{
		IsCorrect: score >= threshold,
		Score:     score,
		Points:    len(traced) / 2,
	}, nil
}
