// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Level is a difficulty tier with its accuracy threshold.
type Level struct {
	Name      string
	Threshold float64
}

// Difficulty tiers.
var (
	Beginner     = Level{Name: "beginner", Threshold: 0.50}
	Intermediate = Level{Name: "intermediate", Threshold: 0.60}
	Advanced     = Level{Name: "advanced", Threshold: 0.65}
)

// Levels lists the tiers from easiest to hardest.
var Levels = []Level{Beginner, Intermediate, Advanced}

// ParseLevel resolves a tier by name.
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, l := range Levels {
		if l.Name == name {
			return l, nil
		}
	}
	return Level{}, fmt.Errorf("unknown level %q (expected beginner, intermediate, or advanced)", name)
}

// Pile is the bucket a glyph lands in after a scored attempt.
type Pile string

// Piles.
const (
	Mastered  Pile = "mastered"
	NeedsWork Pile = "needs-work"
)

// PileFor returns the pile for a pass/fail outcome.
func PileFor(passed bool) Pile {
	if passed {
		return Mastered
	}
	return NeedsWork
}

// Config defines practice settings.
type Config struct {
	Profile     string
	Level       Level
	GlyphDir    string
	Lesson      string
	StrictPaths bool
	FocusWeak   bool
	WeakTop     int
	WeakFactor  float64
	WeakWindow  int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Profile     string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Attempt captures one scored tracing submission.
type Attempt struct {
	ID        int64
	Profile   string
	Glyph     string
	Level     string
	Threshold float64
	Score     float64
	Passed    bool
	Points    int
	CreatedAt time.Time
}

// PileSet holds the glyphs in each pile for a profile.
type PileSet struct {
	Mastered  []string
	NeedsWork []string
}

// GlyphAggregate aggregates attempts for one glyph.
type GlyphAggregate struct {
	Glyph     string
	Attempts  int
	Passed    int
	ScoreSum  float64
	BestScore float64
}
