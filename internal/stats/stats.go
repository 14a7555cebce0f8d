// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/teeline/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary holds headline numbers over a list of attempts.
type Summary struct {
	Attempts  int
	Passed    int
	PassRate  float64
	AvgScore  float64
	BestScore float64
}

// Summarize computes headline numbers for attempts.
func Summarize(attempts []model.Attempt) Summary {
	var s Summary
	if len(attempts) == 0 {
		return s
	}
	var total float64
	for _, a := range attempts {
		s.Attempts++
		if a.Passed {
			s.Passed++
		}
		total += a.Score
		if a.Score > s.BestScore {
			s.BestScore = a.Score
		}
	}
	s.PassRate = float64(s.Passed) / float64(s.Attempts)
	s.AvgScore = total / float64(s.Attempts)
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for attempts.
func RenderSummary(w io.Writer, attempts []model.Attempt) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	s := Summarize(attempts)
	scores := make([]float64, len(attempts))
	for i, a := range attempts {
		scores[i] = a.Score
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", s.Attempts),
		fmt.Sprintf("Passed: %d (%.1f%%)", s.Passed, s.PassRate*100),
		fmt.Sprintf("Avg Score: %.1f%%", s.AvgScore*100),
		fmt.Sprintf("Best Score: %.1f%%", s.BestScore*100),
		fmt.Sprintf("Scores: %s", Sparkline(scores)),
	}
	for _, t := range TallyLevels(attempts) {
		lines = append(lines, fmt.Sprintf("  %s (%.0f%%): %d/%d passed", levelName(t.Level), t.Threshold*100, t.Passed, t.Attempts))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves plots moving-average score and pass-rate curves against the
// thresholds of every level practiced, with each attempt's outcome under
// the plot. A zero totalWidth fits the terminal.
func RenderCurves(w io.Writer, attempts []model.Attempt, window, totalWidth, height int, useColor bool) error {
	if len(attempts) == 0 {
		return nil
	}
	scores := make([]float64, len(attempts))
	passes := make([]float64, len(attempts))
	outcomes := make([]bool, len(attempts))
	for i, a := range attempts {
		scores[i] = a.Score
		outcomes[i] = a.Passed
		if a.Passed {
			passes[i] = 1
		}
	}
	chart := Chart{
		Title: "Learning Curves",
		Series: []Series{
			{Name: "Score", Values: MovingAverage(scores, window)},
			{Name: "Pass Rate", Values: MovingAverage(passes, window), Dash: true},
		},
		Thresholds: LevelThresholds(attempts),
		Outcomes:   outcomes,
		Height:     height,
		Color:      useColor,
	}
	if totalWidth > 0 {
		chart.Width = PlotWidthFor(totalWidth)
	}
	return chart.Render(w)
}

func levelName(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}

// LevelTally counts attempts made at one level.
type LevelTally struct {
	Level     string
	Threshold float64
	Attempts  int
	Passed    int
}

// TallyLevels groups attempts by level, easiest first.
func TallyLevels(attempts []model.Attempt) []LevelTally {
	byLevel := map[string]*LevelTally{}
	for _, a := range attempts {
		t, ok := byLevel[a.Level]
		if !ok {
			t = &LevelTally{Level: a.Level, Threshold: a.Threshold}
			byLevel[a.Level] = t
		}
		t.Attempts++
		if a.Passed {
			t.Passed++
		}
	}
	out := make([]LevelTally, 0, len(byLevel))
	for _, t := range byLevel {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Threshold == out[j].Threshold {
			return out[i].Level < out[j].Level
		}
		return out[i].Threshold < out[j].Threshold
	})
	return out
}

func avgScore(agg model.GlyphAggregate) float64 {
	if agg.Attempts == 0 {
		return 0
	}
	return agg.ScoreSum / float64(agg.Attempts)
}
