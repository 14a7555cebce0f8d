package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/teeline/internal/braille"
	"github.com/verte-zerg/teeline/internal/model"
)

func renderChart(t *testing.T, c Chart) []string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatalf("render chart: %v", err)
	}
	return strings.Split(buf.String(), "\n")
}

func TestChartThresholdGuide(t *testing.T) {
	lines := renderChart(t, Chart{
		Title:      "Scores",
		Series:     []Series{{Name: "Score", Values: []float64{1, 1, 1}}},
		Thresholds: []Threshold{{Name: "beginner", Value: 0.5}},
		Width:      10,
		Height:     4,
	})
	if lines[0] != "Scores" {
		t.Fatalf("expected title first, got %q", lines[0])
	}
	wantPrefixes := []string{"100% ┤", "     │", " 50% ┤", "  0% ┤"}
	for i, want := range wantPrefixes {
		if !strings.HasPrefix(lines[i+1], want) {
			t.Fatalf("row %d: expected prefix %q, got %q", i, want, lines[i+1])
		}
	}
	blank := string(braille.FromMask(0))
	if plot := strings.TrimPrefix(lines[2], wantPrefixes[1]); plot != strings.Repeat(blank, 10) {
		t.Fatalf("expected empty row between curve and guide, got %q", plot)
	}
	if plot := strings.TrimPrefix(lines[3], wantPrefixes[2]); !strings.ContainsFunc(plot, func(r rune) bool { return r != []rune(blank)[0] }) {
		t.Fatalf("expected dotted guide on the threshold row, got %q", plot)
	}
	legend := lines[5]
	if !strings.Contains(legend, "━━ Score") || !strings.Contains(legend, "beginner 50%") {
		t.Fatalf("unexpected legend %q", legend)
	}
}

func TestChartOutcomeRow(t *testing.T) {
	lines := renderChart(t, Chart{
		Series:   []Series{{Name: "Score", Values: []float64{0.7, 0.2, 0.9}}},
		Outcomes: []bool{true, false, true},
		Width:    10,
		Height:   2,
	})
	if lines[2] != " p/f │+   x    +" {
		t.Fatalf("unexpected outcome row %q", lines[2])
	}

	many := make([]bool, 20)
	for i := range many {
		many[i] = i%2 == 0
	}
	lines = renderChart(t, Chart{
		Series:   []Series{{Name: "Score", Values: []float64{0.5}}},
		Outcomes: many,
		Width:    10,
		Height:   2,
	})
	if lines[2] != " p/f │"+strings.Repeat("~", 10) {
		t.Fatalf("expected mixed columns, got %q", lines[2])
	}
}

func TestChartSkipsEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	c := Chart{Title: "Empty", Series: []Series{{Name: "Score"}}, Width: 10, Height: 4}
	if err := c.Render(&buf); err != nil {
		t.Fatalf("render chart: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 74 {
		t.Fatalf("expected 74 columns beside the axis, got %d", got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("expected minimum width, got %d", got)
	}
}

func TestBucketMeans(t *testing.T) {
	got := bucketMeans([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || math.Abs(got[0]-2) > 1e-9 || math.Abs(got[1]-6) > 1e-9 {
		t.Fatalf("unexpected buckets %v", got)
	}
	if got := bucketMeans([]float64{1, 2}, 5); len(got) != 2 {
		t.Fatalf("expected short input unchanged, got %v", got)
	}
}

func TestLevelThresholds(t *testing.T) {
	got := LevelThresholds([]model.Attempt{
		{Level: model.Advanced.Name, Threshold: model.Advanced.Threshold},
		{Level: model.Beginner.Name, Threshold: model.Beginner.Threshold},
		{Level: model.Advanced.Name, Threshold: model.Advanced.Threshold},
	})
	if len(got) != 2 || got[0].Name != "beginner" || got[1].Name != "advanced" {
		t.Fatalf("unexpected thresholds %+v", got)
	}
}
