package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/teeline/internal/model"
)

func sampleAttempts() []model.Attempt {
	return []model.Attempt{
		{Glyph: "a", Level: "beginner", Threshold: 0.5, Score: 0.4, Passed: false},
		{Glyph: "b", Level: "advanced", Threshold: 0.65, Score: 0.9, Passed: true},
		{Glyph: "a", Level: "beginner", Threshold: 0.5, Score: 0.7, Passed: true},
		{Glyph: "c", Level: "beginner", Threshold: 0.5, Score: 0.2, Passed: false},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleAttempts())
	if s.Attempts != 4 || s.Passed != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if math.Abs(s.PassRate-0.5) > 1e-9 || math.Abs(s.AvgScore-0.55) > 1e-9 || s.BestScore != 0.9 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if empty := Summarize(nil); empty.Attempts != 0 || empty.PassRate != 0 {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleAttempts()); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Attempts: 4",
		"Passed: 2 (50.0%)",
		"Avg Score: 55.0%",
		"Best Score: 90.0%",
		"beginner (50%): 1/3 passed",
		"advanced (65%): 1/1 passed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	buf.Reset()
	if err := RenderSummary(&buf, nil); err != nil || !strings.Contains(buf.String(), "No attempts") {
		t.Fatalf("expected empty notice, got %q %v", buf.String(), err)
	}
}

func TestTallyLevels(t *testing.T) {
	got := TallyLevels(sampleAttempts())
	if len(got) != 2 {
		t.Fatalf("expected 2 levels, got %+v", got)
	}
	if got[0].Level != "beginner" || got[0].Attempts != 3 || got[0].Passed != 1 {
		t.Fatalf("unexpected beginner tally %+v", got[0])
	}
	if got[1].Level != "advanced" || got[1].Attempts != 1 || got[1].Passed != 1 {
		t.Fatalf("unexpected advanced tally %+v", got[1])
	}
}

func TestGlyphRows(t *testing.T) {
	piles := model.PileSet{Mastered: []string{"b", "z"}, NeedsWork: []string{"a", "c"}}
	rows := GlyphRows(sampleAttempts(), piles)
	var order []string
	for _, r := range rows {
		order = append(order, r.Glyph)
	}
	if strings.Join(order, ",") != "c,a,b,z" {
		t.Fatalf("expected weakest first and unpracticed last, got %v", order)
	}
	a := rows[1]
	if a.Attempts != 2 || a.Passed != 1 || math.Abs(a.AvgScore-0.55) > 1e-9 || a.Best != 0.7 {
		t.Fatalf("unexpected row for a: %+v", a)
	}
	if a.Level != "beginner" || a.Pile != model.NeedsWork || len(a.Recent) != 2 {
		t.Fatalf("unexpected level, pile or trend for a: %+v", a)
	}
	if rows[2].Level != "advanced" || rows[0].Level != "" {
		t.Fatalf("expected hardest passed level, got %q and %q", rows[2].Level, rows[0].Level)
	}
	cells := rows[3].Cells()
	if cells[1] != "mastered" || cells[2] != "-" || cells[6] != "0" {
		t.Fatalf("unexpected cells for a pile-only glyph: %v", cells)
	}
}

func TestGlyphRowsKeepsRecentScores(t *testing.T) {
	var attempts []model.Attempt
	for i := 0; i < RecentScores+3; i++ {
		attempts = append(attempts, model.Attempt{Glyph: "o", Score: float64(i) / 20})
	}
	rows := GlyphRows(attempts, model.PileSet{})
	recent := rows[0].Recent
	if len(recent) != RecentScores || recent[0] != 3.0/20 || recent[len(recent)-1] != float64(RecentScores+2)/20 {
		t.Fatalf("expected the latest %d scores, got %v", RecentScores, recent)
	}
}

func TestRenderGlyphTable(t *testing.T) {
	var buf bytes.Buffer
	piles := model.PileSet{Mastered: []string{"b"}, NeedsWork: []string{"a", "c"}}
	if err := RenderGlyphTable(&buf, GlyphRows(sampleAttempts(), piles)); err != nil {
		t.Fatalf("render table: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Per-Glyph\n") {
		t.Fatalf("expected title first, got %q", out)
	}
	rowIndex := map[string]int{}
	for i, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			if _, seen := rowIndex[fields[0]]; !seen {
				rowIndex[fields[0]] = i
			}
		}
	}
	for _, header := range []string{"Glyph", "c", "a", "b"} {
		if _, ok := rowIndex[header]; !ok {
			t.Fatalf("expected a line starting with %q in %q", header, out)
		}
	}
	if !(rowIndex["Glyph"] < rowIndex["c"] && rowIndex["c"] < rowIndex["a"] && rowIndex["a"] < rowIndex["b"]) {
		t.Fatalf("expected header then weakest first, got %v", rowIndex)
	}
	for _, want := range []string{"Level", "Trend", "advanced", "needs-work", "100.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	buf.Reset()
	if err := RenderGlyphTable(&buf, nil); err != nil || !strings.Contains(buf.String(), "No glyph stats") {
		t.Fatalf("expected empty notice, got %q %v", buf.String(), err)
	}
}

func TestRenderCurvesMarksOutcomes(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCurves(&buf, sampleAttempts(), 1, 40, 4, false); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Learning Curves", " 50% ┤", "beginner 50%, advanced 65%", "╍╍ Pass Rate"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	var outcome string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, " p/f") {
			outcome = strings.TrimSpace(strings.TrimPrefix(line, " p/f │"))
		}
	}
	if strings.Join(strings.Fields(outcome), "") != "x++x" {
		t.Fatalf("expected one marker per attempt in order, got %q", outcome)
	}
}
