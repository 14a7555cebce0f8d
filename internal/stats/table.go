package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/verte-zerg/teeline/internal/model"
)

// RecentScores is how many of a glyph's latest scores its trend shows.
const RecentScores = 8

// GlyphHeaders are the per-glyph table columns, matching GlyphRow.Cells.
var GlyphHeaders = []string{"Glyph", "Pile", "Pass Rate", "Avg Score", "Best", "Level", "Tries", "Trend"}

// GlyphRow is one glyph's line in the per-glyph table.
type GlyphRow struct {
	Glyph    string
	Pile     model.Pile
	Attempts int
	Passed   int
	AvgScore float64
	Best     float64
	// Level is the hardest level the glyph has passed, empty if none.
	Level string
	// Recent holds the latest scores, oldest first.
	Recent []float64
}

// PassRate returns the share of passed attempts.
func (r GlyphRow) PassRate() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Attempts)
}

// Cells formats the row for display.
func (r GlyphRow) Cells() []string {
	pile, level := string(r.Pile), r.Level
	if pile == "" {
		pile = "-"
	}
	if level == "" {
		level = "-"
	}
	if r.Attempts == 0 {
		return []string{r.Glyph, pile, "-", "-", "-", level, "0", ""}
	}
	return []string{
		r.Glyph,
		pile,
		fmt.Sprintf("%.1f%%", r.PassRate()*100),
		fmt.Sprintf("%.1f%%", r.AvgScore*100),
		fmt.Sprintf("%.1f%%", r.Best*100),
		level,
		fmt.Sprintf("%d", r.Attempts),
		Sparkline(r.Recent),
	}
}

// GlyphRows builds one row per glyph seen in attempts or piles, weakest
// first: lowest pass rate, then lowest average score. Glyphs that sit in a
// pile without attempts come last.
func GlyphRows(attempts []model.Attempt, piles model.PileSet) []GlyphRow {
	byGlyph := map[string]*GlyphRow{}
	hardest := map[string]float64{}
	row := func(glyph string) *GlyphRow {
		r, ok := byGlyph[glyph]
		if !ok {
			r = &GlyphRow{Glyph: glyph}
			byGlyph[glyph] = r
		}
		return r
	}
	for _, a := range attempts {
		r := row(a.Glyph)
		r.Attempts++
		r.AvgScore += a.Score
		if a.Score > r.Best {
			r.Best = a.Score
		}
		r.Recent = append(r.Recent, a.Score)
		if len(r.Recent) > RecentScores {
			r.Recent = r.Recent[1:]
		}
		if !a.Passed {
			continue
		}
		r.Passed++
		if th, ok := hardest[a.Glyph]; !ok || a.Threshold > th {
			hardest[a.Glyph] = a.Threshold
			r.Level = a.Level
		}
	}
	for _, g := range piles.Mastered {
		row(g).Pile = model.Mastered
	}
	for _, g := range piles.NeedsWork {
		row(g).Pile = model.NeedsWork
	}

	out := make([]GlyphRow, 0, len(byGlyph))
	for _, r := range byGlyph {
		if r.Attempts > 0 {
			r.AvgScore /= float64(r.Attempts)
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Attempts == 0) != (b.Attempts == 0) {
			return b.Attempts == 0
		}
		if a.PassRate() != b.PassRate() {
			return a.PassRate() < b.PassRate()
		}
		if a.AvgScore != b.AvgScore {
			return a.AvgScore < b.AvgScore
		}
		return a.Glyph < b.Glyph
	})
	return out
}

var numericColumns = map[int]bool{2: true, 3: true, 4: true, 6: true}

// RenderGlyphTable prints the per-glyph table.
func RenderGlyphTable(w io.Writer, rows []GlyphRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No glyph stats found.")
		return err
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells()
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Headers(GlyphHeaders...).
		Rows(cells...).
		StyleFunc(func(_, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(2)
			if numericColumns[col] {
				return style.Align(lipgloss.Right)
			}
			return style
		})
	_, err := fmt.Fprintf(w, "Per-Glyph\n%s\n\n", t.Render())
	return err
}
