package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/teeline/internal/stats"
)

const pileColumnWidth = 34

var pileBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#5A5A5A")).
	Padding(0, 1).
	Width(pileColumnWidth)

// renderPiles lays out the two piles as columns, each glyph with its pass
// rate. The columns stack when width is too narrow for both.
func renderPiles(report stats.Report, width int) string {
	rows := make(map[string]stats.GlyphRow, len(report.Glyphs))
	for _, r := range report.Glyphs {
		rows[r.Glyph] = r
	}
	mastered := pileColumn("Mastered", report.Piles.Mastered, rows)
	needsWork := pileColumn("Needs work", report.Piles.NeedsWork, rows)
	if width < 2*lipgloss.Width(mastered) {
		return lipgloss.JoinVertical(lipgloss.Left, mastered, needsWork)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, mastered, " ", needsWork)
}

func pileColumn(title string, glyphs []string, rows map[string]stats.GlyphRow) string {
	lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", title, len(glyphs)))}
	if len(glyphs) == 0 {
		lines = append(lines, mutedStyle.Render("(empty)"))
	}
	for _, g := range glyphs {
		lines = append(lines, pileEntry(g, rows[g]))
	}
	return pileBoxStyle.Render(strings.Join(lines, "\n"))
}

func pileEntry(glyph string, r stats.GlyphRow) string {
	if r.Attempts == 0 {
		return fmt.Sprintf("%-12s %s", glyph, mutedStyle.Render("no tries"))
	}
	return fmt.Sprintf("%-12s %5.1f%% %s", glyph, r.PassRate()*100, stats.Sparkline(r.Recent))
}
