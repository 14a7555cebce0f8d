package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/teeline/internal/model"
	"github.com/verte-zerg/teeline/internal/stats"
)

const detailChartHeight = 6

// glyphColumnWidths follows stats.GlyphHeaders.
var glyphColumnWidths = []int{8, 11, 10, 10, 8, 13, 6, stats.RecentScores + 1}

func newGlyphTable() table.Model {
	cols := make([]table.Column, len(stats.GlyphHeaders))
	for i, title := range stats.GlyphHeaders {
		cols[i] = table.Column{Title: title, Width: glyphColumnWidths[i]}
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#5A5A5A"))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A"))
	return table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
}

func glyphTableRows(rows []stats.GlyphRow) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Cells()
	}
	return out
}

func (m *Model) handleGlyphKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "m":
		m.togglePile()
		return m, nil
	case "enter":
		if _, ok := m.selectedGlyph(); ok {
			m.detail = true
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.glyphs, cmd = m.glyphs.Update(msg)
	return m, cmd
}

func (m *Model) selectedGlyph() (stats.GlyphRow, bool) {
	i := m.glyphs.Cursor()
	if i < 0 || i >= len(m.report.Glyphs) {
		return stats.GlyphRow{}, false
	}
	return m.report.Glyphs[i], true
}

// togglePile moves the selected glyph to the other pile. Glyphs outside
// both piles go to mastered.
func (m *Model) togglePile() {
	row, ok := m.selectedGlyph()
	if !ok {
		return
	}
	profile := strings.TrimSpace(m.cfg.Profile)
	if profile == "" {
		m.status = "Piles belong to a profile; set one with / to move glyphs."
		return
	}
	target := model.Mastered
	if row.Pile == model.Mastered {
		target = model.NeedsWork
	}
	if _, err := m.store.SetPile(context.Background(), profile, row.Glyph, target); err != nil {
		m.errMsg = fmt.Sprintf("failed to move %s: %v", row.Glyph, err)
		return
	}
	m.status = fmt.Sprintf("Moved %s to %s.", row.Glyph, target)
	m.reload()
	for i, r := range m.report.Glyphs {
		if r.Glyph == row.Glyph {
			m.glyphs.SetCursor(i)
			break
		}
	}
}

// renderGlyphDetail charts the selected glyph's recent scores against the
// level thresholds.
func (m *Model) renderGlyphDetail() string {
	row, ok := m.selectedGlyph()
	if !ok {
		return "No glyph selected."
	}
	pile := string(row.Pile)
	if pile == "" {
		pile = "no pile"
	}
	head := fmt.Sprintf("%s  %s", titleStyle.Render(row.Glyph), mutedStyle.Render(pile))
	if row.Attempts == 0 {
		return head + "\n\nNo attempts in this range."
	}
	facts := fmt.Sprintf("%d/%d passed · avg %.1f%% · best %.1f%%",
		row.Passed, row.Attempts, row.AvgScore*100, row.Best*100)
	if row.Level != "" {
		facts += " · cleared " + row.Level
	}

	var buf bytes.Buffer
	chart := stats.Chart{
		Title:      "Recent scores",
		Series:     []stats.Series{{Name: row.Glyph, Values: row.Recent}},
		Thresholds: stats.LevelThresholds(m.report.Attempts),
		Width:      stats.PlotWidthFor(m.contentWidth()),
		Height:     detailChartHeight,
		Color:      true,
	}
	if err := chart.Render(&buf); err != nil {
		return fmt.Sprintf("%s\n\nFailed to render scores: %v", head, err)
	}
	return strings.Join([]string{head, facts, "", strings.TrimRight(buf.String(), "\n")}, "\n")
}
