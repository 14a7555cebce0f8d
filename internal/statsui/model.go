// Package statsui provides the interactive stats browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/teeline/internal/model"
	"github.com/verte-zerg/teeline/internal/stats"
	"github.com/verte-zerg/teeline/internal/store"
)

type tab int

const (
	overviewTab tab = iota
	glyphsTab
	pilesTab
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Glyphs", "Piles"}

const (
	chartHeight  = 10
	levelBarSize = 20
	defaultWidth = 80
)

var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	activeTabStyle = tabStyle.Foreground(lipgloss.Color("#F0F0F0")).
			Background(lipgloss.Color("#3A3A3A")).
			Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string
	status string

	active   tab
	overview viewport.Model
	piles    viewport.Model
	glyphs   table.Model
	detail   bool

	form *settingsForm

	width  int
	height int
}

// NewModel loads the report for cfg and returns the browser on its
// overview tab.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store:    st,
		cfg:      cfg,
		overview: viewport.New(0, 0),
		piles:    viewport.New(0, 0),
		glyphs:   newGlyphTable(),
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.renderContent()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc", "enter", "backspace":
			m.detail = false
		}
		return m, nil
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "right", "l":
		m.switchTab(1)
		return m, nil
	case "shift+tab", "left", "h":
		m.switchTab(-1)
		return m, nil
	case "+", "=":
		m.cfg.CurveWindow = stepWindow(m.cfg.CurveWindow, 1)
		m.renderContent()
		return m, nil
	case "-":
		m.cfg.CurveWindow = stepWindow(m.cfg.CurveWindow, -1)
		m.renderContent()
		return m, nil
	case "/":
		m.form = newSettingsForm(m.cfg)
		m.status = ""
		return m, m.form.focus(0)
	}
	if m.active == glyphsTab {
		return m.handleGlyphKey(msg)
	}
	vp := m.activeViewport()
	var cmd tea.Cmd
	*vp, cmd = vp.Update(msg)
	return m, cmd
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.form = nil
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.form.config()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form = nil
		m.cfg = cfg
		m.reload()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.form.focus(m.form.focused + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.form.focus(m.form.focused - 1)
	}
	return m, m.form.update(msg)
}

func (m *Model) switchTab(delta int) {
	m.active = tab((int(m.active) + delta + int(tabCount)) % int(tabCount))
}

func (m *Model) activeViewport() *viewport.Model {
	if m.active == pilesTab {
		return &m.piles
	}
	return &m.overview
}

// reload rebuilds the report from the store and redraws every tab.
func (m *Model) reload() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	m.glyphs.SetRows(glyphTableRows(m.report.Glyphs))
	if m.glyphs.Cursor() >= len(m.report.Glyphs) {
		m.glyphs.SetCursor(0)
	}
	m.renderContent()
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) renderContent() {
	width := m.contentWidth()
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load stats.")
		m.piles.SetContent("Failed to load stats.")
		return
	}
	m.overview.SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
	m.piles.SetContent(renderPiles(m.report, width))
}

func (m *Model) resize() {
	body := m.bodyHeight()
	m.overview.Width, m.overview.Height = m.width, body
	m.piles.Width, m.piles.Height = m.width, body
	m.glyphs.SetWidth(m.width)
	m.glyphs.SetHeight(body)
}

func (m *Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderFooter())
	if h < 1 {
		return 1
	}
	return h
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	height := m.bodyHeight()
	body := lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		MaxHeight(height).
		MaxWidth(m.width).
		Render(m.renderBody())
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m *Model) renderBody() string {
	switch {
	case m.form != nil:
		return m.form.view()
	case m.active == glyphsTab && m.detail:
		return m.renderGlyphDetail()
	case m.active == glyphsTab && len(m.report.Glyphs) == 0:
		return "No attempts found."
	case m.active == glyphsTab:
		return m.glyphs.View()
	default:
		return m.activeViewport().View()
	}
}

func (m *Model) renderHeader() string {
	names := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.active {
			names = append(names, activeTabStyle.Render(name))
		} else {
			names = append(names, tabStyle.Render(name))
		}
	}
	tabs := strings.Join(names, mutedStyle.Render("│"))
	return tabs + "\n" + mutedStyle.Render(clip(m.filterLine(), m.contentWidth()))
}

func (m *Model) filterLine() string {
	profile, since, last := "all", "any", "all"
	if p := strings.TrimSpace(m.cfg.Profile); p != "" {
		profile = p
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Profile %s · since %s · last %s · window %d", profile, since, last, m.cfg.CurveWindow)
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.form != nil:
		help = "tab/↓: next field  shift+tab/↑: previous  enter: apply  esc: cancel"
	case m.detail:
		help = "esc/enter: back to glyphs  q: quit"
	case m.active == glyphsTab:
		help = "↑/↓: select  m: move pile  enter: trend  tab: next view  /: filter  q: quit"
	default:
		help = "tab: next view  ↑/↓: scroll  -/+: curve window  /: filter  q: quit"
	}
	lines := []string{mutedStyle.Render(clip(help, m.contentWidth()))}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(clip(m.errMsg, m.contentWidth())))
	} else if m.status != "" {
		lines = append(lines, statusStyle.Render(clip(m.status, m.contentWidth())))
	}
	return strings.Join(lines, "\n")
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Attempts) == 0 {
		return "No attempts found."
	}
	s := stats.Summarize(report.Attempts)
	headline := strings.Join([]string{
		"Attempts " + valueStyle.Render(strconv.Itoa(s.Attempts)),
		"Passed " + valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", s.Passed, s.PassRate*100)),
		"Avg " + valueStyle.Render(fmt.Sprintf("%.1f%%", s.AvgScore*100)),
		"Best " + valueStyle.Render(fmt.Sprintf("%.1f%%", s.BestScore*100)),
	}, mutedStyle.Render("  ·  "))

	lines := []string{headline, "", titleStyle.Render("Levels")}
	for _, t := range report.Levels {
		lines = append(lines, levelBar(t))
	}

	var chart bytes.Buffer
	if err := stats.RenderCurves(&chart, report.Attempts, window, width, chartHeight, true); err != nil {
		lines = append(lines, "", fmt.Sprintf("Failed to render curves: %v", err))
	} else {
		lines = append(lines, "", strings.TrimRight(chart.String(), "\n"))
	}
	return strings.Join(lines, "\n")
}

// levelBar shows a level's pass share as a filled bar.
func levelBar(t stats.LevelTally) string {
	filled := 0
	if t.Attempts > 0 {
		filled = t.Passed * levelBarSize / t.Attempts
	}
	bar := statusStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", levelBarSize-filled))
	name := t.Level
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("%-13s %3.0f%%  %s  %d/%d passed", name, t.Threshold*100, bar, t.Passed, t.Attempts)
}

// clip shortens s to width cells.
func clip(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
