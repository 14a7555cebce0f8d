// Package tui provides the Bubble Tea tracing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/teeline/internal/capture"
	"github.com/verte-zerg/teeline/internal/glyph"
	"github.com/verte-zerg/teeline/internal/model"
	"github.com/verte-zerg/teeline/internal/picker"
	"github.com/verte-zerg/teeline/internal/shape"
	statsPkg "github.com/verte-zerg/teeline/internal/stats"
	"github.com/verte-zerg/teeline/internal/store"
)

const (
	headerLines   = 1
	footerLines   = 4
	defaultWidth  = 80
	defaultHeight = 24
)

const (
	nothingDrawnMsg = "Please draw something on the canvas before submitting!"
	allWrongMsg     = "Every glyph but one needs work. Slow down and follow the dotted guide."
	helpLine        = "drag: draw  e: erase  enter: submit  c: clear  n: next  1/2/3: level  ctrl+c: quit"
)

// Model implements the Bubble Tea tracing UI.
type Model struct {
	config  model.Config
	store   *store.Store
	glyphs  *glyph.Set
	ids     []string
	picker  *picker.Picker
	scorer  *shape.Scorer
	logger  zerolog.Logger
	weakSet map[string]struct{}

	session   *capture.Session
	current   string
	reference []float64
	guide     [][]capture.Point

	piles    model.PileSet
	feedback string
	passed   bool
	notice   string

	width  int
	height int
}

var (
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	guideStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	inkStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	eraseInkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	passStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	failStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	canvasBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs a tracing TUI model over ids, which must all resolve in
// glyphs.
func NewModel(cfg model.Config, st *store.Store, glyphs *glyph.Set, ids []string, pick *picker.Picker, scorer *shape.Scorer, logger zerolog.Logger, weakSet map[string]struct{}) (*Model, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no glyphs to practice")
	}
	if weakSet == nil {
		weakSet = map[string]struct{}{}
	}
	m := &Model{
		config:  cfg,
		store:   st,
		glyphs:  glyphs,
		ids:     ids,
		picker:  pick,
		scorer:  scorer,
		logger:  logger,
		weakSet: weakSet,
		session: capture.NewSession(),
	}
	if err := m.selectGlyph(ids[0]); err != nil {
		return nil, err
	}
	m.loadPiles()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "e":
			m.session.ToggleErase()
		case "enter":
			m.submit()
		case "c":
			m.session.Clear()
			m.feedback = ""
		case "n":
			m.nextGlyph()
		case "1", "2", "3":
			m.config.Level = model.Levels[int(msg.String()[0]-'1')]
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	width, height := m.size()
	r := m.canvas()

	lines := []string{m.renderTitle(width)}
	pad := strings.Repeat(" ", r.left-1)
	box := renderCanvas(r, m.guide, m.session.Trace().Strokes, m.session.Erasing())
	for _, line := range strings.Split(box, "\n") {
		lines = append(lines, pad+line)
	}
	lines = append(lines,
		center(m.renderFeedback(), width),
		center(noticeStyle.Render(m.notice), width),
		center(footerStyle.Render(truncate(helpLine, width)), width),
		center(m.renderFooter(width), width),
	)
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) size() (int, int) {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

func (m *Model) canvas() rect {
	width, height := m.size()
	return canvasRect(width, height, headerLines, footerLines)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := toSurface(m.canvas(), msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.session.PointerDown(p)
		}
	case tea.MouseActionMotion:
		m.session.PointerMove(p)
	case tea.MouseActionRelease:
		m.session.PointerUp()
	}
}

func (m *Model) selectGlyph(id string) error {
	d, err := m.glyphs.Lookup(id)
	if err != nil {
		return fmt.Errorf("failed to load glyph %q: %w", id, err)
	}
	mode := glyph.Loose
	if m.config.StrictPaths {
		mode = glyph.Strict
	}
	m.current = id
	m.reference = glyph.Extract(d, mode)
	m.guide = fitGuide(glyph.Subpaths(glyph.Tokenize(d, mode)))
	m.session.Clear()
	m.feedback = ""
	return nil
}

func (m *Model) nextGlyph() {
	next := picker.Next(m.ids, m.current)
	if m.config.FocusWeak && len(m.weakSet) > 0 && m.picker != nil {
		next = m.picker.Weighted(m.ids, m.current, m.weakSet, m.config.WeakFactor)
	}
	if err := m.selectGlyph(next); err != nil {
		m.logger.Error().Err(err).Str("glyph", next).Msg("select glyph")
		m.feedback = err.Error()
		m.passed = false
	}
}

func (m *Model) submit() {
	level := m.config.Level
	result, err := m.session.Submit(m.scorer, m.reference, level.Threshold)
	if errors.Is(err, capture.ErrNothingDrawn) {
		m.feedback = nothingDrawnMsg
		m.passed = false
		return
	}
	if err != nil {
		m.logger.Error().Err(err).Msg("submit trace")
		m.feedback = err.Error()
		m.passed = false
		return
	}
	m.passed = result.IsCorrect
	if result.IsCorrect {
		m.feedback = fmt.Sprintf("Great job! Similarity: %.2f%%", result.Score*100)
	} else {
		m.feedback = fmt.Sprintf("Keep practicing! Similarity: %.2f%%", result.Score*100)
	}
	m.logger.Info().
		Str("glyph", m.current).
		Str("level", level.Name).
		Float64("score", result.Score).
		Bool("passed", result.IsCorrect).
		Int("points", result.Points).
		Msg("attempt scored")

	attempt := model.Attempt{
		Profile:   m.config.Profile,
		Glyph:     m.current,
		Level:     level.Name,
		Threshold: level.Threshold,
		Score:     result.Score,
		Passed:    result.IsCorrect,
		Points:    result.Points,
		CreatedAt: time.Now(),
	}
	if _, err := m.store.RecordAttempt(context.Background(), attempt); err != nil {
		m.logger.Error().Err(err).Str("glyph", m.current).Msg("failed to save attempt")
	}
	m.loadPiles()
	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) loadPiles() {
	piles, err := m.store.Piles(context.Background(), m.config.Profile)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to load piles")
		return
	}
	m.piles = piles
	m.notice = ""
	if allWrong(piles, m.ids) {
		m.notice = allWrongMsg
	}
}

func (m *Model) refreshWeakSet() {
	aggs, err := m.store.GetGlyphAggregates(context.Background(), m.config.WeakWindow, m.config.Profile)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to load weak glyphs")
		return
	}
	m.weakSet = statsPkg.SelectWeakGlyphs(aggs, m.config.WeakTop)
}

// allWrong reports whether nothing is mastered and all but one of ids sit in
// the needs-work pile.
func allWrong(piles model.PileSet, ids []string) bool {
	if len(ids) < 2 || len(piles.Mastered) > 0 {
		return false
	}
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	count := 0
	for _, g := range piles.NeedsWork {
		if _, ok := known[g]; ok {
			count++
		}
	}
	return count == len(ids)-1
}

func (m *Model) renderTitle(width int) string {
	mode := "draw"
	if m.session.Erasing() {
		mode = "erase"
	}
	pos := 0
	for i, id := range m.ids {
		if id == m.current {
			pos = i + 1
			break
		}
	}
	title := fmt.Sprintf("Trace %q (%d/%d)  Level %s %.0f%%  Mode %s",
		m.current, pos, len(m.ids), m.config.Level.Name, m.config.Level.Threshold*100, mode)
	return center(titleStyle.Render(truncate(title, width)), width)
}

func (m *Model) renderFeedback() string {
	if m.feedback == "" {
		return ""
	}
	if m.passed {
		return passStyle.Render(m.feedback)
	}
	return failStyle.Render(m.feedback)
}

func (m *Model) renderFooter(width int) string {
	footer := fmt.Sprintf("Mastered %d · Needs work %d · Profile %s",
		len(m.piles.Mastered), len(m.piles.NeedsWork), m.config.Profile)
	return footerStyle.Render(truncate(footer, width))
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

func center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
