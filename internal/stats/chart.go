package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/teeline/internal/braille"
	"github.com/verte-zerg/teeline/internal/model"
)

const (
	defaultChartHeight = 10
	minPlotWidth       = 10
	fallbackTermWidth  = 80
	axisLabelWidth     = 4
	axisTick           = " ┤"
	axisRule           = " │"
	outcomeLabel       = "p/f"
)

// Outcome markers, one per plot column.
const (
	markPass  = '+'
	markFail  = 'x'
	markMixed = '~'
)

// Series is a named curve of fractions in [0,1]. Values outside the range
// are clamped when drawn.
type Series struct {
	Name   string
	Values []float64
	// Dash draws every other pair of dot columns.
	Dash bool
}

// Threshold is a horizontal guide at a pass threshold.
type Threshold struct {
	Name  string
	Value float64
}

// Chart plots score curves on a fixed 0-100% axis with dotted guides at the
// level thresholds and an optional pass/fail row under the plot.
type Chart struct {
	Title      string
	Series     []Series
	Thresholds []Threshold
	Outcomes   []bool
	// Width is the number of plot columns; 0 fits the terminal.
	Width  int
	Height int
	Color  bool
}

var (
	seriesStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#36CFC9")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#9254DE")),
	}
	guideChartStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	passMarkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	failMarkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Render writes the chart. Nothing is written when every series is empty.
func (c Chart) Render(w io.Writer) error {
	series := make([]Series, 0, len(c.Series))
	for _, s := range c.Series {
		if len(s.Values) > 0 {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return nil
	}
	width := c.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	height := c.Height
	if height <= 0 {
		height = defaultChartHeight
	}
	color := c.Color && os.Getenv("NO_COLOR") == ""

	guides := braille.NewGrid(width, height)
	labels := make([]string, height)
	labels[0] = "100%"
	labels[height-1] = "0%"
	for _, th := range c.Thresholds {
		y := fractionToDot(th.Value, guides.Height())
		guides.Line(0, y, guides.Width()-1, y, func(x int) bool { return x%4 == 0 })
		labels[y/braille.DotsY] = fmt.Sprintf("%.0f%%", th.Value*100)
	}

	curves := make([]*braille.Grid, len(series))
	for i, s := range series {
		curves[i] = plotCurve(s, width, height)
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(c.Title + "\n")
	}
	for row := 0; row < height; row++ {
		tick := axisRule
		if labels[row] != "" {
			tick = axisTick
		}
		b.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, labels[row], tick))
		for col := 0; col < width; col++ {
			b.WriteString(chartCell(curves, guides, col, row, color))
		}
		b.WriteByte('\n')
	}
	if len(c.Outcomes) > 0 {
		b.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, outcomeLabel, axisRule))
		b.WriteString(outcomeRow(c.Outcomes, width, color))
		b.WriteByte('\n')
	}
	b.WriteString(chartLegend(series, c.Thresholds, color) + "\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor returns the plot columns that fit in totalWidth after the
// axis labels.
func PlotWidthFor(totalWidth int) int {
	plot := totalWidth - axisLabelWidth - runewidth.StringWidth(axisRule)
	if plot < minPlotWidth {
		return minPlotWidth
	}
	return plot
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

// fractionToDot maps a fraction to a dot row, 1 at the top.
func fractionToDot(v float64, dots int) int {
	v = math.Max(0, math.Min(1, v))
	return int(math.Round((1 - v) * float64(dots-1)))
}

// valueColumns spreads n values over width columns: the first value lands in
// column 0 and the last in column width-1.
func valueColumns(n, width int) []int {
	cols := make([]int, n)
	if n <= 1 {
		return cols
	}
	for i := range cols {
		cols[i] = i * (width - 1) / (n - 1)
	}
	return cols
}

// bucketMeans averages values into at most n buckets.
func bucketMeans(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		start := i * len(values) / n
		end := (i + 1) * len(values) / n
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func plotCurve(s Series, width, height int) *braille.Grid {
	g := braille.NewGrid(width, height)
	values := bucketMeans(s.Values, g.Width())
	xs := valueColumns(len(values), g.Width())
	var keep func(int) bool
	if s.Dash {
		keep = func(x int) bool { return x%4 < 2 }
	}
	for i, v := range values {
		y := fractionToDot(v, g.Height())
		if i == 0 {
			g.Set(xs[0], y)
			continue
		}
		g.Line(xs[i-1], fractionToDot(values[i-1], g.Height()), xs[i], y, keep)
	}
	return g
}

func chartCell(curves []*braille.Grid, guides *braille.Grid, col, row int, color bool) string {
	var mask uint8
	owner := -1
	for i, g := range curves {
		if m := g.Mask(col, row); m != 0 {
			mask |= m
			if owner < 0 {
				owner = i
			}
		}
	}
	guide := guides.Mask(col, row)
	switch {
	case mask != 0:
		ch := string(braille.FromMask(mask | guide))
		if color {
			return seriesStyles[owner%len(seriesStyles)].Render(ch)
		}
		return ch
	case guide != 0:
		ch := string(braille.FromMask(guide))
		if color {
			return guideChartStyle.Render(ch)
		}
		return ch
	default:
		return string(braille.FromMask(0))
	}
}

func outcomeRow(outcomes []bool, width int, color bool) string {
	cols := valueColumns(len(outcomes), width)
	if len(outcomes) > width {
		cols = make([]int, len(outcomes))
		for i := range cols {
			cols[i] = i * width / len(outcomes)
		}
	}
	passed := make([]int, width)
	failed := make([]int, width)
	for i, ok := range outcomes {
		if ok {
			passed[cols[i]]++
		} else {
			failed[cols[i]]++
		}
	}
	var b strings.Builder
	for col := 0; col < width; col++ {
		var mark rune
		style := passMarkStyle
		switch {
		case passed[col] > 0 && failed[col] > 0:
			mark = markMixed
			style = guideChartStyle
		case passed[col] > 0:
			mark = markPass
		case failed[col] > 0:
			mark = markFail
			style = failMarkStyle
		default:
			b.WriteByte(' ')
			continue
		}
		if color {
			b.WriteString(style.Render(string(mark)))
		} else {
			b.WriteRune(mark)
		}
	}
	return b.String()
}

func chartLegend(series []Series, thresholds []Threshold, color bool) string {
	parts := make([]string, 0, len(series)+1)
	for i, s := range series {
		line := "━━"
		if s.Dash {
			line = "╍╍"
		}
		label := line + " " + s.Name
		if color {
			label = seriesStyles[i%len(seriesStyles)].Render(label)
		}
		parts = append(parts, label)
	}
	if len(thresholds) > 0 {
		names := make([]string, 0, len(thresholds))
		for _, th := range thresholds {
			names = append(names, fmt.Sprintf("%s %.0f%%", th.Name, th.Value*100))
		}
		parts = append(parts, "┈┈ "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "  ")
}

// LevelThresholds returns a guide for every level practiced in attempts,
// lowest threshold first.
func LevelThresholds(attempts []model.Attempt) []Threshold {
	seen := map[string]float64{}
	for _, a := range attempts {
		if a.Level != "" {
			seen[a.Level] = a.Threshold
		}
	}
	out := make([]Threshold, 0, len(seen))
	for name, value := range seen {
		out = append(out, Threshold{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value == out[j].Value {
			return out[i].Name < out[j].Name
		}
		return out[i].Value < out[j].Value
	})
	return out
}
