package statsui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/teeline/internal/model"
)

// windowSteps are the moving-average windows offered by -/+.
var windowSteps = []int{1, 3, 5, 10, 20, 50}

// stepWindow moves to the next preset above (dir > 0) or below current.
func stepWindow(current, dir int) int {
	if dir > 0 {
		for _, w := range windowSteps {
			if w > current {
				return w
			}
		}
		return windowSteps[len(windowSteps)-1]
	}
	for i := len(windowSteps) - 1; i >= 0; i-- {
		if windowSteps[i] < current {
			return windowSteps[i]
		}
	}
	return windowSteps[0]
}

var settingsLabels = []string{"Profile", "Since (YYYY-MM-DD)", "Last N attempts", "Curve window"}

type settingsForm struct {
	inputs  []textinput.Model
	focused int
	err     string
}

func newSettingsForm(cfg model.StatsConfig) *settingsForm {
	values := []string{cfg.Profile, "", "", strconv.Itoa(cfg.CurveWindow)}
	if cfg.Since != nil {
		values[1] = cfg.Since.Format("2006-01-02")
	}
	if cfg.Last > 0 {
		values[2] = strconv.Itoa(cfg.Last)
	}
	f := &settingsForm{inputs: make([]textinput.Model, len(values))}
	for i, v := range values {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 32
		in.SetValue(v)
		f.inputs[i] = in
	}
	return f
}

// focus moves the cursor to field i, wrapping around.
func (f *settingsForm) focus(i int) tea.Cmd {
	n := len(f.inputs)
	f.focused = (i%n + n) % n
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focused {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *settingsForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	f.err = ""
	return cmd
}

func (f *settingsForm) config() (model.StatsConfig, error) {
	return parseSettings(
		f.inputs[0].Value(),
		f.inputs[1].Value(),
		f.inputs[2].Value(),
		f.inputs[3].Value(),
	)
}

func (f *settingsForm) view() string {
	lines := []string{titleStyle.Render("Filter"), ""}
	for i, in := range f.inputs {
		marker := "  "
		if i == f.focused {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%-20s %s", marker, settingsLabels[i], in.View()))
	}
	if f.err != "" {
		lines = append(lines, "", errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

// parseSettings validates the form fields. Empty since and last mean no
// limit; an empty window keeps the default of 1.
func parseSettings(profile, since, last, window string) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Profile: strings.TrimSpace(profile), CurveWindow: 1}
	if s := strings.TrimSpace(since); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return cfg, errors.New("since must be YYYY-MM-DD")
		}
		cfg.Since = &t
	}
	if s := strings.TrimSpace(last); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return cfg, errors.New("last must be a non-negative number")
		}
		cfg.Last = n
	}
	if s := strings.TrimSpace(window); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return cfg, errors.New("curve window must be at least 1")
		}
		cfg.CurveWindow = n
	}
	return cfg, nil
}
