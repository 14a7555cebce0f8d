// Package main provides the CLI entrypoint for teeline.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/teeline/internal/config"
	"github.com/verte-zerg/teeline/internal/glyph"
	"github.com/verte-zerg/teeline/internal/lesson"
	"github.com/verte-zerg/teeline/internal/logging"
	"github.com/verte-zerg/teeline/internal/model"
	"github.com/verte-zerg/teeline/internal/picker"
	"github.com/verte-zerg/teeline/internal/shape"
	"github.com/verte-zerg/teeline/internal/stats"
	"github.com/verte-zerg/teeline/internal/statsui"
	"github.com/verte-zerg/teeline/internal/store"
	"github.com/verte-zerg/teeline/internal/tui"
)

const (
	defaultLevel       = "beginner"
	defaultWeakTop     = 5
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 50
	defaultCurveWindow = 10
	defaultPlotHeight  = 10
)

var (
	practiceProfile     string
	practiceLevel       string
	practiceGlyphDir    string
	practiceLesson      string
	practiceStrictPaths bool
	practiceFocusWeak   bool
	practiceWeakTop     int
	practiceWeakFactor  float64
	practiceWeakWindow  int
	logLevel            string

	statsProfile     string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "teeline",
		Short:         "TUI glyph tracing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceProfile, "profile", config.DefaultProfile(), "profile that owns piles and history")
	rootCmd.Flags().StringVar(&practiceLevel, "level", defaultLevel, "difficulty: beginner, intermediate, or advanced")
	rootCmd.Flags().StringVar(&practiceGlyphDir, "glyph-dir", config.DefaultGlyphDir(), "directory of <glyph>.svg reference files")
	rootCmd.Flags().StringVar(&practiceLesson, "lesson", "", "file listing glyph ids to practice, one per line")
	rootCmd.Flags().BoolVar(&practiceStrictPaths, "strict-paths", false, "only accept uppercase (absolute) path commands")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias glyph selection toward weak glyphs")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak glyphs to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "extra weight for weak glyphs")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent attempts to compute weak glyphs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostic log level (trace, debug, info, warn, error, off)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newGlyphsCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newPilesCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "profile", &practiceProfile, fileCfg.Practice.Profile)
	applyStringConfig(cmd, "level", &practiceLevel, fileCfg.Practice.Level)
	applyStringConfig(cmd, "glyph-dir", &practiceGlyphDir, fileCfg.Practice.GlyphDir)
	applyStringConfig(cmd, "lesson", &practiceLesson, fileCfg.Practice.Lesson)
	applyBoolConfig(cmd, "strict-paths", &practiceStrictPaths, fileCfg.Practice.StrictPaths)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	level, err := model.ParseLevel(practiceLevel)
	if err != nil {
		return fmt.Errorf("--level: %w", err)
	}
	cfg := model.Config{
		Profile:     practiceProfile,
		Level:       level,
		GlyphDir:    practiceGlyphDir,
		Lesson:      practiceLesson,
		StrictPaths: practiceStrictPaths,
		FocusWeak:   practiceFocusWeak,
		WeakTop:     practiceWeakTop,
		WeakFactor:  practiceWeakFactor,
		WeakWindow:  practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	glyphs, err := loadGlyphs(cfg.GlyphDir)
	if err != nil {
		return err
	}
	ids, err := resolveIDs(glyphs, cfg.Lesson)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	weakSet := map[string]struct{}{}
	if cfg.FocusWeak {
		aggs, err := st.GetGlyphAggregates(context.Background(), cfg.WeakWindow, cfg.Profile)
		if err != nil {
			logErrf("failed to load weak glyphs: %v\n", err)
		} else {
			weakSet = stats.SelectWeakGlyphs(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logErrln("no failed attempts yet; glyphs are picked in order")
			}
		}
	}

	logger.Info().
		Str("profile", cfg.Profile).
		Str("level", cfg.Level.Name).
		Int("glyphs", len(ids)).
		Msg("practice started")

	m, err := tui.NewModel(cfg, st, glyphs, ids, picker.New(), shape.NewScorer(logger), logger, weakSet)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsProfile, "profile", config.DefaultProfile(), "profile filter (empty for all)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig(statsProfile, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return renderPlainStats(cmd.Context(), cmd.OutOrStdout(), st, cfg, 0, false)
	}
	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(profile, since string, last, window int) (model.StatsConfig, error) {
	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Profile:     profile,
		Since:       sinceTime,
		Last:        last,
		CurveWindow: window,
	}, nil
}

// renderPlainStats writes the summary, learning curves, and per-glyph table.
// A zero width lets the plot size itself to the terminal.
func renderPlainStats(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig, width int, useColor bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, report.Attempts); err != nil {
		return err
	}
	if err := stats.RenderCurves(&buf, report.Attempts, cfg.CurveWindow, width, defaultPlotHeight, useColor); err != nil {
		return err
	}
	if len(report.Attempts) > 0 {
		if err := stats.RenderGlyphTable(&buf, report.Glyphs); err != nil {
			return err
		}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// openLogger opens the diagnostic log. The flag wins over the config file.
func openLogger(cmd *cobra.Command, logCfg config.LogConfig) (zerolog.Logger, func(), error) {
	levelName := logLevel
	if !cmd.Flags().Changed("log-level") && logCfg.Level != nil {
		levelName = *logCfg.Level
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("--log-level: %w", err)
	}
	path := config.DefaultLogPath()
	if logCfg.Path != nil && *logCfg.Path != "" {
		path = *logCfg.Path
	}
	logger, closer, err := logging.Open(path, level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return logger, func() {
		if cerr := closer.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}, nil
}

// loadGlyphs reads the glyph directory, falling back to the built-in shapes
// when it is missing or empty.
func loadGlyphs(dir string) (*glyph.Set, error) {
	set, err := glyph.LoadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load glyphs: %w", err)
		}
		set = nil
	}
	if set == nil || set.Len() == 0 {
		logErrf("no glyphs in %s; using built-in shapes (import some with: teeline glyphs import --font <file>)\n", dir)
		return glyph.Builtin(), nil
	}
	return set, nil
}

// resolveIDs returns the glyphs to practice: the lesson order when a lesson
// file is set, otherwise every glyph in the set.
func resolveIDs(glyphs *glyph.Set, lessonPath string) ([]string, error) {
	if lessonPath == "" {
		return glyphs.IDs(), nil
	}
	ids, err := lesson.Load(lessonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	kept, missing := lesson.Filter(ids, glyphs.Has)
	if len(missing) > 0 {
		logErrf("lesson glyphs not found, skipping: %s\n", strings.Join(missing, ", "))
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no lesson glyphs available in the glyph set")
	}
	return kept, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# teeline configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# profile = "me"          # Profile that owns piles and history (default $USER)
# level = %q       # beginner (50%%), intermediate (60%%), advanced (65%%)
# glyph-dir = %q
# lesson = ""             # File listing glyph ids to practice, one per line
# strict-paths = false    # Only accept uppercase (absolute) path commands
# focus-weak = false      # Bias glyph selection toward weak glyphs
# weak-top = %d            # Number of weak glyphs to focus on
# weak-factor = %.1f      # Extra weight for weak glyphs
# weak-window = %d        # Number of recent attempts to compute weak glyphs

[log]
# level = "info"          # trace, debug, info, warn, error, off
# path = %q
`,
		defaultLevel,
		config.DefaultGlyphDir(),
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.Profile) == "" {
		return fmt.Errorf("--profile must not be empty")
	}
	if cfg.GlyphDir == "" {
		return fmt.Errorf("--glyph-dir must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
