package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/teeline/internal/capture"
	"github.com/verte-zerg/teeline/internal/config"
	"github.com/verte-zerg/teeline/internal/glyph"
	"github.com/verte-zerg/teeline/internal/model"
	"github.com/verte-zerg/teeline/internal/shape"
	"github.com/verte-zerg/teeline/internal/store"
)

const defaultImportChars = "abcdefghijklmnopqrstuvwxyz"

var (
	glyphsDir      string
	glyphsStrict   bool
	normalizeSrc   string
	normalizeDst   string
	importFont     string
	importChars    string
	importDst      string
	importSize     float64
	importForce    bool
	scoreGlyph     string
	scoreLevel     string
	scorePoints    string
	scoreGlyphDir  string
	scoreStrict    bool
	scoreRecord    bool
	scoreProfile   string
	pilesProfile   string
	pilesMoveForce bool
)

func newGlyphsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glyphs",
		Short: "List reference glyphs",
		Args:  cobra.NoArgs,
		RunE:  runGlyphsCmd,
	}
	cmd.Flags().StringVar(&glyphsDir, "glyph-dir", config.DefaultGlyphDir(), "directory of <glyph>.svg reference files")
	cmd.Flags().BoolVar(&glyphsStrict, "strict-paths", false, "only accept uppercase (absolute) path commands")

	normalize := &cobra.Command{
		Use:   "normalize",
		Short: "Fit SVG viewBoxes to their paths and drop transforms",
		Args:  cobra.NoArgs,
		RunE:  runNormalizeCmd,
	}
	normalize.Flags().StringVar(&normalizeSrc, "src", "", "directory of source SVG files")
	normalize.Flags().StringVar(&normalizeDst, "dst", config.DefaultGlyphDir(), "output directory")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Write glyph SVGs from a font's outlines",
		Args:  cobra.NoArgs,
		RunE:  runImportCmd,
	}
	importCmd.Flags().StringVar(&importFont, "font", "", "TrueType or OpenType font file")
	importCmd.Flags().StringVar(&importChars, "chars", defaultImportChars, "characters to import")
	importCmd.Flags().StringVar(&importDst, "dst", config.DefaultGlyphDir(), "output directory")
	importCmd.Flags().Float64Var(&importSize, "size", glyph.DefaultFontSize, "outline size in pixels per em")
	importCmd.Flags().BoolVar(&importForce, "force", false, "overwrite existing files")

	cmd.AddCommand(normalize)
	cmd.AddCommand(importCmd)
	return cmd
}

func runGlyphsCmd(cmd *cobra.Command, _ []string) error {
	glyphs, err := loadGlyphs(glyphsDir)
	if err != nil {
		return err
	}
	return listGlyphs(cmd.OutOrStdout(), glyphs, pathMode(glyphsStrict))
}

func listGlyphs(w io.Writer, glyphs *glyph.Set, mode glyph.Mode) error {
	for _, id := range glyphs.IDs() {
		d, err := glyphs.Lookup(id)
		if err != nil {
			return err
		}
		points := len(glyph.Extract(d, mode)) / 2
		if _, err := fmt.Fprintf(w, "%s\t%d points\n", id, points); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runNormalizeCmd(_ *cobra.Command, _ []string) error {
	if normalizeSrc == "" {
		return fmt.Errorf("--src must not be empty")
	}
	written, err := normalizeDir(normalizeSrc, normalizeDst)
	if err != nil {
		return err
	}
	logErrf("Normalized %d files into %s\n", written, normalizeDst)
	return nil
}

// normalizeDir normalizes every SVG in src into dst. Files without a usable
// path are reported and skipped.
func normalizeDir(src, dst string) (int, error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, fmt.Errorf("failed to read source directory: %w", err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	written := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".svg") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, name))
		if err != nil {
			return written, fmt.Errorf("failed to read %s: %w", name, err)
		}
		out, err := glyph.NormalizeSVG(string(data))
		if err != nil {
			logErrf("Skipping %s: %v\n", name, err)
			continue
		}
		if err := os.WriteFile(filepath.Join(dst, name), []byte(out), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", name, err)
		}
		written++
	}
	return written, nil
}

func runImportCmd(_ *cobra.Command, _ []string) error {
	if importFont == "" {
		return fmt.Errorf("--font must not be empty")
	}
	if importChars == "" {
		return fmt.Errorf("--chars must not be empty")
	}
	data, err := os.ReadFile(importFont)
	if err != nil {
		return fmt.Errorf("failed to read font: %w", err)
	}
	written, missing, err := importGlyphs(data, importChars, importSize, importDst, importForce)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		logErrf("No outline for: %s\n", strings.Join(missing, " "))
	}
	logErrf("Wrote %d glyphs into %s\n", written, importDst)
	return nil
}

func importGlyphs(font []byte, chars string, size float64, dst string, force bool) (int, []string, error) {
	paths, missing, err := glyph.FromFont(font, chars, size)
	if err != nil {
		return 0, nil, err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	written := 0
	for _, r := range chars {
		id := string(r)
		d, ok := paths[id]
		if !ok {
			continue
		}
		delete(paths, id)
		name, err := glyphFileName(id)
		if err != nil {
			missing = append(missing, id)
			continue
		}
		outPath := filepath.Join(dst, name)
		if !force {
			if _, err := os.Stat(outPath); err == nil {
				return written, missing, fmt.Errorf("glyph already exists: %s (use --force to overwrite)", outPath)
			} else if !os.IsNotExist(err) {
				return written, missing, fmt.Errorf("failed to stat glyph: %w", err)
			}
		}
		doc, err := glyph.SVGDocument(d)
		if err != nil {
			return written, missing, fmt.Errorf("failed to build %s: %w", name, err)
		}
		if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
			return written, missing, fmt.Errorf("failed to write %s: %w", name, err)
		}
		written++
	}
	return written, missing, nil
}

// glyphFileName rejects ids that cannot be used as a file name.
func glyphFileName(id string) (string, error) {
	if id == "" || id == "." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("invalid glyph id %q", id)
	}
	return id + ".svg", nil
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a recorded trace against a glyph",
		Args:  cobra.NoArgs,
		RunE:  runScoreCmd,
	}
	cmd.Flags().StringVar(&scoreGlyph, "glyph", "", "glyph id to score against")
	cmd.Flags().StringVar(&scoreLevel, "level", defaultLevel, "difficulty: beginner, intermediate, or advanced")
	cmd.Flags().StringVar(&scorePoints, "points", "", "JSON file of strokes: [[x,y,x,y,...],...] (- for stdin)")
	cmd.Flags().StringVar(&scoreGlyphDir, "glyph-dir", config.DefaultGlyphDir(), "directory of <glyph>.svg reference files")
	cmd.Flags().BoolVar(&scoreStrict, "strict-paths", false, "only accept uppercase (absolute) path commands")
	cmd.Flags().BoolVar(&scoreRecord, "record", false, "save the attempt and update piles")
	cmd.Flags().StringVar(&scoreProfile, "profile", config.DefaultProfile(), "profile used with --record")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	if scoreGlyph == "" {
		return fmt.Errorf("--glyph must not be empty")
	}
	if scorePoints == "" {
		return fmt.Errorf("--points must not be empty")
	}
	level, err := model.ParseLevel(scoreLevel)
	if err != nil {
		return fmt.Errorf("--level: %w", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, closeLog, err := openLogger(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	glyphs, err := loadGlyphs(scoreGlyphDir)
	if err != nil {
		return err
	}
	d, err := glyphs.Lookup(scoreGlyph)
	if err != nil {
		return err
	}
	strokes, err := readStrokes(scorePoints, cmd.InOrStdin())
	if err != nil {
		return err
	}
	reference := glyph.Extract(d, pathMode(scoreStrict))
	result, err := scoreStrokes(strokes, reference, level, shape.NewScorer(logger))
	if err != nil {
		return err
	}
	verdict := "keep practicing"
	if result.IsCorrect {
		verdict = "pass"
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f%% %s (threshold %.0f%%, %d points)\n",
		scoreGlyph, result.Score*100, verdict, level.Threshold*100, result.Points); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if !scoreRecord {
		return nil
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
	_, err = st.RecordAttempt(cmd.Context(), model.Attempt{
		Profile:   scoreProfile,
		Glyph:     scoreGlyph,
		Level:     level.Name,
		Threshold: level.Threshold,
		Score:     result.Score,
		Passed:    result.IsCorrect,
		Points:    result.Points,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}

// readStrokes decodes a JSON array of strokes, each a flat x,y list.
func readStrokes(path string, stdin io.Reader) ([][]float64, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open points: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				// Best-effort close for read-only points file.
				_ = cerr
			}
		}()
		r = file
	}
	var strokes [][]float64
	if err := json.NewDecoder(r).Decode(&strokes); err != nil {
		return nil, fmt.Errorf("failed to decode points: %w", err)
	}
	for i, s := range strokes {
		if len(s)%2 != 0 {
			return nil, fmt.Errorf("stroke %d has an odd number of coordinates", i)
		}
	}
	return strokes, nil
}

// scoreStrokes replays strokes as pointer drags on a fresh capture session
// and submits the result. Points off the surface are dropped like any other
// pointer event.
func scoreStrokes(strokes [][]float64, reference []float64, level model.Level, scorer capture.Scorer) (capture.Result, error) {
	session := capture.NewSession()
	for _, s := range strokes {
		if len(s) < 2 {
			continue
		}
		session.PointerDown(capture.Point{X: s[0], Y: s[1]})
		for i := 2; i+1 < len(s); i += 2 {
			session.PointerMove(capture.Point{X: s[i], Y: s[i+1]})
		}
		session.PointerUp()
	}
	result, err := session.Submit(scorer, reference, level.Threshold)
	if errors.Is(err, capture.ErrNothingDrawn) {
		return capture.Result{}, fmt.Errorf("nothing drawn: the trace has no points on the %gx%g surface", capture.SurfaceWidth, capture.SurfaceHeight)
	}
	return result, err
}

func pathMode(strict bool) glyph.Mode {
	if strict {
		return glyph.Strict
	}
	return glyph.Loose
}

func newPilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "piles",
		Short: "Show mastered and needs-work glyphs",
		Args:  cobra.NoArgs,
		RunE:  runPilesCmd,
	}
	cmd.PersistentFlags().StringVar(&pilesProfile, "profile", config.DefaultProfile(), "profile that owns the piles")

	move := &cobra.Command{
		Use:   "move <glyph> <mastered|needs-work>",
		Short: "Move a glyph to a pile",
		Args:  cobra.ExactArgs(2),
		RunE:  runPilesMoveCmd,
	}
	move.Flags().BoolVar(&pilesMoveForce, "force", false, "allow glyphs missing from the glyph directory")
	cmd.AddCommand(move)
	return cmd
}

func runPilesCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	piles, err := st.Piles(cmd.Context(), pilesProfile)
	if err != nil {
		return fmt.Errorf("failed to load piles: %w", err)
	}
	return writePiles(cmd.OutOrStdout(), piles)
}

func writePiles(w io.Writer, piles model.PileSet) error {
	lines := []string{
		fmt.Sprintf("%s (%d): %s", model.Mastered, len(piles.Mastered), strings.Join(piles.Mastered, " ")),
		fmt.Sprintf("%s (%d): %s", model.NeedsWork, len(piles.NeedsWork), strings.Join(piles.NeedsWork, " ")),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runPilesMoveCmd(cmd *cobra.Command, args []string) error {
	id, pileName := args[0], args[1]
	pile, err := parsePile(pileName)
	if err != nil {
		return err
	}
	if !pilesMoveForce {
		glyphs, err := loadGlyphs(config.DefaultGlyphDir())
		if err != nil {
			return err
		}
		if !glyphs.Has(id) {
			return fmt.Errorf("%w: %q (use --force to move it anyway)", glyph.ErrGlyphNotFound, id)
		}
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
	changed, err := st.SetPile(cmd.Context(), pilesProfile, id, pile)
	if err != nil {
		return fmt.Errorf("failed to move glyph: %w", err)
	}
	msg := fmt.Sprintf("moved %s to %s", id, pile)
	if !changed {
		msg = fmt.Sprintf("%s is already in %s", id, pile)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), msg); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parsePile(name string) (model.Pile, error) {
	switch model.Pile(strings.ToLower(strings.TrimSpace(name))) {
	case model.Mastered:
		return model.Mastered, nil
	case model.NeedsWork:
		return model.NeedsWork, nil
	default:
		return "", fmt.Errorf("unknown pile %q (expected %s or %s)", name, model.Mastered, model.NeedsWork)
	}
}
