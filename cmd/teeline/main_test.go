package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/verte-zerg/teeline/internal/config"
	"github.com/verte-zerg/teeline/internal/glyph"
	"github.com/verte-zerg/teeline/internal/model"
	"github.com/verte-zerg/teeline/internal/shape"
	"github.com/verte-zerg/teeline/internal/store"
)

func TestValidateConfig(t *testing.T) {
	valid := model.Config{Profile: "ann", Level: model.Beginner, GlyphDir: "glyphs", WeakTop: 5, WeakFactor: 2, WeakWindow: 50}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := []struct {
		name   string
		mutate func(*model.Config)
		want   string
	}{
		{"profile", func(c *model.Config) { c.Profile = " " }, "--profile"},
		{"glyph dir", func(c *model.Config) { c.GlyphDir = "" }, "--glyph-dir"},
		{"weak top", func(c *model.Config) { c.WeakTop = -1 }, "--weak-top"},
		{"weak factor", func(c *model.Config) { c.WeakFactor = -0.5 }, "--weak-factor"},
		{"weak window", func(c *model.Config) { c.WeakWindow = -1 }, "--weak-window"},
	}
	for _, tc := range cases {
		cfg := valid
		tc.mutate(&cfg)
		err := validateConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error mentioning %s, got %v", tc.name, tc.want, err)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.Practice.Level != nil || cfg.Log.Level != nil {
		t.Fatalf("expected every template value to be commented out")
	}
}

func TestBuildStatsConfig(t *testing.T) {
	cfg, err := buildStatsConfig("ann", "2024-05-01", 3, 4)
	if err != nil {
		t.Fatalf("build stats config: %v", err)
	}
	if cfg.Since == nil || cfg.Last != 3 || cfg.CurveWindow != 4 || cfg.Profile != "ann" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	for _, tc := range []struct {
		since        string
		last, window int
	}{
		{"yesterday", 0, 1},
		{"", -1, 1},
		{"", 0, 0},
	} {
		if _, err := buildStatsConfig("", tc.since, tc.last, tc.window); err == nil {
			t.Fatalf("expected error for %+v", tc)
		}
	}
}

func TestLoadGlyphsFallsBackToBuiltin(t *testing.T) {
	set, err := loadGlyphs(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("load glyphs: %v", err)
	}
	if set.Len() != glyph.Builtin().Len() {
		t.Fatalf("expected builtin set, got %v", set.IDs())
	}

	dir := t.TempDir()
	svg := `<svg viewBox="0 0 10 10"><path d="M0,0 L10,10"/></svg>`
	if err := os.WriteFile(filepath.Join(dir, "x.svg"), []byte(svg), 0o644); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	set, err = loadGlyphs(dir)
	if err != nil {
		t.Fatalf("load glyphs: %v", err)
	}
	if ids := set.IDs(); len(ids) != 1 || ids[0] != "x" {
		t.Fatalf("expected glyph x, got %v", ids)
	}
}

func TestResolveIDsWithLesson(t *testing.T) {
	set := glyph.Builtin()
	ids, err := resolveIDs(set, "")
	if err != nil || len(ids) != set.Len() {
		t.Fatalf("expected all glyphs, got %v %v", ids, err)
	}

	path := filepath.Join(t.TempDir(), "lesson.txt")
	if err := os.WriteFile(path, []byte("square\nnope\nline\n"), 0o644); err != nil {
		t.Fatalf("write lesson: %v", err)
	}
	ids, err = resolveIDs(set, path)
	if err != nil {
		t.Fatalf("resolve ids: %v", err)
	}
	if strings.Join(ids, ",") != "square,line" {
		t.Fatalf("unexpected lesson ids %v", ids)
	}

	if err := os.WriteFile(path, []byte("nope\n"), 0o644); err != nil {
		t.Fatalf("write lesson: %v", err)
	}
	if _, err := resolveIDs(set, path); err == nil {
		t.Fatalf("expected error when no lesson glyph exists")
	}
}

func TestReadStrokes(t *testing.T) {
	strokes, err := readStrokes("-", strings.NewReader(`[[0,0,10,10],[5,5]]`))
	if err != nil {
		t.Fatalf("read strokes: %v", err)
	}
	if len(strokes) != 2 || len(strokes[0]) != 4 {
		t.Fatalf("unexpected strokes %v", strokes)
	}
	if _, err := readStrokes("-", strings.NewReader(`[[0,0,10]]`)); err == nil {
		t.Fatalf("expected error for odd coordinates")
	}
	if _, err := readStrokes("-", strings.NewReader(`{}`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestScoreStrokes(t *testing.T) {
	d, err := glyph.Builtin().Lookup("square")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	reference := glyph.Extract(d, glyph.Loose)
	scorer := shape.NewScorer(zerolog.Nop())

	square := [][]float64{{100, 100, 300, 100, 300, 300, 100, 300}}
	result, err := scoreStrokes(square, reference, model.Advanced, scorer)
	if err != nil {
		t.Fatalf("score strokes: %v", err)
	}
	if !result.IsCorrect || result.Score < 0.95 || result.Points != 4 {
		t.Fatalf("expected square to pass, got %+v", result)
	}

	if _, err := scoreStrokes(nil, reference, model.Beginner, scorer); err == nil {
		t.Fatalf("expected nothing drawn error")
	}
	offSurface := [][]float64{{-50, -50, 900, 900}}
	if _, err := scoreStrokes(offSurface, reference, model.Beginner, scorer); err == nil {
		t.Fatalf("expected off-surface trace to count as nothing drawn")
	}
}

func TestNormalizeDir(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	good := `<svg viewBox="0 0 1 1"><path transform="scale(2)" d="M10,20 L110,70"/></svg>`
	if err := os.WriteFile(filepath.Join(src, "a.svg"), []byte(good), 0o644); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "b.svg"), []byte(`<svg></svg>`), 0o644); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	written, err := normalizeDir(src, dst)
	if err != nil {
		t.Fatalf("normalize dir: %v", err)
	}
	if written != 1 {
		t.Fatalf("expected 1 file written, got %d", written)
	}
	data, err := os.ReadFile(filepath.Join(dst, "a.svg"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `viewBox="10 20 100 50"`) || strings.Contains(out, "transform") {
		t.Fatalf("unexpected normalized svg %q", out)
	}
}

func TestImportGlyphs(t *testing.T) {
	dst := t.TempDir()
	written, missing, err := importGlyphs(goregular.TTF, "ab b", 0, dst, false)
	if err != nil {
		t.Fatalf("import glyphs: %v", err)
	}
	if written != 2 || len(missing) != 1 {
		t.Fatalf("expected 2 written and space missing, got %d %q", written, missing)
	}
	set, err := glyph.LoadDir(dst)
	if err != nil {
		t.Fatalf("load imported: %v", err)
	}
	if ids := set.IDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected imported ids %v", ids)
	}
	if _, _, err := importGlyphs(goregular.TTF, "a", 0, dst, false); err == nil {
		t.Fatalf("expected error when glyph exists without force")
	}
	if _, _, err := importGlyphs(goregular.TTF, "a", 0, dst, true); err != nil {
		t.Fatalf("expected overwrite with force, got %v", err)
	}
}

func TestParsePile(t *testing.T) {
	if p, err := parsePile(" Mastered "); err != nil || p != model.Mastered {
		t.Fatalf("expected mastered, got %v %v", p, err)
	}
	if p, err := parsePile("needs-work"); err != nil || p != model.NeedsWork {
		t.Fatalf("expected needs-work, got %v %v", p, err)
	}
	if _, err := parsePile("good"); err == nil {
		t.Fatalf("expected error for unknown pile")
	}
}

func TestWritePiles(t *testing.T) {
	var buf bytes.Buffer
	if err := writePiles(&buf, model.PileSet{Mastered: []string{"a", "b"}}); err != nil {
		t.Fatalf("write piles: %v", err)
	}
	want := "mastered (2): a b\nneeds-work (0):\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestRenderPlainStats(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "teeline.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	ctx := context.Background()
	for i, glyphID := range []string{"a", "b", "a"} {
		score := 0.9 - 0.3*float64(i)
		_, err := st.RecordAttempt(ctx, model.Attempt{
			Profile:   "ann",
			Glyph:     glyphID,
			Level:     model.Beginner.Name,
			Threshold: model.Beginner.Threshold,
			Score:     score,
			Passed:    score >= model.Beginner.Threshold,
			Points:    10,
			CreatedAt: time.Unix(int64(i), 0),
		})
		if err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	var buf bytes.Buffer
	cfg := model.StatsConfig{Profile: "ann", CurveWindow: 1}
	if err := renderPlainStats(ctx, &buf, st, cfg, 60, false); err != nil {
		t.Fatalf("render stats: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Attempts: 3", "Learning Curves", "Per-Glyph", "needs-work", "mastered"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := renderPlainStats(ctx, &buf, st, model.StatsConfig{Profile: "bob", CurveWindow: 1}, 60, false); err != nil {
		t.Fatalf("render empty stats: %v", err)
	}
	if !strings.Contains(buf.String(), "No attempts found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}
