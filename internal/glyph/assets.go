package glyph

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrGlyphNotFound is returned when a glyph id has no reference path.
var ErrGlyphNotFound = errors.New("glyph not found")

var (
	pathDataRe  = regexp.MustCompile(`<path[^>]*\sd="([^"]*)"`)
	svgOpenRe   = regexp.MustCompile(`<svg\b[^>]*>`)
	viewBoxRe   = regexp.MustCompile(`\sviewBox="[^"]*"`)
	pathOpenRe  = regexp.MustCompile(`<path\b[^>]*>`)
	transformRe = regexp.MustCompile(`\stransform="[^"]*"`)
)

// Set maps glyph ids to reference path descriptions.
type Set struct {
	ids   []string
	paths map[string]string
}

// NewSet builds a set from id -> path pairs.
func NewSet(paths map[string]string) *Set {
	s := &Set{paths: make(map[string]string, len(paths))}
	for id, d := range paths {
		s.paths[id] = d
		s.ids = append(s.ids, id)
	}
	sort.Strings(s.ids)
	return s
}

// LoadDir reads every <id>.svg file in dir. Files without a path element are skipped.
func LoadDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".svg") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		d, ok := PathData(string(data))
		if !ok {
			continue
		}
		paths[strings.TrimSuffix(name, ".svg")] = d
	}
	return NewSet(paths), nil
}

// PathData returns the d attribute of the first path element in an SVG document.
func PathData(svg string) (string, bool) {
	m := pathDataRe.FindStringSubmatch(svg)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IDs returns the glyph ids in sorted order.
func (s *Set) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of glyphs.
func (s *Set) Len() int {
	return len(s.ids)
}

// Has reports whether id is in the set.
func (s *Set) Has(id string) bool {
	_, ok := s.paths[id]
	return ok
}

// Lookup returns the reference path for id.
func (s *Set) Lookup(id string) (string, error) {
	d, ok := s.paths[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrGlyphNotFound, id)
	}
	return d, nil
}

// NormalizeSVG rewrites the root viewBox to the bounding box of the first
// path's operand pairs and strips the path's transform attribute.
func NormalizeSVG(svg string) (string, error) {
	d, ok := PathData(svg)
	if !ok {
		return "", fmt.Errorf("no path element found")
	}
	var pairs []float64
	for _, cmd := range Tokenize(d, Loose) {
		n := len(cmd.Operands) &^ 1
		pairs = append(pairs, cmd.Operands[:n]...)
	}
	minX, minY, maxX, maxY, ok := Bounds(pairs)
	if !ok {
		return "", fmt.Errorf("path has no coordinates")
	}
	viewBox := fmt.Sprintf(` viewBox="%s %s %s %s"`,
		formatNumber(minX), formatNumber(minY), formatNumber(maxX-minX), formatNumber(maxY-minY))

	out := svgOpenRe.ReplaceAllStringFunc(svg, func(tag string) string {
		if viewBoxRe.MatchString(tag) {
			return viewBoxRe.ReplaceAllLiteralString(tag, viewBox)
		}
		return strings.Replace(tag, "<svg", "<svg"+viewBox, 1)
	})
	out = pathOpenRe.ReplaceAllStringFunc(out, func(tag string) string {
		return transformRe.ReplaceAllLiteralString(tag, "")
	})
	return out, nil
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
