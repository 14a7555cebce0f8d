package glyph

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the pixels-per-em used when importing font outlines.
const DefaultFontSize = 100

// FromFont converts the outlines of chars in an OpenType or TrueType font to
// path descriptions keyed by character. Characters the font lacks, and those
// without an outline such as space, are returned in missing.
func FromFont(data []byte, chars string, size float64) (paths map[string]string, missing []string, err error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse font: %w", err)
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	ppem := fixed.Int26_6(size * 64)

	var buf sfnt.Buffer
	paths = map[string]string{}
	for _, r := range chars {
		id := string(r)
		if _, ok := paths[id]; ok {
			continue
		}
		gid, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up %q: %w", r, err)
		}
		if gid == 0 {
			missing = append(missing, id)
			continue
		}
		segments, err := f.LoadGlyph(&buf, gid, ppem, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load glyph %q: %w", r, err)
		}
		d := outlinePath(segments)
		if d == "" {
			missing = append(missing, id)
			continue
		}
		paths[id] = d
	}
	return paths, missing, nil
}

// outlinePath writes sfnt segments as absolute path commands, closing each
// contour before the next one starts.
func outlinePath(segments sfnt.Segments) string {
	var b strings.Builder
	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				b.WriteString(" Z ")
			}
			b.WriteString("M")
			writePoints(&b, seg.Args[:1])
			open = true
		case sfnt.SegmentOpLineTo:
			b.WriteString(" L")
			writePoints(&b, seg.Args[:1])
		case sfnt.SegmentOpQuadTo:
			b.WriteString(" Q")
			writePoints(&b, seg.Args[:2])
		case sfnt.SegmentOpCubeTo:
			b.WriteString(" C")
			writePoints(&b, seg.Args[:3])
		}
	}
	if open {
		b.WriteString(" Z")
	}
	return b.String()
}

func writePoints(b *strings.Builder, pts []fixed.Point26_6) {
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatNumber(float64(p.X) / 64))
		b.WriteByte(',')
		b.WriteString(formatNumber(float64(p.Y) / 64))
	}
}

// SVGDocument wraps a path description in a minimal SVG document whose
// viewBox fits the path.
func SVGDocument(d string) (string, error) {
	doc := fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\">\n  <path d=%q fill=\"none\" stroke=\"black\"/>\n</svg>\n", d)
	return NormalizeSVG(doc)
}
