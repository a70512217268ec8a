// Package textrun shapes strings into ardent text runs. Glyphs are
// converted to vector outlines once, at shaping time, so a run is drawn and
// hit-tested like any other path.
package textrun

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/phanxgames/ardent"
)

// Shaper turns strings into TextRuns using a single font.
type Shaper struct {
	src *text.FontSource
	ext *text.OutlineExtractor
}

// New parses TTF/OTF font data.
func New(fontData []byte) (*Shaper, error) {
	src, err := text.NewFontSource(fontData)
	if err != nil {
		return nil, fmt.Errorf("textrun: load font: %w", err)
	}
	return NewFromSource(src), nil
}

// NewFromSource wraps an already loaded font source.
func NewFromSource(src *text.FontSource) *Shaper {
	return &Shaper{src: src, ext: text.NewOutlineExtractor()}
}

// Run shapes content at size pixels. The outline's origin is the top-left
// of the line box: the baseline sits at y = Ascent.
func (s *Shaper) Run(content string, size float64) (ardent.TextRun, error) {
	if size <= 0 {
		return ardent.TextRun{}, fmt.Errorf("textrun: invalid size %v", size)
	}
	face := s.src.Face(size)
	m := face.Metrics()
	run := ardent.TextRun{
		Content: content,
		Outline: gg.NewPath(),
		Advance: face.Advance(content),
		Ascent:  m.Ascent,
		Descent: m.Descent,
	}

	parsed := s.src.Parsed()
	for _, g := range text.Shape(content, face) {
		out, err := s.ext.ExtractOutline(parsed, g.GID, size)
		if err != nil {
			ardent.Logger().Debug("textrun: glyph skipped", "gid", g.GID, "err", err)
			continue
		}
		if out == nil {
			continue
		}
		appendGlyph(run.Outline, out, g.X, m.Ascent+g.Y)
	}
	return run, nil
}

// Node shapes content and returns a text node payload.
func (s *Shaper) Node(name, content string, size float64) (ardent.NodeData, error) {
	run, err := s.Run(content, size)
	if err != nil {
		return ardent.NodeData{}, err
	}
	return ardent.NewText(name, run), nil
}

// appendGlyph adds a glyph outline to p offset by (dx, dy). Contours are
// closed explicitly.
func appendGlyph(p *gg.Path, out *text.GlyphOutline, dx, dy float64) {
	open := false
	pt := func(o text.OutlinePoint) (float64, float64) {
		return dx + float64(o.X), dy + float64(o.Y)
	}
	for _, seg := range out.Segments {
		switch seg.Op {
		case text.OutlineOpMoveTo:
			if open {
				p.Close()
			}
			x, y := pt(seg.Points[0])
			p.MoveTo(x, y)
			open = true
		case text.OutlineOpLineTo:
			x, y := pt(seg.Points[0])
			p.LineTo(x, y)
		case text.OutlineOpQuadTo:
			cx, cy := pt(seg.Points[0])
			x, y := pt(seg.Points[1])
			p.QuadraticTo(cx, cy, x, y)
		case text.OutlineOpCubicTo:
			c1x, c1y := pt(seg.Points[0])
			c2x, c2y := pt(seg.Points[1])
			x, y := pt(seg.Points[2])
			p.CubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		p.Close()
	}
}
