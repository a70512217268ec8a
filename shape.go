package ardent

import (
	"math"

	"github.com/gogpu/gg"
)

// ShapeKind selects the geometry variant held by a Shape.
type ShapeKind uint8

const (
	ShapeGroup   ShapeKind = iota // no visual output; hit-tested by its geometry box
	ShapeRect                     // axis-aligned rectangle, optionally rounded
	ShapeEllipse                  // ellipse inscribed in Width x Height
	ShapePath                     // arbitrary vector path
	ShapeText                     // pre-shaped text run
)

// HitShape overrides the outline used for hit testing, in local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// TextRun is a shaped line of text whose glyph outlines have already been
// merged into one path. The path's origin is the top-left of the line box:
// the baseline sits at y = Ascent.
type TextRun struct {
	Content string
	Outline *gg.Path
	Advance float64
	Ascent  float64
	Descent float64
}

// LineBox returns the run's full line box as a hit area. Assign it to
// Shape.HitShape to make gaps between glyphs clickable.
func (r TextRun) LineBox() HitRect {
	return HitRect{Width: r.Advance, Height: r.Ascent + r.Descent}
}

// Shape is the geometry of a node. A single flat struct covers every variant;
// fields that do not apply to Kind are ignored.
type Shape struct {
	Kind ShapeKind

	// Rect and ellipse intrinsic size. Nodes under layout are stretched to
	// their resolved size instead.
	Width, Height float64
	// CornerRadius rounds ShapeRect corners.
	CornerRadius float64

	Path *gg.Path
	Text *TextRun

	// HitShape, when set, replaces the outline for containment tests.
	HitShape HitShape
}

// GroupShape returns the shape of a pure container.
func GroupShape() Shape { return Shape{Kind: ShapeGroup} }

// RectShape returns a w x h rectangle.
func RectShape(w, h float64) Shape { return Shape{Kind: ShapeRect, Width: w, Height: h} }

// RoundedRectShape returns a w x h rectangle with corner radius r.
func RoundedRectShape(w, h, r float64) Shape {
	return Shape{Kind: ShapeRect, Width: w, Height: h, CornerRadius: r}
}

// EllipseShape returns an ellipse inscribed in a w x h box.
func EllipseShape(w, h float64) Shape { return Shape{Kind: ShapeEllipse, Width: w, Height: h} }

// PathShape wraps a vector path. The path is cloned.
func PathShape(p *gg.Path) Shape {
	if p == nil {
		p = gg.NewPath()
	}
	return Shape{Kind: ShapePath, Path: p.Clone()}
}

// TextShape wraps a shaped text run.
func TextShape(run TextRun) Shape {
	if run.Outline != nil {
		run.Outline = run.Outline.Clone()
	}
	return Shape{Kind: ShapeText, Text: &run}
}

// IntrinsicSize is the content size reported to layout for leaf nodes.
func (s Shape) IntrinsicSize() Size {
	switch s.Kind {
	case ShapeRect, ShapeEllipse:
		return Size{Width: math.Max(0, s.Width), Height: math.Max(0, s.Height)}
	case ShapePath:
		if s.Path == nil || len(s.Path.Elements()) == 0 {
			return Size{}
		}
		bb := s.Path.BoundingBox()
		return Size{Width: math.Max(0, bb.Max.X), Height: math.Max(0, bb.Max.Y)}
	case ShapeText:
		if s.Text == nil {
			return Size{}
		}
		return Size{
			Width:  math.Max(0, s.Text.Advance),
			Height: math.Max(0, s.Text.Ascent+s.Text.Descent),
		}
	default:
		return Size{}
	}
}

// Bounds returns the intrinsic local-space bounds of the shape.
func (s Shape) Bounds() Rect {
	if s.Kind == ShapePath {
		if s.Path == nil || len(s.Path.Elements()) == 0 {
			return Rect{}
		}
		bb := s.Path.BoundingBox()
		return Rect{X: bb.Min.X, Y: bb.Min.Y, Width: bb.Width(), Height: bb.Height()}
	}
	sz := s.IntrinsicSize()
	return Rect{Width: sz.Width, Height: sz.Height}
}

// Outline builds the drawable path for the shape at the given resolved size.
// Rects and ellipses fill size; paths and text keep their own coordinates.
// Groups have no outline and return nil. The result must not be mutated.
func (s Shape) Outline(size Size) *gg.Path {
	switch s.Kind {
	case ShapeRect:
		p := gg.NewPath()
		if s.CornerRadius > 0 {
			r := math.Min(s.CornerRadius, math.Min(size.Width, size.Height)/2)
			p.RoundedRectangle(0, 0, size.Width, size.Height, r)
		} else {
			p.Rectangle(0, 0, size.Width, size.Height)
		}
		return p
	case ShapeEllipse:
		p := gg.NewPath()
		rx, ry := size.Width/2, size.Height/2
		if rx > 0 && ry > 0 {
			p.Ellipse(rx, ry, rx, ry)
		}
		return p
	case ShapePath:
		return s.Path
	case ShapeText:
		if s.Text == nil {
			return nil
		}
		return s.Text.Outline
	default:
		return nil
	}
}

// Contains reports whether the local point (x, y) lies inside the shape
// rendered at size. Edges count as inside.
func (s Shape) Contains(x, y float64, size Size) bool {
	if s.HitShape != nil {
		return s.HitShape.Contains(x, y)
	}
	switch s.Kind {
	case ShapeRect:
		if x < 0 || y < 0 || x > size.Width || y > size.Height {
			return false
		}
		if s.CornerRadius <= 0 {
			return true
		}
		return s.Outline(size).Contains(gg.Pt(x, y))
	case ShapeEllipse:
		rx, ry := size.Width/2, size.Height/2
		if rx <= 0 || ry <= 0 {
			return false
		}
		dx := (x - rx) / rx
		dy := (y - ry) / ry
		return dx*dx+dy*dy <= 1
	case ShapePath:
		if s.Path == nil {
			return false
		}
		return s.Path.Contains(gg.Pt(x, y))
	case ShapeText:
		if s.Text == nil || s.Text.Outline == nil {
			return false
		}
		return s.Text.Outline.Contains(gg.Pt(x, y))
	case ShapeGroup:
		if size.Width <= 0 || size.Height <= 0 {
			return false
		}
		return x >= 0 && y >= 0 && x <= size.Width && y <= size.Height
	default:
		return false
	}
}

// clone deep-copies path data so snapshots never alias live geometry.
func (s Shape) clone() Shape {
	if s.Path != nil {
		s.Path = s.Path.Clone()
	}
	if s.Text != nil {
		t := *s.Text
		if t.Outline != nil {
			t.Outline = t.Outline.Clone()
		}
		s.Text = &t
	}
	return s
}

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside the polygon using a
// cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}
