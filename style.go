package ardent

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA8 builds a color from 8-bit channels.
func RGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// StrokeAlign positions a stroke relative to the shape outline.
type StrokeAlign uint8

const (
	StrokeCenter  StrokeAlign = iota // straddles the outline
	StrokeInside                     // entirely inside the outline
	StrokeOutside                    // entirely outside the outline
)

// Fill paints the interior of a shape.
type Fill struct {
	Color Color
}

// Stroke paints the outline of a shape.
type Stroke struct {
	Color Color
	Width float64
	Align StrokeAlign
}

// Style holds the visual attributes of a node. Fill and Stroke are optional.
// ZIndex orders siblings for painting and hit-testing; ties keep insertion
// order.
type Style struct {
	Fill    *Fill
	Stroke  *Stroke
	Opacity float64
	ZIndex  int
}

// DefaultStyle returns a fully opaque style with no fill or stroke.
func DefaultStyle() Style {
	return Style{Opacity: 1}
}

// Filled returns an opaque style filled with c.
func Filled(c Color) Style {
	return Style{Fill: &Fill{Color: c}, Opacity: 1}
}

// clone deep-copies the optional paint pointers.
func (s Style) clone() Style {
	if s.Fill != nil {
		f := *s.Fill
		s.Fill = &f
	}
	if s.Stroke != nil {
		st := *s.Stroke
		s.Stroke = &st
	}
	return s
}
