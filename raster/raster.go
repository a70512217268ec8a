// Package raster paints ardent frames with the gg software renderer.
package raster

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/gg"

	"github.com/phanxgames/ardent"
)

// Renderer paints frames onto a fixed-size canvas.
type Renderer struct {
	Width, Height int
	Background    ardent.Color
}

// New returns a renderer for a w x h canvas with a transparent background.
func New(w, h int) *Renderer {
	return &Renderer{Width: w, Height: h}
}

// Render paints f and returns the resulting context. The caller owns it and
// should Close it.
func (r *Renderer) Render(f *ardent.Frame) (*gg.Context, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("raster: invalid canvas %dx%d", r.Width, r.Height)
	}
	dc := gg.NewContext(r.Width, r.Height)
	bg := r.Background
	dc.ClearWithColor(gg.RGBA2(bg.R, bg.G, bg.B, bg.A))
	dc.SetFillRule(gg.FillRuleNonZero)

	var errs []error
	for i := range f.Items {
		if err := drawItem(dc, &f.Items[i]); err != nil {
			errs = append(errs, fmt.Errorf("draw %s: %w", f.Items[i].ID, err))
		}
	}
	return dc, errors.Join(errs...)
}

// Image renders f and returns the pixels.
func (r *Renderer) Image(f *ardent.Frame) (image.Image, error) {
	dc, err := r.Render(f)
	if dc == nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), err
}

// EncodePNG renders f and writes it to w as PNG.
func (r *Renderer) EncodePNG(w io.Writer, f *ardent.Frame) error {
	dc, err := r.Render(f)
	if dc == nil {
		return err
	}
	defer dc.Close()
	if err != nil {
		ardent.Logger().Warn("raster: partial frame", "seq", f.Seq, "err", err)
	}
	return dc.EncodePNG(w)
}

func drawItem(dc *gg.Context, it *ardent.DrawItem) error {
	if it.Outline == nil || len(it.Outline.Elements()) == 0 {
		return nil
	}
	alpha := it.Style.Opacity
	if alpha <= 0 {
		return nil
	}
	path := it.Outline.Transform(it.Transform.GG())
	fill, stroke := it.Style.Fill, it.Style.Stroke
	if stroke != nil && stroke.Width <= 0 {
		stroke = nil
	}
	// Stroke width is given in local units.
	var width float64
	if stroke != nil {
		width = stroke.Width * scaleOf(it.Transform)
	}

	// Outside strokes are drawn at double width under the fill.
	if stroke != nil && stroke.Align == ardent.StrokeOutside {
		if err := strokePath(dc, path, stroke.Color, alpha, 2*width); err != nil {
			return err
		}
	}
	if fill != nil {
		appendPath(dc, path)
		c := fill.Color
		dc.SetRGBA(c.R, c.G, c.B, c.A*alpha)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if stroke == nil {
		return nil
	}
	switch stroke.Align {
	case ardent.StrokeInside:
		dc.Push()
		appendPath(dc, path)
		dc.Clip()
		err := strokePath(dc, path, stroke.Color, alpha, 2*width)
		dc.Pop()
		return err
	case ardent.StrokeCenter:
		return strokePath(dc, path, stroke.Color, alpha, width)
	}
	return nil
}

func strokePath(dc *gg.Context, path *gg.Path, c ardent.Color, alpha, width float64) error {
	appendPath(dc, path)
	dc.SetRGBA(c.R, c.G, c.B, c.A*alpha)
	dc.SetLineWidth(width)
	return dc.Stroke()
}

// appendPath replays a device-space path into dc's current path.
func appendPath(dc *gg.Context, p *gg.Path) {
	dc.ClearPath()
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			dc.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			dc.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			dc.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			dc.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			dc.ClosePath()
		}
	}
}

// scaleOf returns the geometric mean of the matrix's axis scales.
func scaleOf(m ardent.Affine) float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

// PNGWriter returns a ScreenshotFunc that renders each frame at w x h and
// writes it to dir as <timestamp>_<label>.png. Errors are logged.
func PNGWriter(dir string, w, h int) ardent.ScreenshotFunc {
	r := New(w, h)
	return func(label string, f *ardent.Frame) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			ardent.Logger().Error("raster: screenshot mkdir", "dir", dir, "err", err)
			return
		}
		stamp := time.Now().Format("20060102_150405")
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, r, f); err != nil {
			ardent.Logger().Error("raster: screenshot", "err", err)
		}
	}
}

func writePNG(path string, r *Renderer, f *ardent.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.EncodePNG(out, f); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
