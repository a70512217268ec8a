// Package ebitenrun hosts an ardent scene in an Ebitengine window: it polls
// the mouse into Scene.Pointer, re-runs layout at the window size and fills
// each snapshot item through ebiten's vector tessellator.
package ebitenrun

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/ardent"
)

// RunConfig configures the window and loop created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ClearColor    ardent.Color
	ShowFPS       bool
	// Update is called once per tick before input and layout. Returning an
	// error stops the loop.
	Update func() error
}

var whiteSubImage *ebiten.Image

func init() {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// Game adapts a Scene to ebiten.Game.
type Game struct {
	scene *ardent.Scene
	cfg   RunConfig
	w, h  int

	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewGame returns an ebiten.Game driving scene.
func NewGame(scene *ardent.Scene, cfg RunConfig) *Game {
	return &Game{scene: scene, cfg: cfg, w: cfg.Width, h: cfg.Height}
}

// Run opens a window and blocks until it is closed or Update fails.
func Run(scene *ardent.Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("ebitenrun: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(NewGame(scene, cfg))
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	dt := float32(1.0 / float64(ebiten.TPS()))
	if !g.scene.Update(dt) {
		g.pollMouse()
	}
	g.scene.Layout(ardent.Size{Width: float64(g.w), Height: float64(g.h)})
	return nil
}

func (g *Game) pollMouse() {
	mx, my := ebiten.CursorPosition()
	wx, wy := g.scene.ScreenToWorld(float64(mx), float64(my))

	var pressed bool
	var button ardent.MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, ardent.MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, ardent.MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, ardent.MouseButtonMiddle
	}
	g.scene.Pointer(0, wx, wy, pressed, button, readModifiers())
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() ardent.KeyModifiers {
	var mods ardent.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ardent.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ardent.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ardent.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ardent.ModMeta
	}
	return mods
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	c := g.cfg.ClearColor
	screen.Fill(color.NRGBA{
		R: uint8(c.R * 255), G: uint8(c.G * 255),
		B: uint8(c.B * 255), A: uint8(c.A * 255),
	})
	frame := g.scene.Snapshot()
	for i := range frame.Items {
		g.drawItem(screen, &frame.Items[i])
	}
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.w, g.h = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) drawItem(screen *ebiten.Image, it *ardent.DrawItem) {
	if it.Outline == nil || it.Style.Opacity <= 0 {
		return
	}
	g.loadPath(it.Outline.Transform(it.Transform.GG()))

	st := it.Style.Stroke
	var width float32
	if st != nil && st.Width > 0 {
		scale := math.Sqrt(math.Abs(it.Transform[0]*it.Transform[3] - it.Transform[1]*it.Transform[2]))
		width = float32(st.Width * scale)
	}
	// Outside strokes go under the fill at double width. Inside strokes are
	// drawn centred.
	if width > 0 && st.Align == ardent.StrokeOutside {
		g.stroke(screen, st.Color, it.Style.Opacity, 2*width)
	}
	if f := it.Style.Fill; f != nil {
		g.vertices, g.indices = g.path.AppendVerticesAndIndicesForFilling(g.vertices[:0], g.indices[:0])
		g.submit(screen, f.Color, it.Style.Opacity, ebiten.FillRuleNonZero)
	}
	if width > 0 && st.Align != ardent.StrokeOutside {
		g.stroke(screen, st.Color, it.Style.Opacity, width)
	}
}

func (g *Game) stroke(screen *ebiten.Image, c ardent.Color, alpha float64, width float32) {
	opts := &vector.StrokeOptions{Width: width, LineJoin: vector.LineJoinRound}
	g.vertices, g.indices = g.path.AppendVerticesAndIndicesForStroke(g.vertices[:0], g.indices[:0], opts)
	g.submit(screen, c, alpha, ebiten.FillRuleFillAll)
}

func (g *Game) submit(screen *ebiten.Image, c ardent.Color, alpha float64, rule ebiten.FillRule) {
	r, gr, b, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A*alpha)
	for i := range g.vertices {
		g.vertices[i].SrcX, g.vertices[i].SrcY = 1, 1
		g.vertices[i].ColorR = r
		g.vertices[i].ColorG = gr
		g.vertices[i].ColorB = b
		g.vertices[i].ColorA = a
	}
	screen.DrawTriangles(g.vertices, g.indices, whiteSubImage, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  rule,
	})
}

// loadPath replays a device-space gg path into the reusable vector.Path.
func (g *Game) loadPath(p *gg.Path) {
	g.path = vector.Path{}
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			g.path.MoveTo(float32(e.Point.X), float32(e.Point.Y))
		case gg.LineTo:
			g.path.LineTo(float32(e.Point.X), float32(e.Point.Y))
		case gg.QuadTo:
			g.path.QuadTo(float32(e.Control.X), float32(e.Control.Y), float32(e.Point.X), float32(e.Point.Y))
		case gg.CubicTo:
			g.path.CubicTo(
				float32(e.Control1.X), float32(e.Control1.Y),
				float32(e.Control2.X), float32(e.Control2.Y),
				float32(e.Point.X), float32(e.Point.Y))
		case gg.Close:
			g.path.Close()
		}
	}
}
