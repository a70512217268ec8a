package ardent

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// cameraScroll drives a ScrollTo animation. A single tween runs progress
// from 0 to 1 and the position is interpolated between from and to.
type cameraScroll struct {
	from, to Vec2
	progress *gween.Tween
}

// Camera controls the view into the scene: position, zoom, rotation, and viewport.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	// CullEnabled drops draw items whose screen AABB misses the viewport.
	CullEnabled bool

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	Bounds        Rect

	followTarget NodeID
	followOffset Vec2
	followLerp   float64

	scroll *cameraScroll
}

// NewCamera creates a camera centred on the viewport with no zoom.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		X:           viewport.X + viewport.Width/2,
		Y:           viewport.Y + viewport.Height/2,
		Zoom:        1.0,
		Viewport:    viewport,
		CullEnabled: true,
	}
}

// SetCamera attaches a camera to the scene. Snapshot applies its view
// matrix and the input helpers convert screen points through it. Pass nil
// to render in world space.
func (s *Scene) SetCamera(c *Camera) {
	s.camera = c
}

// Camera returns the attached camera, or nil.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Follow makes the camera track a node's world origin with the given offset
// and lerp factor. A lerp of 1.0 snaps immediately.
func (c *Camera) Follow(id NodeID, offsetX, offsetY, lerp float64) {
	c.followTarget = id
	c.followOffset = Vec2{X: offsetX, Y: offsetY}
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera) Unfollow() {
	c.followTarget = NodeID{}
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scroll = &cameraScroll{
		from:     Vec2{X: c.X, Y: c.Y},
		to:       Vec2{X: x, Y: y},
		progress: gween.New(0, 1, duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the camera position. No-op if
// BoundsEnabled is false.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// update runs one frame of camera motion: follow first, then any scroll
// animation, then the bounds clamp. A follow target that has been removed
// from the scene is dropped.
func (c *Camera) update(dt float32, s *Scene) {
	if !c.followTarget.IsZero() {
		if n := s.node(c.followTarget); n != nil {
			tx, ty := s.worldMatrix(n).Translation()
			c.X += (tx + c.followOffset.X - c.X) * c.followLerp
			c.Y += (ty + c.followOffset.Y - c.Y) * c.followLerp
		} else {
			c.followTarget = NodeID{}
		}
	}

	if sc := c.scroll; sc != nil {
		t, done := sc.progress.Update(dt)
		k := float64(t)
		c.X = sc.from.X + (sc.to.X-sc.from.X)*k
		c.Y = sc.from.Y + (sc.to.Y-sc.from.Y)*k
		if done {
			c.X, c.Y = sc.to.X, sc.to.Y
			c.scroll = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

func (c *Camera) zoom() float64 {
	if c.Zoom == 0 {
		return 1
	}
	return c.Zoom
}

func (c *Camera) clampToBounds() {
	z := c.zoom()
	c.X = clampAxis(c.X, c.Bounds.X, c.Bounds.Width, c.Viewport.Width/z)
	c.Y = clampAxis(c.Y, c.Bounds.Y, c.Bounds.Height, c.Viewport.Height/z)
}

// clampAxis keeps a camera centre at pos so that a visible span of the given
// length stays inside [start, start+length). Worlds narrower than the span
// are centred.
func clampAxis(pos, start, length, visible float64) float64 {
	if length <= visible {
		return start + length/2
	}
	return math.Max(start+visible/2, math.Min(pos, start+length-visible/2))
}

// ViewMatrix maps world space to screen space:
//
//	Translate(viewport center) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
func (c *Camera) ViewMatrix() Affine {
	z := c.zoom()
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	return Translate(cx, cy).
		Mul(Scale(z, z)).
		Mul(Rotate(-c.Rotation)).
		Mul(Translate(-c.X, -c.Y))
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.ViewMatrix().Apply(wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	inv, _ := c.ViewMatrix().Invert()
	return inv.Apply(sx, sy)
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's
// visible area in world space.
func (c *Camera) VisibleBounds() Rect {
	inv, _ := c.ViewMatrix().Invert()
	return inv.TransformRect(c.Viewport)
}

// ScreenToWorld converts a screen point through the attached camera. Without
// a camera screen and world space coincide.
func (s *Scene) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	if s.camera == nil {
		return sx, sy
	}
	return s.camera.ScreenToWorld(sx, sy)
}
