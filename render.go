package ardent

import (
	"time"

	"github.com/gogpu/gg"
)

// DrawItem is one drawable node in a Frame. All fields are copies; nothing
// aliases the live scene.
type DrawItem struct {
	ID   NodeID
	Name string
	Kind ShapeKind

	// Outline is the shape's path in local space.
	Outline *gg.Path
	// Transform maps local space to screen space (world, then camera view).
	Transform Affine
	// Style carries the effective opacity: the product of the node's and
	// every ancestor's opacity.
	Style Style
	// Size is the size the outline was built for.
	Size Size
	// Bounds is the screen-space axis-aligned bounding box.
	Bounds Rect
}

// Frame is an immutable snapshot of everything that needs painting, in
// paint order. Frames are safe to hand to another goroutine.
type Frame struct {
	Seq   uint64
	Items []DrawItem
}

// Len returns the number of draw items.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Items)
}

// Snapshot captures the scene for rendering. Call it after layout. Hidden
// subtrees and group shapes emit nothing. When an attached camera has culling
// enabled, items entirely outside its viewport are skipped.
func (s *Scene) Snapshot() *Frame {
	var stats snapshotStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.frameSeq++
	f := &Frame{Seq: s.frameSeq}
	view := Identity
	var cull *Rect
	if s.camera != nil {
		view = s.camera.ViewMatrix()
		if s.camera.CullEnabled {
			vp := s.camera.Viewport
			cull = &vp
		}
	}
	s.snapshot(s.node(s.root), view, 1, cull, f, &stats)

	if s.debug {
		stats.traverseTime = time.Since(t0)
		stats.items = len(f.Items)
		s.debugSnapshot(stats)
	}
	return f
}

func (s *Scene) snapshot(n *node, parent Affine, parentAlpha float64, cull *Rect, f *Frame, st *snapshotStats) {
	if n.hidden {
		return
	}
	st.visited++
	m := parent.Mul(n.localMatrix())
	alpha := parentAlpha * n.style.Opacity

	if n.shape.Kind != ShapeGroup {
		size := n.renderSize()
		if outline := n.shape.Outline(size); outline != nil {
			bounds := m.TransformRect(n.localBox())
			if cull != nil && !bounds.Intersects(*cull) {
				st.culled++
			} else {
				item := DrawItem{
					ID:        n.id,
					Name:      n.name,
					Kind:      n.shape.Kind,
					Outline:   outline.Clone(),
					Transform: m,
					Style:     n.style.clone(),
					Size:      size,
					Bounds:    bounds,
				}
				item.Style.Opacity = alpha
				f.Items = append(f.Items, item)
			}
		}
	}

	// Culling only suppresses this node; children may lie elsewhere.
	for _, cid := range s.paintOrder(n) {
		if c := s.node(cid); c != nil {
			s.snapshot(c, m, alpha, cull, f, st)
		}
	}
}
