package ardent

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values on a node simultaneously. Create one
// via TweenPosition, TweenScale, TweenOpacity or TweenFill and call
// Update(dt) each frame. Values are written through the scene setters, so
// every step dirties the node like any other edit. If the target node is
// removed, the group stops immediately.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	scene  *Scene
	target NodeID
	apply  func(s *Scene, n *node, v [4]float64)
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	n := g.scene.node(g.target)
	if n == nil {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := range g.count {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.scene, n, vals)
}

func newTweenGroup(s *Scene, id NodeID, apply func(*Scene, *node, [4]float64)) (*TweenGroup, *node, error) {
	n, err := s.lookup(id)
	if err != nil {
		return nil, nil, nodeErr("tween", id, err)
	}
	return &TweenGroup{scene: s, target: id, apply: apply}, n, nil
}

func (g *TweenGroup) add(from, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(from), float32(to), duration, fn)
	g.count++
}

// TweenPosition animates the translation of the node's transform to (toX, toY).
func TweenPosition(s *Scene, id NodeID, toX, toY float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	g, n, err := newTweenGroup(s, id, func(s *Scene, n *node, v [4]float64) {
		_ = s.SetTransform(n.id, n.transform.WithTranslation(v[0], v[1]))
	})
	if err != nil {
		return nil, err
	}
	x, y := n.transform.Translation()
	g.add(x, toX, duration, fn)
	g.add(y, toY, duration, fn)
	return g, nil
}

// TweenScale scales the node's current transform about its local origin by
// factors running from 1 to (toSX, toSY).
func TweenScale(s *Scene, id NodeID, toSX, toSY float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	var base Affine
	g, n, err := newTweenGroup(s, id, func(s *Scene, n *node, v [4]float64) {
		_ = s.SetTransform(n.id, base.Mul(Scale(v[0], v[1])))
	})
	if err != nil {
		return nil, err
	}
	base = n.transform
	g.add(1, toSX, duration, fn)
	g.add(1, toSY, duration, fn)
	return g, nil
}

// TweenOpacity animates the node's style opacity.
func TweenOpacity(s *Scene, id NodeID, to float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	g, n, err := newTweenGroup(s, id, func(s *Scene, n *node, v [4]float64) {
		st := n.style
		st.Opacity = v[0]
		_ = s.SetStyle(n.id, st)
	})
	if err != nil {
		return nil, err
	}
	g.add(n.style.Opacity, to, duration, fn)
	return g, nil
}

// TweenFill animates the node's fill colour. A node without a fill starts
// from transparent.
func TweenFill(s *Scene, id NodeID, to Color, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	g, n, err := newTweenGroup(s, id, func(s *Scene, n *node, v [4]float64) {
		st := n.style
		st.Fill = &Fill{Color: Color{R: v[0], G: v[1], B: v[2], A: v[3]}}
		_ = s.SetStyle(n.id, st)
	})
	if err != nil {
		return nil, err
	}
	var from Color
	if n.style.Fill != nil {
		from = n.style.Fill.Color
	}
	g.add(from.R, to.R, duration, fn)
	g.add(from.G, to.G, duration, fn)
	g.add(from.B, to.B, duration, fn)
	g.add(from.A, to.A, duration, fn)
	return g, nil
}
