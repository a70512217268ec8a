package ardent

import (
	"errors"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10).WithTransform(Scale(2, 2).WithTranslation(10, 20)))

	g, err := TweenPosition(s, id, 100, 200, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	for range 120 {
		g.Update(1.0 / 60.0)
	}
	if !g.Done {
		t.Error("tween should be done")
	}
	v, _ := s.Get(id)
	x, y := v.Transform.Translation()
	if !approxEqual(x, 100, 0.01) || !approxEqual(y, 200, 0.01) {
		t.Errorf("position = (%f, %f), want (100, 200)", x, y)
	}
	if v.Transform[0] != 2 || v.Transform[3] != 2 {
		t.Error("TweenPosition must keep the linear part")
	}
}

func TestTweenPositionHalfway(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10))
	g, _ := TweenPosition(s, id, 100, 0, 1.0, ease.Linear)
	g.Update(0.5)

	v, _ := s.Get(id)
	if x, _ := v.Transform.Translation(); !approxEqual(x, 50, 0.01) {
		t.Errorf("x = %f, want 50", x)
	}
	if g.Done {
		t.Error("should not be done halfway")
	}
}

func TestTweenScaleReachesTarget(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10).At(5, 5))

	g, _ := TweenScale(s, id, 3, 0.5, 0.5, ease.Linear)
	for range 60 {
		g.Update(1.0 / 60.0)
	}
	v, _ := s.Get(id)
	assertMatrix(t, "scaled", v.Transform, Affine{3, 0, 0, 0.5, 5, 5})
}

func TestTweenOpacity(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10))
	g, _ := TweenOpacity(s, id, 0, 1.0, ease.Linear)

	g.Update(0.5)
	v, _ := s.Get(id)
	if !approxEqual(v.Style.Opacity, 0.5, 0.01) {
		t.Errorf("opacity halfway = %f, want 0.5", v.Style.Opacity)
	}
	g.Update(0.5)
	v, _ = s.Get(id)
	if !approxEqual(v.Style.Opacity, 0, 0.01) {
		t.Errorf("opacity end = %f, want 0", v.Style.Opacity)
	}
}

func TestTweenFillAllComponents(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10).WithFill(Color{0, 0, 0, 1}))
	target := Color{R: 1, G: 0.5, B: 0.25, A: 0.5}

	g, _ := TweenFill(s, id, target, 1.0, ease.Linear)
	g.Update(1.0)
	v, _ := s.Get(id)
	c := v.Style.Fill.Color
	if !approxEqual(c.R, 1, 0.01) || !approxEqual(c.G, 0.5, 0.01) ||
		!approxEqual(c.B, 0.25, 0.01) || !approxEqual(c.A, 0.5, 0.01) {
		t.Errorf("fill = %+v, want %+v", c, target)
	}
}

func TestTweenFillFromNoFill(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10))
	g, _ := TweenFill(s, id, ColorWhite, 1.0, ease.Linear)
	g.Update(0.5)

	v, _ := s.Get(id)
	if v.Style.Fill == nil {
		t.Fatal("fill should be created")
	}
	if !approxEqual(v.Style.Fill.Color.A, 0.5, 0.01) {
		t.Errorf("alpha = %f, want 0.5 (from transparent)", v.Style.Fill.Color.A)
	}
}

func TestTweenGroupDoneFlagTransition(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10))
	g, _ := TweenOpacity(s, id, 0, 0.1, ease.Linear)

	if g.Done {
		t.Error("Done before any update")
	}
	g.Update(0.05)
	if g.Done {
		t.Error("Done halfway")
	}
	g.Update(0.1)
	if !g.Done {
		t.Error("not Done after the duration")
	}
	// Further updates are no-ops.
	s.SetStyle(id, Style{Opacity: 1})
	g.Update(0.1)
	if v, _ := s.Get(id); v.Style.Opacity != 1 {
		t.Error("finished tween kept writing")
	}
}

func TestTweenGroupMarksDirty(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10))
	s.Layout(Size{Width: 100, Height: 100})

	g, _ := TweenPosition(s, id, 50, 50, 1.0, ease.Linear)
	g.Update(0.1)
	if !s.IsDirty(id) {
		t.Error("tween should dirty the node")
	}
}

func TestTweenUnknownNode(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10))
	s.Remove(id)

	if _, err := TweenPosition(s, id, 1, 1, 1, ease.Linear); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := TweenFill(s, NodeID{}, ColorWhite, 1, ease.Linear); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestTweenGroupRemovedMidAnimation(t *testing.T) {
	s := NewScene()
	id, _ := s.Insert(s.Root(), NewRect("r", 10, 10))
	g, _ := TweenPosition(s, id, 100, 100, 1.0, ease.Linear)
	g.Update(0.1)
	s.Remove(id)

	g.Update(0.1)
	if !g.Done {
		t.Error("tween should stop once its node is removed")
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	s := NewScene()
	a, _ := s.Insert(s.Root(), NewRect("a", 10, 10))
	b, _ := s.Insert(s.Root(), NewRect("b", 10, 10))
	ga, _ := TweenPosition(s, a, 100, 0, 1.0, ease.Linear)
	gb, _ := TweenPosition(s, b, 100, 0, 1.0, ease.InQuad)
	ga.Update(0.5)
	gb.Update(0.5)

	va, _ := s.Get(a)
	vb, _ := s.Get(b)
	xa, _ := va.Transform.Translation()
	xb, _ := vb.Transform.Translation()
	if approxEqual(xa, xb, 0.01) {
		t.Errorf("linear and in-quad agree at t=0.5: %f", xa)
	}
}
