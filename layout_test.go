package ardent

import (
	"math"
	"testing"
)

func geometryOf(t *testing.T, s *Scene, id NodeID) Geometry {
	t.Helper()
	v, ok := s.Get(id)
	if !ok {
		t.Fatalf("node %v missing", id)
	}
	if !v.HasGeometry {
		t.Fatalf("node %v (%s) has no geometry", id, v.Name)
	}
	return v.Geometry
}

func assertGeometry(t *testing.T, s *Scene, id NodeID, want Geometry) {
	t.Helper()
	got := geometryOf(t, s, id)
	if math.Abs(got.Position.X-want.Position.X) > epsilon ||
		math.Abs(got.Position.Y-want.Position.Y) > epsilon ||
		math.Abs(got.Size.Width-want.Size.Width) > epsilon ||
		math.Abs(got.Size.Height-want.Size.Height) > epsilon {
		t.Errorf("geometry = %+v, want %+v", got, want)
	}
}

func geo(x, y, w, h float64) Geometry {
	return Geometry{Position: Vec2{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// container inserts a layout group under the scene root.
func container(s *Scene, spec LayoutSpec) NodeID {
	id, _ := s.Insert(s.Root(), NewGroup("container").WithLayout(spec))
	return id
}

func item(s *Scene, parent NodeID, spec LayoutSpec) NodeID {
	id, _ := s.Insert(parent, NewGroup("").WithLayout(spec))
	return id
}

func TestLayoutRowGrowSplitsEvenly(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row})
	a := item(s, r, LayoutSpec{Grow: 1})
	b := item(s, r, LayoutSpec{Grow: 1})

	if err := s.ComputeLayout(r, Size{Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}
	assertGeometry(t, s, r, geo(0, 0, 100, 100))
	assertGeometry(t, s, a, geo(0, 0, 50, 100))
	assertGeometry(t, s, b, geo(50, 0, 50, 100))
	for _, id := range []NodeID{r, a, b} {
		if s.IsDirty(id) {
			t.Errorf("%v still dirty", id)
		}
	}
}

func TestLayoutUnknownRoot(t *testing.T) {
	s := NewScene()
	if err := s.ComputeLayout(NodeID{index: 9, gen: 1}, Size{}); err == nil {
		t.Error("expected error for unknown root")
	}
}

func TestLayoutGrowWeights(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Width: Fixed(120), Height: Fixed(10)})
	a := item(s, r, LayoutSpec{Grow: 1})
	b := item(s, r, LayoutSpec{Grow: 2})
	s.Layout(Size{Width: 500, Height: 500})

	assertGeometry(t, s, a, geo(0, 0, 40, 10))
	assertGeometry(t, s, b, geo(40, 0, 80, 10))
}

func TestLayoutShrinkWeightedByBasis(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(10)})
	a := item(s, r, LayoutSpec{Width: Fixed(80), Shrink: 1})
	b := item(s, r, LayoutSpec{Width: Fixed(80), Shrink: 1})
	s.Layout(Size{Width: 500, Height: 500})

	assertGeometry(t, s, a, geo(0, 0, 50, 10))
	assertGeometry(t, s, b, geo(50, 0, 50, 10))
}

func TestLayoutMaxFreezesAndRedistributes(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(10)})
	a := item(s, r, LayoutSpec{Grow: 1, MaxWidth: Fixed(20)})
	b := item(s, r, LayoutSpec{Grow: 1})
	s.Layout(Size{Width: 500, Height: 500})

	assertGeometry(t, s, a, geo(0, 0, 20, 10))
	assertGeometry(t, s, b, geo(20, 0, 80, 10))
}

func TestLayoutMinGreaterThanMax(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(10)})
	a := item(s, r, LayoutSpec{Grow: 1, MinWidth: Fixed(80), MaxWidth: Fixed(40)})
	s.Layout(Size{Width: 500, Height: 500})

	// min is lowered to max instead of failing.
	assertGeometry(t, s, a, geo(0, 0, 40, 10))
}

func TestLayoutNegativeAvailableClampsToZero(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Padding: Uniform(5)})
	a := item(s, r, LayoutSpec{Grow: 1})
	b := item(s, r, LayoutSpec{Width: Fixed(30)})

	if err := s.ComputeLayout(r, Size{Width: -50, Height: -10}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []NodeID{r, a, b} {
		g := geometryOf(t, s, id)
		if g.Size.Width < 0 || g.Size.Height < 0 {
			t.Errorf("%v has negative size %+v", id, g.Size)
		}
	}
	assertGeometry(t, s, r, geo(0, 0, 0, 0))
}

func TestLayoutOverflowIsClipped(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(10)})
	a := item(s, r, LayoutSpec{Width: Fixed(80)})
	b := item(s, r, LayoutSpec{Width: Fixed(80)})
	c := item(s, r, LayoutSpec{Width: Fixed(80)})
	s.Layout(Size{Width: 500, Height: 500})

	assertGeometry(t, s, a, geo(0, 0, 80, 10))
	assertGeometry(t, s, b, geo(80, 0, 20, 10))
	assertGeometry(t, s, c, geo(100, 0, 0, 10))
}

func TestLayoutJustify(t *testing.T) {
	tests := []struct {
		name    string
		justify Justify
		xs      []float64
	}{
		{"start", JustifyStart, []float64{0, 10, 20}},
		{"end", JustifyEnd, []float64{70, 80, 90}},
		{"center", JustifyCenter, []float64{35, 45, 55}},
		{"space between", JustifySpaceBetween, []float64{0, 45, 90}},
		{"space around", JustifySpaceAround, []float64{70.0 / 6, 45, 90 - 70.0/6}},
		{"space evenly", JustifySpaceEvenly, []float64{17.5, 45, 72.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene()
			r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(10), Justify: tt.justify})
			ids := make([]NodeID, len(tt.xs))
			for i := range ids {
				ids[i] = item(s, r, LayoutSpec{Width: Fixed(10)})
			}
			s.Layout(Size{Width: 100, Height: 100})
			for i, want := range tt.xs {
				assertGeometry(t, s, ids[i], geo(want, 0, 10, 10))
			}
		})
	}
}

func TestLayoutAlignItems(t *testing.T) {
	tests := []struct {
		name  string
		align Align
		child LayoutSpec
		want  Geometry
	}{
		{"auto stretches", AlignAuto, LayoutSpec{Width: Fixed(10)}, geo(0, 0, 10, 100)},
		{"stretch", AlignStretch, LayoutSpec{Width: Fixed(10)}, geo(0, 0, 10, 100)},
		{"stretch keeps fixed cross", AlignStretch, LayoutSpec{Width: Fixed(10), Height: Fixed(20)}, geo(0, 0, 10, 20)},
		{"stretch honours max", AlignStretch, LayoutSpec{Width: Fixed(10), MaxHeight: Fixed(30)}, geo(0, 0, 10, 30)},
		{"start", AlignStart, LayoutSpec{Width: Fixed(10), Height: Fixed(20)}, geo(0, 0, 10, 20)},
		{"end", AlignEnd, LayoutSpec{Width: Fixed(10), Height: Fixed(20)}, geo(0, 80, 10, 20)},
		{"center", AlignCenter, LayoutSpec{Width: Fixed(10), Height: Fixed(20)}, geo(0, 40, 10, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene()
			r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(100), AlignItems: tt.align})
			a := item(s, r, tt.child)
			s.Layout(Size{Width: 100, Height: 100})
			assertGeometry(t, s, a, tt.want)
		})
	}
}

func TestLayoutAlignSelfOverridesContainer(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(100), AlignItems: AlignStart})
	a := item(s, r, LayoutSpec{Width: Fixed(10), Height: Fixed(20)})
	b := item(s, r, LayoutSpec{Width: Fixed(10), Height: Fixed(20), AlignSelf: AlignEnd})
	s.Layout(Size{Width: 100, Height: 100})

	assertGeometry(t, s, a, geo(0, 0, 10, 20))
	assertGeometry(t, s, b, geo(10, 80, 10, 20))
}

func TestLayoutPaddingAndGap(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(100), Padding: Uniform(10), Gap: 5})
	a := item(s, r, LayoutSpec{Grow: 1})
	b := item(s, r, LayoutSpec{Grow: 1})
	s.Layout(Size{Width: 100, Height: 100})

	assertGeometry(t, s, a, geo(10, 10, 37.5, 80))
	assertGeometry(t, s, b, geo(52.5, 10, 37.5, 80))
}

func TestLayoutMargins(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Column, Width: Fixed(100), Height: Fixed(100)})
	a := item(s, r, LayoutSpec{Height: Fixed(20), Margin: Insets{Top: 5, Left: 3, Right: 7, Bottom: 2}})
	b := item(s, r, LayoutSpec{Grow: 1})
	s.Layout(Size{Width: 100, Height: 100})

	assertGeometry(t, s, a, geo(3, 5, 90, 20))
	assertGeometry(t, s, b, geo(0, 27, 100, 73))
}

func TestLayoutReverseDirections(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: RowReverse, Width: Fixed(100), Height: Fixed(10)})
	a := item(s, r, LayoutSpec{Width: Fixed(20)})
	b := item(s, r, LayoutSpec{Width: Fixed(30)})
	s.Layout(Size{Width: 100, Height: 100})
	assertGeometry(t, s, a, geo(80, 0, 20, 10))
	assertGeometry(t, s, b, geo(50, 0, 30, 10))

	s2 := NewScene()
	c := container(s2, LayoutSpec{Direction: ColumnReverse, Width: Fixed(10), Height: Fixed(100)})
	x := item(s2, c, LayoutSpec{Height: Fixed(20)})
	s2.Layout(Size{Width: 100, Height: 100})
	assertGeometry(t, s2, x, geo(0, 80, 10, 20))
}

func TestLayoutMeasureSumsChildren(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Padding: Uniform(5), Gap: 10})
	a := item(s, r, LayoutSpec{Width: Fixed(20), Height: Fixed(15)})
	b := item(s, r, LayoutSpec{Width: Fixed(30), Height: Fixed(10)})

	// The root is not a layout node, so r gets its measured size.
	s.Layout(Size{Width: 500, Height: 500})
	assertGeometry(t, s, r, geo(0, 0, 70, 25))
	assertGeometry(t, s, a, geo(5, 5, 20, 15))
	// b keeps its fixed height instead of stretching.
	assertGeometry(t, s, b, geo(35, 5, 30, 10))
}

func TestLayoutLeafIntrinsicSize(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Column, AlignItems: AlignStart})
	a, _ := s.Insert(r, NewRect("a", 40, 12).WithLayout(LayoutSpec{}))
	b, _ := s.Insert(r, NewEllipse("b", 10, 10).WithLayout(LayoutSpec{}))
	s.Layout(Size{Width: 500, Height: 500})

	assertGeometry(t, s, r, geo(0, 0, 40, 22))
	assertGeometry(t, s, a, geo(0, 0, 40, 12))
	assertGeometry(t, s, b, geo(0, 12, 10, 10))
}

func TestLayoutUnconstrainedNodeUsesTransform(t *testing.T) {
	s := NewScene()
	a, _ := s.Insert(s.Root(), NewRect("a", 30, 40).At(10, 20))
	b, _ := s.Insert(s.Root(), NewRect("b", 10, 20).WithTransform(Translate(100, 0).Mul(Rotate(math.Pi/2))))
	s.Layout(Size{Width: 500, Height: 500})

	assertGeometry(t, s, a, geo(10, 20, 30, 40))
	assertGeometry(t, s, b, geo(80, 0, 20, 10))
}

func TestLayoutUnconstrainedChildTakesNoFlowSpace(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(10)})
	badge, _ := s.Insert(r, NewRect("badge", 5, 5).At(90, 0))
	a := item(s, r, LayoutSpec{Grow: 1})
	s.Layout(Size{Width: 100, Height: 100})

	assertGeometry(t, s, a, geo(0, 0, 100, 10))
	assertGeometry(t, s, badge, geo(90, 0, 5, 5))
}

func TestLayoutHiddenNodesKeepTheirSlot(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Row, Width: Fixed(100), Height: Fixed(10)})
	a := item(s, r, LayoutSpec{Grow: 1})
	b := item(s, r, LayoutSpec{Grow: 1})
	s.SetHidden(a, true)
	s.Layout(Size{Width: 100, Height: 100})

	assertGeometry(t, s, b, geo(50, 0, 50, 10))
}

func TestLayoutIdempotentOnCleanTree(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Column, Padding: Uniform(4), Gap: 2})
	row := item(s, r, LayoutSpec{Direction: Row, Height: Fixed(30)})
	item(s, row, LayoutSpec{Grow: 1})
	item(s, row, LayoutSpec{Width: Fixed(25)})
	item(s, r, LayoutSpec{Grow: 1, MinHeight: Fixed(10)})
	s.Insert(r, NewEllipse("free", 8, 8).At(3, 3))

	s.ComputeLayout(r, Size{Width: 200, Height: 150})
	first := map[NodeID]Geometry{}
	for id := range s.Traverse() {
		v, _ := s.Get(id)
		first[id] = v.Geometry
	}

	s.ComputeLayout(r, Size{Width: 200, Height: 150})
	for id := range s.Traverse() {
		v, _ := s.Get(id)
		if v.Geometry != first[id] {
			t.Errorf("%v geometry changed: %+v -> %+v", id, first[id], v.Geometry)
		}
	}
}

func TestLayoutDirtyLeafLeavesSiblingsUntouched(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Column, Width: Fixed(100), Height: Fixed(100)})
	a := item(s, r, LayoutSpec{Direction: Row, Height: Fixed(30), AlignItems: AlignStart})
	a1 := item(s, a, LayoutSpec{Width: Fixed(20), Height: Fixed(10)})
	b := item(s, r, LayoutSpec{Direction: Row, Height: Fixed(30), AlignItems: AlignStart})
	b1 := item(s, b, LayoutSpec{Width: Fixed(20), Height: Fixed(10)})
	s.Layout(Size{Width: 100, Height: 100})

	beforeA := geometryOf(t, s, a)
	beforeA1 := geometryOf(t, s, a1)
	beforeB1 := geometryOf(t, s, b1)

	s.SetConstraints(b1, &LayoutSpec{Width: Fixed(45), Height: Fixed(10)})
	if s.IsDirty(a) || s.IsDirty(a1) {
		t.Fatal("sibling subtree marked dirty")
	}
	s.Layout(Size{Width: 100, Height: 100})

	if got := geometryOf(t, s, a); got != beforeA {
		t.Errorf("sibling a changed: %+v -> %+v", beforeA, got)
	}
	if got := geometryOf(t, s, a1); got != beforeA1 {
		t.Errorf("sibling child a1 changed: %+v -> %+v", beforeA1, got)
	}
	if got := geometryOf(t, s, b1); got == beforeB1 {
		t.Error("dirty leaf geometry did not change")
	}
	assertGeometry(t, s, b1, geo(0, 0, 45, 10))
}

func TestLayoutSkipsCleanSubtrees(t *testing.T) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Column, Width: Fixed(100), Height: Fixed(100)})
	item(s, r, LayoutSpec{Height: Fixed(30)})
	b := item(s, r, LayoutSpec{Height: Fixed(30)})
	s.Layout(Size{Width: 100, Height: 100})

	var st layoutStats
	s.SetTransform(b, Translate(1, 0))
	s.layoutRoot(s.node(s.Root()), Size{Width: 100, Height: 100}, &st)
	if st.skipped == 0 {
		t.Error("clean sibling was not skipped")
	}
}

func TestClampDim(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		min, max Dim
		want     float64
	}{
		{"unbounded", 12, Auto, Auto, 12},
		{"below min", 5, Fixed(10), Auto, 10},
		{"above max", 50, Auto, Fixed(20), 20},
		{"min over max", 5, Fixed(30), Fixed(20), 20},
		{"negative", -4, Auto, Auto, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampDim(tt.v, tt.min, tt.max); got != tt.want {
				t.Errorf("clampDim = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDim(t *testing.T) {
	if !Auto.IsAuto() {
		t.Error("Auto should be auto")
	}
	v, ok := Fixed(3).Value()
	if !ok || v != 3 {
		t.Errorf("Fixed(3).Value() = %v, %v", v, ok)
	}
	if (Dim{}) != Auto {
		t.Error("zero Dim should equal Auto")
	}
}

func BenchmarkLayoutFlat1000(b *testing.B) {
	s := NewScene()
	r := container(s, LayoutSpec{Direction: Column})
	for range 1000 {
		item(s, r, LayoutSpec{Height: Fixed(10), Grow: 1})
	}
	b.ReportAllocs()
	for b.Loop() {
		s.SetConstraints(r, &LayoutSpec{Direction: Column})
		s.Layout(Size{Width: 800, Height: 20000})
	}
}
