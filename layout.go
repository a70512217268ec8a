package ardent

import (
	"math"
	"time"
)

// Dim is an optional length. The zero value is Auto (unset).
type Dim struct {
	v  float64
	ok bool
}

// Auto is the unset Dim.
var Auto = Dim{}

// Fixed returns a Dim set to v.
func Fixed(v float64) Dim { return Dim{v: v, ok: true} }

// Value returns the length and whether it is set.
func (d Dim) Value() (float64, bool) { return d.v, d.ok }

// IsAuto reports whether the Dim is unset.
func (d Dim) IsAuto() bool { return !d.ok }

// Direction is the main axis of a flex container.
type Direction uint8

const (
	Row           Direction = iota // children left to right
	Column                         // children top to bottom
	RowReverse                     // children right to left
	ColumnReverse                  // children bottom to top
)

func (d Direction) horizontal() bool { return d == Row || d == RowReverse }
func (d Direction) reversed() bool   { return d == RowReverse || d == ColumnReverse }

// split returns (main, cross) components of sz.
func (d Direction) split(sz Size) (float64, float64) {
	if d.horizontal() {
		return sz.Width, sz.Height
	}
	return sz.Height, sz.Width
}

// join is the inverse of split.
func (d Direction) join(main, cross float64) Size {
	if d.horizontal() {
		return Size{Width: main, Height: cross}
	}
	return Size{Width: cross, Height: main}
}

// Justify distributes leftover main-axis space.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align positions children on the cross axis.
type Align uint8

const (
	AlignAuto    Align = iota // AlignItems: stretch; AlignSelf: inherit the container's AlignItems
	AlignStretch              // fill the cross axis unless the cross size is fixed
	AlignStart
	AlignEnd
	AlignCenter
)

// LayoutSpec holds the flex constraints of a node. Distribution is single
// axis; there is no wrapping.
type LayoutSpec struct {
	Direction Direction

	// Grow and Shrink weight the distribution of positive and negative free
	// space among siblings. Shrink is additionally weighted by the base size.
	Grow   float64
	Shrink float64

	Width, Height       Dim
	MinWidth, MaxWidth   Dim
	MinHeight, MaxHeight Dim

	Margin  Insets
	Padding Insets
	Gap     float64

	Justify    Justify
	AlignItems Align
	AlignSelf  Align
}

// Flex returns a spec that grows and shrinks with weight 1 along its
// parent's main axis.
func Flex() LayoutSpec {
	return LayoutSpec{Grow: 1, Shrink: 1}
}

// layoutStats collects per-pass counters for debug logging.
type layoutStats struct {
	measured int
	arranged int
	placed   int
	skipped  int
	elapsed  time.Duration
}

// ComputeLayout resolves geometry for the subtree at root within available.
// Only dirty subtrees are recomputed; clean children whose allocation did
// not change keep their previous geometry untouched.
func (s *Scene) ComputeLayout(root NodeID, available Size) error {
	n, err := s.lookup(root)
	if err != nil {
		return nodeErr("compute layout", root, err)
	}
	var stats layoutStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	avail := Size{Width: math.Max(0, available.Width), Height: math.Max(0, available.Height)}
	s.layoutRoot(n, avail, &stats)

	if s.debug {
		stats.elapsed = time.Since(t0)
		s.debugLayout(stats)
	}
	return nil
}

// Layout lays out the whole scene within available.
func (s *Scene) Layout(available Size) {
	_ = s.ComputeLayout(s.root, available)
}

func (s *Scene) layoutRoot(n *node, avail Size, st *layoutStats) {
	if n.layout == nil {
		s.place(n, st)
		return
	}
	sp := n.layout
	w, h := avail.Width, avail.Height
	if v, ok := sp.Width.Value(); ok {
		w = v
	}
	if v, ok := sp.Height.Value(); ok {
		h = v
	}
	size := Size{
		Width:  clampDim(w, sp.MinWidth, sp.MaxWidth),
		Height: clampDim(h, sp.MinHeight, sp.MaxHeight),
	}
	pos := Vec2{X: sp.Margin.Left, Y: sp.Margin.Top}
	if p := s.node(n.parent); p != nil && p.layout != nil && n.hasGeometry {
		// Re-laying out a flow child in place keeps its slot.
		pos = n.geometry.Position
	}
	s.arrange(n, Geometry{Position: pos, Size: size}, st)
}

// measure returns the preferred border-box size of a layout node. Results
// are cached until the node is marked dirty.
func (s *Scene) measure(n *node, st *layoutStats) Size {
	if n.measuredValid {
		return n.measured
	}
	st.measured++
	sp := n.layout

	var content Size
	items := s.flowChildren(n)
	if len(items) == 0 {
		content = n.shape.IntrinsicSize()
	} else {
		var main, cross float64
		for _, c := range items {
			cs := s.measure(c, st)
			m := c.layout.Margin
			cm, cc := sp.Direction.split(Size{
				Width:  cs.Width + m.Horizontal(),
				Height: cs.Height + m.Vertical(),
			})
			main += cm
			cross = math.Max(cross, cc)
		}
		main += sp.Gap * float64(len(items)-1)
		content = sp.Direction.join(main, cross)
	}

	w := content.Width + sp.Padding.Horizontal()
	h := content.Height + sp.Padding.Vertical()
	if v, ok := sp.Width.Value(); ok {
		w = v
	}
	if v, ok := sp.Height.Value(); ok {
		h = v
	}
	n.measured = Size{
		Width:  clampDim(w, sp.MinWidth, sp.MaxWidth),
		Height: clampDim(h, sp.MinHeight, sp.MaxHeight),
	}
	n.measuredValid = true
	return n.measured
}

// arrange writes g to n and lays out its children. A clean node whose
// allocation is unchanged is skipped together with its subtree.
func (s *Scene) arrange(n *node, g Geometry, st *layoutStats) {
	if !n.dirty && n.hasGeometry && n.geometry == g {
		st.skipped++
		return
	}
	st.arranged++
	n.geometry = g
	n.hasGeometry = true
	n.resolve()

	sp := n.layout
	inner := Size{
		Width:  math.Max(0, g.Size.Width-sp.Padding.Horizontal()),
		Height: math.Max(0, g.Size.Height-sp.Padding.Vertical()),
	}
	if items := s.flowChildren(n); len(items) > 0 {
		s.arrangeFlow(sp, inner, items, st)
	}
	for _, cid := range n.children {
		if c := s.node(cid); c != nil && c.layout == nil {
			s.place(c, st)
		}
	}
	n.dirty = false
}

// place resolves a node outside flex layout from its transform and the
// intrinsic bounds of its shape. Constrained children become independent
// layout roots at their measured size.
func (s *Scene) place(n *node, st *layoutStats) {
	if !n.dirty && n.hasGeometry {
		st.skipped++
		return
	}
	st.placed++
	r := n.transform.TransformRect(n.shape.Bounds())
	n.geometry = Geometry{
		Position: Vec2{X: r.X, Y: r.Y},
		Size:     Size{Width: r.Width, Height: r.Height},
	}
	n.hasGeometry = true
	n.resolve()
	for _, cid := range n.children {
		c := s.node(cid)
		if c == nil {
			continue
		}
		if c.layout == nil {
			s.place(c, st)
			continue
		}
		sz := s.measure(c, st)
		m := c.layout.Margin
		s.arrange(c, Geometry{Position: Vec2{X: m.Left, Y: m.Top}, Size: sz}, st)
	}
	n.dirty = false
}

// flowChildren returns the children taking part in n's flex flow, in
// children order.
func (s *Scene) flowChildren(n *node) []*node {
	var items []*node
	for _, cid := range n.children {
		if c := s.node(cid); c != nil && c.layout != nil {
			items = append(items, c)
		}
	}
	return items
}

// flexItem is the per-child working state of a flex pass. Main-axis values
// exclude margins.
type flexItem struct {
	n            *node
	measured     Size
	hyp          float64
	min, max     Dim
	grow, shrink float64
	main         float64
	frozen       bool

	mStart, mEnd float64
	cStart, cEnd float64
}

func (s *Scene) arrangeFlow(sp *LayoutSpec, inner Size, children []*node, st *layoutStats) {
	dir := sp.Direction
	mainAvail, crossAvail := dir.split(inner)

	items := make([]flexItem, len(children))
	for i, c := range children {
		cl := c.layout
		cs := s.measure(c, st)
		basis, _ := dir.split(cs)
		it := &items[i]
		it.n = c
		it.measured = cs
		it.grow = math.Max(0, cl.Grow)
		it.shrink = math.Max(0, cl.Shrink)
		if dir.horizontal() {
			it.min, it.max = cl.MinWidth, cl.MaxWidth
			it.mStart, it.mEnd = cl.Margin.Left, cl.Margin.Right
			it.cStart, it.cEnd = cl.Margin.Top, cl.Margin.Bottom
		} else {
			it.min, it.max = cl.MinHeight, cl.MaxHeight
			it.mStart, it.mEnd = cl.Margin.Top, cl.Margin.Bottom
			it.cStart, it.cEnd = cl.Margin.Left, cl.Margin.Right
		}
		it.hyp = clampDim(basis, it.min, it.max)
	}

	gaps := sp.Gap * float64(len(items)-1)
	resolveFlexible(items, mainAvail-gaps)

	used := gaps
	for i := range items {
		used += items[i].main + items[i].mStart + items[i].mEnd
	}
	offset, between := justify(sp.Justify, mainAvail-used, len(items))

	cursor := offset
	for i := range items {
		it := &items[i]
		cl := it.n.layout

		mainPos := cursor + it.mStart
		cursor = mainPos + it.main + it.mEnd + sp.Gap + between
		if dir.reversed() {
			mainPos = mainAvail - mainPos - it.main
		}

		align := cl.AlignSelf
		if align == AlignAuto {
			align = sp.AlignItems
		}
		if align == AlignAuto {
			align = AlignStretch
		}
		var minC, maxC, fixedC Dim
		if dir.horizontal() {
			minC, maxC, fixedC = cl.MinHeight, cl.MaxHeight, cl.Height
		} else {
			minC, maxC, fixedC = cl.MinWidth, cl.MaxWidth, cl.Width
		}
		_, measuredCross := dir.split(it.measured)
		crossSpace := math.Max(0, crossAvail-it.cStart-it.cEnd)
		var cross float64
		if align == AlignStretch && fixedC.IsAuto() {
			cross = clampDim(crossSpace, minC, maxC)
		} else {
			cross = clampDim(measuredCross, minC, maxC)
		}
		var crossPos float64
		switch align {
		case AlignEnd:
			crossPos = crossAvail - it.cEnd - cross
		case AlignCenter:
			crossPos = it.cStart + (crossSpace-cross)/2
		default:
			crossPos = it.cStart
		}

		// Overflow is clipped at the container's content box.
		mainPos, mainSize := clipSpan(mainPos, it.main, mainAvail)
		crossPos, crossSize := clipSpan(crossPos, cross, crossAvail)

		off := dir.join(mainPos, crossPos)
		size := dir.join(mainSize, crossSize)
		g := Geometry{
			Position: Vec2{X: sp.Padding.Left + off.Width, Y: sp.Padding.Top + off.Height},
			Size:     size,
		}
		s.arrange(it.n, g, st)
	}
}

// resolveFlexible distributes space (the container's main size minus gaps)
// among items. Items whose target violates min/max are frozen at the clamped
// size and the rest is redistributed.
func resolveFlexible(items []flexItem, space float64) {
	total := 0.0
	for i := range items {
		it := &items[i]
		it.main = it.hyp
		it.frozen = false
		total += it.hyp + it.mStart + it.mEnd
	}
	free := space - total
	if free == 0 {
		return
	}
	growing := free > 0
	for i := range items {
		it := &items[i]
		if (growing && it.grow == 0) || (!growing && (it.shrink == 0 || it.hyp == 0)) {
			it.frozen = true
		}
	}

	for range len(items) + 1 {
		remaining := space
		factors := 0.0
		for i := range items {
			it := &items[i]
			remaining -= it.mStart + it.mEnd
			if it.frozen {
				remaining -= it.main
				continue
			}
			remaining -= it.hyp
			if growing {
				factors += it.grow
			} else {
				factors += it.shrink * it.hyp
			}
		}
		if factors == 0 || (growing && remaining <= 0) || (!growing && remaining >= 0) {
			for i := range items {
				if !items[i].frozen {
					items[i].main = items[i].hyp
				}
			}
			return
		}

		violated := false
		for i := range items {
			it := &items[i]
			if it.frozen {
				continue
			}
			var target float64
			if growing {
				target = it.hyp + remaining*it.grow/factors
			} else {
				target = it.hyp + remaining*it.shrink*it.hyp/factors
			}
			clamped := clampDim(target, it.min, it.max)
			it.main = clamped
			if clamped != target {
				it.frozen = true
				violated = true
			}
		}
		if !violated {
			return
		}
	}
}

// justify returns the leading offset and the extra space between items.
func justify(j Justify, leftover float64, count int) (offset, between float64) {
	if leftover <= 0 || count == 0 {
		return 0, 0
	}
	switch j {
	case JustifyEnd:
		return leftover, 0
	case JustifyCenter:
		return leftover / 2, 0
	case JustifySpaceBetween:
		if count == 1 {
			return 0, 0
		}
		return 0, leftover / float64(count-1)
	case JustifySpaceAround:
		per := leftover / float64(count)
		return per / 2, per
	case JustifySpaceEvenly:
		per := leftover / float64(count+1)
		return per, per
	default:
		return 0, 0
	}
}

// clampDim clamps v to [min, max] and to zero. When min exceeds max, min is
// lowered to max.
func clampDim(v float64, min, max Dim) float64 {
	lo, hasLo := min.Value()
	hi, hasHi := max.Value()
	if hasLo && hasHi && lo > hi {
		lo = hi
	}
	if hasHi && v > hi {
		v = hi
	}
	if hasLo && v < lo {
		v = lo
	}
	return math.Max(0, v)
}

// clipSpan clips the span [pos, pos+size] to [0, limit].
func clipSpan(pos, size, limit float64) (float64, float64) {
	if pos < 0 {
		size += pos
		pos = 0
	}
	if pos > limit {
		pos = limit
	}
	if pos+size > limit {
		size = limit - pos
	}
	return pos, math.Max(0, size)
}
