package ardent

import (
	"fmt"
	"maps"

	"github.com/gogpu/gg"
)

// NodeID identifies a node within its Scene. It pairs an arena slot with a
// generation so an identity is never valid again once its node is removed.
// The zero value identifies nothing.
type NodeID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the zero identity.
func (id NodeID) IsZero() bool { return id.gen == 0 }

func (id NodeID) String() string {
	if id.IsZero() {
		return "node(none)"
	}
	return fmt.Sprintf("node(%d.%d)", id.index, id.gen)
}

// Handler receives an event and reports whether it was handled. Returning
// true stops propagation to ancestors.
type Handler func(Event) bool

// Geometry is the resolved position (relative to the parent's local origin)
// and size written by the layout engine.
type Geometry struct {
	Position Vec2
	Size     Size
}

// Rect returns the geometry as a rectangle in parent space.
func (g Geometry) Rect() Rect {
	return Rect{X: g.Position.X, Y: g.Position.Y, Width: g.Size.Width, Height: g.Size.Height}
}

// NodeData is the insertion payload for a node. Use the typed constructors
// (NewGroup, NewRect, ...) to start from sensible defaults.
type NodeData struct {
	Name      string
	Transform Affine
	Style     Style
	Shape     Shape
	// Layout is nil for nodes that do not take part in flex layout.
	Layout   *LayoutSpec
	Handlers map[EventKind]Handler

	Hidden           bool
	InputTransparent bool

	// Metadata
	EntityID uint32
	UserData any
}

func newData(name string, shape Shape) NodeData {
	return NodeData{
		Name:      name,
		Transform: Identity,
		Style:     DefaultStyle(),
		Shape:     shape,
	}
}

// NewGroup creates the payload for a container with no visual output.
func NewGroup(name string) NodeData { return newData(name, GroupShape()) }

// NewRect creates the payload for a w x h rectangle.
func NewRect(name string, w, h float64) NodeData { return newData(name, RectShape(w, h)) }

// NewEllipse creates the payload for an ellipse inscribed in w x h.
func NewEllipse(name string, w, h float64) NodeData { return newData(name, EllipseShape(w, h)) }

// NewPath creates the payload for an arbitrary vector path.
func NewPath(name string, p *gg.Path) NodeData { return newData(name, PathShape(p)) }

// NewText creates the payload for a shaped text run.
func NewText(name string, run TextRun) NodeData { return newData(name, TextShape(run)) }

// WithLayout returns a copy of d participating in layout with spec.
func (d NodeData) WithLayout(spec LayoutSpec) NodeData {
	d.Layout = &spec
	return d
}

// WithStyle returns a copy of d with the given style.
func (d NodeData) WithStyle(st Style) NodeData {
	d.Style = st
	return d
}

// WithFill returns a copy of d filled with c.
func (d NodeData) WithFill(c Color) NodeData {
	d.Style.Fill = &Fill{Color: c}
	return d
}

// WithTransform returns a copy of d with the given transform.
func (d NodeData) WithTransform(m Affine) NodeData {
	d.Transform = m
	return d
}

// At returns a copy of d translated to (x, y).
func (d NodeData) At(x, y float64) NodeData {
	d.Transform = normalizeAffine(d.Transform).WithTranslation(x, y)
	return d
}

// WithHandler returns a copy of d with h registered for kind.
func (d NodeData) WithHandler(kind EventKind, h Handler) NodeData {
	hs := make(map[EventKind]Handler, len(d.Handlers)+1)
	maps.Copy(hs, d.Handlers)
	hs[kind] = h
	d.Handlers = hs
	return d
}

// Tree is a pre-built hierarchy of node payloads for InsertTree.
type Tree struct {
	Data     NodeData
	Children []Tree
}

// NodeView is a read-only snapshot of a node returned by Scene.Get. It shares
// nothing with the live node.
type NodeView struct {
	ID       NodeID
	Parent   NodeID
	Name     string
	Children []NodeID

	Transform Affine
	Style     Style
	Shape     Shape
	Layout    *LayoutSpec

	// Geometry is meaningful only when HasGeometry is true, i.e. after the
	// node has been through a layout pass.
	Geometry    Geometry
	HasGeometry bool
	Dirty       bool

	Hidden           bool
	InputTransparent bool
	EntityID         uint32
	UserData         any
}

// node is the arena record. All cross-node references are NodeIDs.
type node struct {
	id       NodeID
	name     string
	parent   NodeID
	children []NodeID

	transform Affine
	style     Style
	shape     Shape
	layout    *LayoutSpec
	handlers  map[EventKind]Handler

	geometry      Geometry
	hasGeometry   bool
	resolved      resolvedHit
	dirty         bool
	measured      Size
	measuredValid bool

	hidden           bool
	inputTransparent bool
	entityID         uint32
	userData         any

	childrenSorted bool
	sortedChildren []NodeID // reused buffer for ZIndex-sorted paint order
}

func newNode(d NodeData) *node {
	n := &node{
		name:             d.Name,
		transform:        normalizeAffine(d.Transform),
		style:            d.Style.clone(),
		shape:            d.Shape.clone(),
		hidden:           d.Hidden,
		inputTransparent: d.InputTransparent,
		entityID:         d.EntityID,
		userData:         d.UserData,
		dirty:            true,
		childrenSorted:   true,
	}
	if d.Layout != nil {
		spec := *d.Layout
		n.layout = &spec
	}
	if len(d.Handlers) > 0 {
		n.handlers = maps.Clone(d.Handlers)
	}
	return n
}

func (n *node) view() NodeView {
	v := NodeView{
		ID:               n.id,
		Parent:           n.parent,
		Name:             n.name,
		Children:         append([]NodeID(nil), n.children...),
		Transform:        n.transform,
		Style:            n.style.clone(),
		Shape:            n.shape.clone(),
		Geometry:         n.geometry,
		HasGeometry:      n.hasGeometry,
		Dirty:            n.dirty,
		Hidden:           n.hidden,
		InputTransparent: n.inputTransparent,
		EntityID:         n.entityID,
		UserData:         n.userData,
	}
	if n.layout != nil {
		spec := *n.layout
		v.Layout = &spec
	}
	return v
}

// laidOut reports whether the node's geometry box comes from flex layout.
func (n *node) laidOut() bool {
	return n.layout != nil && n.hasGeometry
}

// localMatrix maps the node's local space into its parent's space. Layout
// nodes are placed at their resolved position with their transform applied
// on top.
func (n *node) localMatrix() Affine {
	if n.laidOut() {
		return Translate(n.geometry.Position.X, n.geometry.Position.Y).Mul(n.transform)
	}
	return n.transform
}

// renderSize is the size the shape is drawn and hit-tested at.
func (n *node) renderSize() Size {
	if n.laidOut() {
		return n.geometry.Size
	}
	return n.shape.IntrinsicSize()
}

// localBox is the resolved geometry expressed in the node's local space.
func (n *node) localBox() Rect {
	if n.laidOut() {
		return Rect{Width: n.geometry.Size.Width, Height: n.geometry.Size.Height}
	}
	return n.shape.Bounds()
}

// resolvedHit is what the last completed layout pass fixed for a node. Hit
// testing and event coordinates read it, so edits made since that pass have
// no effect on input until the next one.
type resolvedHit struct {
	matrix Affine
	box    Rect
	size   Size
	shape  Shape
}

// resolve records the node's current placement. Layout calls it whenever it
// writes the node's geometry. Shapes are replaced, never mutated, so
// holding the value is enough.
func (n *node) resolve() {
	n.resolved = resolvedHit{
		matrix: n.localMatrix(),
		box:    n.localBox(),
		size:   n.renderSize(),
		shape:  n.shape,
	}
}

// hitMatrix maps local space to parent space as of the last layout pass.
// Nodes never laid out fall back to their live transform.
func (n *node) hitMatrix() Affine {
	if n.hasGeometry {
		return n.resolved.matrix
	}
	return n.localMatrix()
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, c := range ids {
		if c == id {
			return i
		}
	}
	return -1
}

// removeID removes id from ids preserving order.
func removeID(ids []NodeID, id NodeID) []NodeID {
	if i := indexOf(ids, id); i >= 0 {
		copy(ids[i:], ids[i+1:])
		ids[len(ids)-1] = NodeID{}
		return ids[:len(ids)-1]
	}
	return ids
}
