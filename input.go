package ardent

import (
	"math"
	"slices"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// Event is delivered to node handlers. X and Y are world coordinates;
// LocalX and LocalY are recomputed for each receiving node.
type Event struct {
	Kind      EventKind
	PointerID int
	X, Y      float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers

	// Target is the deepest node on the hit path; Current is the node whose
	// handler is running.
	Target  NodeID
	Current NodeID

	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX, StartY float64
	DeltaX, DeltaY float64

	// Metadata of Current.
	EntityID uint32
	UserData any
}

// --- Per-pointer state ---

type pointerState struct {
	down      bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	pressPath []NodeID // hit path at press time; drags are routed along it
	dragging  bool
	button    MouseButton // button captured at press time
}

// --- Scene-level observers ---

type observer struct {
	id uint32
	fn func(Event)
}

type observerRegistry struct {
	byKind map[EventKind][]observer
	nextID uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id   uint32
	reg  *observerRegistry
	kind EventKind
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	list := h.reg.byKind[h.kind]
	for i := range list {
		if list[i].id == h.id {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = observer{}
			h.reg.byKind[h.kind] = list[:len(list)-1]
			return
		}
	}
}

// On registers a scene-level callback for kind. Observers run before node
// handlers and cannot stop propagation. They also see events whose hit path
// is empty, with a zero Target.
func (s *Scene) On(kind EventKind, fn func(Event)) CallbackHandle {
	if s.observers.byKind == nil {
		s.observers.byKind = make(map[EventKind][]observer)
	}
	s.observers.nextID++
	id := s.observers.nextID
	s.observers.byKind[kind] = append(s.observers.byKind[kind], observer{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.observers, kind: kind}
}

// CapturePointer routes all events for pointerID to id's ancestor chain
// until ReleasePointer or the next pointer release.
func (s *Scene) CapturePointer(pointerID int, id NodeID) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = id
	}
}

// ReleasePointer stops routing events for pointerID to a captured node.
func (s *Scene) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = NodeID{}
	}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// --- Hit testing ---

// HitTest returns the hit path at world point (x, y): the deepest matching
// node first, followed by its ancestors up to the root. Siblings are tested
// in reverse paint order so the topmost one wins. Overlapped siblings of the
// winner are not on the path, since events only bubble through ancestors;
// HitTestAll lists them. The result is empty when nothing is hit.
func (s *Scene) HitTest(x, y float64) []NodeID {
	root := s.node(s.root)
	hit := s.hitNode(root, Identity, x, y)
	if hit == nil {
		return nil
	}
	return s.ancestorChain(hit)
}

// HitTestAll returns every node whose resolved shape contains (x, y),
// topmost first: reverse paint order, so later siblings come before earlier
// ones and children before their parents.
func (s *Scene) HitTestAll(x, y float64) []NodeID {
	var hits []NodeID
	s.collectHits(s.node(s.root), Identity, x, y, &hits)
	slices.Reverse(hits)
	return hits
}

func (s *Scene) collectHits(n *node, parentWorld Affine, x, y float64, hits *[]NodeID) {
	if n.hidden {
		return
	}
	world := parentWorld.Mul(n.hitMatrix())
	if s.candidate(n, world, x, y) {
		*hits = append(*hits, n.id)
	}
	for _, cid := range s.paintOrder(n) {
		if c := s.node(cid); c != nil {
			s.collectHits(c, world, x, y, hits)
		}
	}
}

func (s *Scene) hitNode(n *node, parentWorld Affine, x, y float64) *node {
	if n.hidden {
		return nil
	}
	world := parentWorld.Mul(n.hitMatrix())
	children := s.paintOrder(n)
	for i := len(children) - 1; i >= 0; i-- {
		c := s.node(children[i])
		if c == nil {
			continue
		}
		if h := s.hitNode(c, world, x, y); h != nil {
			return h
		}
	}
	if s.candidate(n, world, x, y) {
		return n
	}
	return nil
}

// candidate tests the point against the node's resolved box and then its
// outline, both in local space as of the last layout pass.
func (s *Scene) candidate(n *node, world Affine, x, y float64) bool {
	if n.inputTransparent || !n.hasGeometry {
		return false
	}
	inv, ok := world.Invert()
	if !ok {
		return false
	}
	lx, ly := inv.Apply(x, y)
	r := &n.resolved
	if !r.box.Contains(lx, ly) {
		return false
	}
	return r.shape.Contains(lx, ly, r.size)
}

// hitWorld is the local-to-world matrix input uses: the resolved placement
// of n and each ancestor.
func (s *Scene) hitWorld(n *node) Affine {
	m := n.hitMatrix()
	for p := s.node(n.parent); p != nil; p = s.node(p.parent) {
		m = p.hitMatrix().Mul(m)
	}
	return m
}

func (s *Scene) ancestorChain(n *node) []NodeID {
	var path []NodeID
	for p := n; p != nil; p = s.node(p.parent) {
		path = append(path, p.id)
	}
	return path
}

// pathFor returns the routing path for a pointer: the captured node's chain
// when captured, otherwise the hit path.
func (s *Scene) pathFor(pointerID int, x, y float64) []NodeID {
	if pointerID >= 0 && pointerID < maxPointers {
		if c := s.node(s.captured[pointerID]); c != nil {
			return s.ancestorChain(c)
		}
	}
	return s.HitTest(x, y)
}

// --- Dispatch ---

// Dispatch routes ev through the hit path at (ev.X, ev.Y). Hover state for
// ev.PointerID is updated first, emitting leave and enter events for nodes
// that left or joined the path. The event then bubbles from the deepest node
// to the root, invoking each node's handler at most once and stopping as
// soon as one reports the event handled. Events that hit nothing are
// dropped. Dispatch reports whether a handler handled the event.
func (s *Scene) Dispatch(ev Event) bool {
	path := s.pathFor(ev.PointerID, ev.X, ev.Y)
	if ev.Kind != EventPointerEnter && ev.Kind != EventPointerLeave {
		s.updateHover(ev.PointerID, path, ev)
	}
	return s.route(path, ev)
}

// route notifies observers and bubbles ev along path.
func (s *Scene) route(path []NodeID, ev Event) bool {
	ev.Target = NodeID{}
	if len(path) > 0 {
		ev.Target = path[0]
	}
	for _, o := range s.observers.byKind[ev.Kind] {
		o.fn(ev)
	}
	if len(path) == 0 {
		return false
	}
	s.emitInteractionEvent(ev)

	for _, id := range path {
		n := s.node(id)
		if n == nil {
			// Removed by an earlier handler.
			continue
		}
		h := n.handlers[ev.Kind]
		if h == nil {
			continue
		}
		if h(s.eventFor(n, ev)) {
			return true
		}
	}
	return false
}

// deliver sends ev to a single node without bubbling.
func (s *Scene) deliver(id NodeID, ev Event) {
	n := s.node(id)
	if n == nil {
		return
	}
	ev.Target = id
	for _, o := range s.observers.byKind[ev.Kind] {
		o.fn(ev)
	}
	s.emitInteractionEvent(ev)
	if h := n.handlers[ev.Kind]; h != nil {
		h(s.eventFor(n, ev))
	}
}

func (s *Scene) eventFor(n *node, ev Event) Event {
	ev.Current = n.id
	inv, _ := s.hitWorld(n).Invert()
	ev.LocalX, ev.LocalY = inv.Apply(ev.X, ev.Y)
	ev.EntityID = n.entityID
	ev.UserData = n.userData
	return ev
}

// updateHover diffs path against the pointer's previous hit path. Leave
// events go deepest-first, enter events outermost-first; neither bubbles.
func (s *Scene) updateHover(pointerID int, path []NodeID, ev Event) {
	if pointerID < 0 || pointerID >= maxPointers {
		return
	}
	// Stored before delivery; handlers may feed the pointer again.
	old := s.hover[pointerID]
	s.hover[pointerID] = slices.Clone(path)
	for _, id := range old {
		if indexOf(path, id) < 0 {
			lev := ev
			lev.Kind = EventPointerLeave
			s.deliver(id, lev)
		}
	}
	for i := len(path) - 1; i >= 0; i-- {
		if indexOf(old, path[i]) < 0 {
			eev := ev
			eev.Kind = EventPointerEnter
			s.deliver(path[i], eev)
		}
	}
}

// HoverPath returns a copy of the last hit path recorded for pointerID.
func (s *Scene) HoverPath(pointerID int) []NodeID {
	if pointerID < 0 || pointerID >= maxPointers {
		return nil
	}
	return append([]NodeID(nil), s.hover[pointerID]...)
}

// --- Pointer state machine ---

// Pointer feeds one sample of raw pointer state in world coordinates and
// synthesises down, up, move, click and drag events from it. Click fires
// when press and release land on the same deepest node; drags start once
// the pointer travels beyond the drag dead zone and are routed along the
// press-time path.
func (s *Scene) Pointer(pointerID int, wx, wy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	if pointerID < 0 || pointerID >= maxPointers {
		return
	}
	ps := &s.pointers[pointerID]
	path := s.pathFor(pointerID, wx, wy)
	base := Event{PointerID: pointerID, X: wx, Y: wy, Button: button, Modifiers: mods}
	s.updateHover(pointerID, path, base)

	switch {
	case pressed && !ps.down:
		// Just pressed: capture the button for the duration of the interaction.
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = wx, wy
		ps.lastX, ps.lastY = wx, wy
		ps.pressPath = append(ps.pressPath[:0], path...)
		ps.dragging = false

		ev := base
		ev.Kind = EventPointerDown
		s.route(path, ev)

	case !pressed && ps.down:
		ev := base
		ev.Button = ps.button
		if ps.dragging {
			ev.Kind = EventDragEnd
			ev.StartX, ev.StartY = ps.startX, ps.startY
			ev.DeltaX, ev.DeltaY = wx-ps.lastX, wy-ps.lastY
			s.route(ps.pressPath, ev)
		} else if len(ps.pressPath) > 0 && len(path) > 0 && ps.pressPath[0] == path[0] {
			ev.Kind = EventClick
			s.route(path, ev)
		}

		up := base
		up.Kind = EventPointerUp
		up.Button = ps.button
		s.route(path, up)

		// Auto-release capture.
		s.captured[pointerID] = NodeID{}
		ps.down = false
		ps.pressPath = ps.pressPath[:0]
		ps.dragging = false

	case pressed && ps.down:
		if wx != ps.lastX || wy != ps.lastY {
			ev := base
			ev.Button = ps.button
			ev.StartX, ev.StartY = ps.startX, ps.startY
			if !ps.dragging {
				dx := wx - ps.startX
				dy := wy - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
					ps.dragging = true
					ev.Kind = EventDragStart
					ev.DeltaX, ev.DeltaY = dx, dy
					s.route(ps.pressPath, ev)
				}
			}
			if ps.dragging {
				ev.Kind = EventDrag
				ev.DeltaX, ev.DeltaY = wx-ps.lastX, wy-ps.lastY
				s.route(ps.pressPath, ev)
			}
		}
		ps.lastX, ps.lastY = wx, wy

	default:
		if wx != ps.lastX || wy != ps.lastY {
			ev := base
			ev.Kind = EventPointerMove
			s.route(path, ev)
			ps.lastX, ps.lastY = wx, wy
		}
	}
}

// --- ECS bridge ---

func (s *Scene) emitInteractionEvent(ev Event) {
	if s.store == nil {
		return
	}
	n := s.node(ev.Target)
	if n == nil || n.entityID == 0 {
		return
	}
	inv, _ := s.hitWorld(n).Invert()
	lx, ly := inv.Apply(ev.X, ev.Y)
	s.store.EmitEvent(InteractionEvent{
		Kind:      ev.Kind,
		EntityID:  n.entityID,
		GlobalX:   ev.X,
		GlobalY:   ev.Y,
		LocalX:    lx,
		LocalY:    ly,
		Button:    ev.Button,
		Modifiers: ev.Modifiers,
		StartX:    ev.StartX,
		StartY:    ev.StartY,
		DeltaX:    ev.DeltaX,
		DeltaY:    ev.DeltaY,
	})
}
