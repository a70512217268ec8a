package ardent

import "iter"

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Kind      EventKind
	EntityID  uint32
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
}

// slot is one arena entry. gen is bumped whenever the slot is freed.
type slot struct {
	gen  uint32
	node *node
}

// Scene owns the node arena, the input router state and the optional camera.
// A Scene is not safe for concurrent use; frames produced by Snapshot are.
type Scene struct {
	slots []slot
	free  []uint32
	count int
	root  NodeID
	names map[string][]NodeID // ids per name, most recently named last

	cfg    Config
	debug  bool
	store  EntityStore
	camera *Camera

	// Input state
	observers    observerRegistry
	captured     [maxPointers]NodeID
	pointers     [maxPointers]pointerState
	hover        [maxPointers][]NodeID
	dragDeadZone float64

	injectQueue  []syntheticPointerEvent
	testRunner   *TestRunner
	screenshotFn ScreenshotFunc

	frameSeq uint64
}

// NewScene creates a scene with a pre-created root group and default config.
func NewScene() *Scene {
	return NewSceneWithConfig(DefaultConfig())
}

// NewSceneWithConfig creates a scene using cfg.
func NewSceneWithConfig(cfg Config) *Scene {
	if cfg.MaxTreeDepth <= 0 {
		cfg.MaxTreeDepth = DefaultConfig().MaxTreeDepth
	}
	if cfg.MaxChildCount <= 0 {
		cfg.MaxChildCount = DefaultConfig().MaxChildCount
	}
	s := &Scene{
		names:        make(map[string][]NodeID),
		cfg:          cfg,
		dragDeadZone: cfg.DragDeadZone,
	}
	s.root = s.alloc(newNode(NewGroup("root")))
	s.SetDebugMode(cfg.Debug)
	return s
}

// Root returns the root node's identity.
func (s *Scene) Root() NodeID {
	return s.root
}

// Config returns the configuration the scene was built with.
func (s *Scene) Config() Config {
	return s.cfg
}

// Len returns the number of live nodes, including the root.
func (s *Scene) Len() int {
	return s.count
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// --- Arena ---

func (s *Scene) alloc(n *node) NodeID {
	var idx uint32
	if k := len(s.free); k > 0 {
		idx = s.free[k-1]
		s.free = s.free[:k-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{})
	}
	sl := &s.slots[idx]
	sl.gen++
	sl.node = n
	n.id = NodeID{index: idx, gen: sl.gen}
	s.count++
	s.indexName(n.name, n.id)
	return n.id
}

func (s *Scene) release(n *node) {
	sl := &s.slots[n.id.index]
	sl.gen++
	sl.node = nil
	s.free = append(s.free, n.id.index)
	s.count--
	s.unindexName(n.name, n.id)
}

func (s *Scene) indexName(name string, id NodeID) {
	if name != "" {
		s.names[name] = append(s.names[name], id)
	}
}

// unindexName drops id from name's entry. Other nodes sharing the name stay
// reachable.
func (s *Scene) unindexName(name string, id NodeID) {
	ids := removeID(s.names[name], id)
	if len(ids) == 0 {
		delete(s.names, name)
		return
	}
	s.names[name] = ids
}

// lookup resolves id, distinguishing identities that were never issued
// (ErrUnknownNode) from removed ones (ErrNotFound).
func (s *Scene) lookup(id NodeID) (*node, error) {
	if id.IsZero() || int(id.index) >= len(s.slots) {
		return nil, ErrUnknownNode
	}
	sl := s.slots[id.index]
	if sl.gen == id.gen && sl.node != nil {
		return sl.node, nil
	}
	if id.gen < sl.gen {
		return nil, ErrNotFound
	}
	return nil, ErrUnknownNode
}

// node returns the live node for id or nil.
func (s *Scene) node(id NodeID) *node {
	n, _ := s.lookup(id)
	return n
}

// Contains reports whether id refers to a live node.
func (s *Scene) Contains(id NodeID) bool {
	return s.node(id) != nil
}

// --- Tree manipulation ---

// Insert appends a new node built from data as the last child of parent and
// returns its identity. The parent (and its ancestors) are marked dirty.
func (s *Scene) Insert(parent NodeID, data NodeData) (NodeID, error) {
	p, err := s.lookup(parent)
	if err != nil {
		return NodeID{}, nodeErr("insert", parent, ErrUnknownParent)
	}
	return s.insert(p, data), nil
}

func (s *Scene) insert(p *node, data NodeData) NodeID {
	n := newNode(data)
	id := s.alloc(n)
	n.parent = p.id
	p.children = append(p.children, id)
	p.childrenSorted = false
	s.markDirty(p)
	if s.debug {
		s.debugCheckTreeDepth(n)
		s.debugCheckChildCount(p)
	}
	return id
}

// InsertTree inserts a pre-built hierarchy under parent, children in order,
// and returns the identity of the tree's root. Nothing is inserted when the
// parent does not exist.
func (s *Scene) InsertTree(parent NodeID, tree Tree) (NodeID, error) {
	p, err := s.lookup(parent)
	if err != nil {
		return NodeID{}, nodeErr("insert tree", parent, ErrUnknownParent)
	}
	return s.insertTree(p, tree), nil
}

func (s *Scene) insertTree(p *node, tree Tree) NodeID {
	id := s.insert(p, tree.Data)
	n := s.node(id)
	for _, child := range tree.Children {
		s.insertTree(n, child)
	}
	return id
}

// Remove detaches id from its parent and frees it and every descendant. All
// identities in the subtree become invalid.
func (s *Scene) Remove(id NodeID) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("remove", id, err)
	}
	if id == s.root {
		return nodeErr("remove", id, ErrRootNode)
	}
	p := s.node(n.parent)
	p.children = removeID(p.children, id)
	p.childrenSorted = false
	s.markDirty(p)
	s.freeSubtree(n)
	return nil
}

func (s *Scene) freeSubtree(n *node) {
	for _, cid := range n.children {
		if c := s.node(cid); c != nil {
			s.freeSubtree(c)
		}
	}
	for i := range s.captured {
		if s.captured[i] == n.id {
			s.captured[i] = NodeID{}
		}
	}
	s.release(n)
	n.children = nil
	n.sortedChildren = nil
	n.handlers = nil
	n.userData = nil
}

// Reparent moves id (with its subtree) to the end of newParent's children.
// It fails with ErrCycle when newParent is id or one of its descendants.
func (s *Scene) Reparent(id, newParent NodeID) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("reparent", id, err)
	}
	np, err := s.lookup(newParent)
	if err != nil {
		return nodeErr("reparent", newParent, ErrUnknownParent)
	}
	if s.isAncestor(n, np) {
		return nodeErr("reparent", id, ErrCycle)
	}
	old := s.node(n.parent)
	old.children = removeID(old.children, id)
	old.childrenSorted = false
	s.markDirty(old)

	n.parent = np.id
	np.children = append(np.children, id)
	np.childrenSorted = false
	s.markDirty(n)
	s.markDirty(np)
	if s.debug {
		s.debugCheckTreeDepth(n)
		s.debugCheckChildCount(np)
	}
	return nil
}

// SetChildIndex moves id to index among its siblings.
func (s *Scene) SetChildIndex(id NodeID, index int) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("set child index", id, err)
	}
	p := s.node(n.parent)
	if p == nil {
		return nodeErr("set child index", id, ErrRootNode)
	}
	nc := len(p.children)
	if index < 0 || index >= nc {
		return nodeErr("set child index", id, ErrIndexOutOfRange)
	}
	oldIndex := indexOf(p.children, id)
	if oldIndex == index {
		return nil
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(p.children[oldIndex:], p.children[oldIndex+1:index+1])
	} else {
		copy(p.children[index+1:], p.children[index:oldIndex])
	}
	p.children[index] = id
	p.childrenSorted = false
	s.markDirty(p)
	return nil
}

// --- Setters ---

// SetTransform replaces the node's transform. The zero Affine is read as
// Identity.
func (s *Scene) SetTransform(id NodeID, m Affine) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("set transform", id, err)
	}
	n.transform = normalizeAffine(m)
	s.markDirty(n)
	return nil
}

// SetStyle replaces the node's style.
func (s *Scene) SetStyle(id NodeID, st Style) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("set style", id, err)
	}
	if st.ZIndex != n.style.ZIndex {
		if p := s.node(n.parent); p != nil {
			p.childrenSorted = false
		}
	}
	n.style = st.clone()
	s.markDirty(n)
	return nil
}

// SetShape replaces the node's shape.
func (s *Scene) SetShape(id NodeID, sh Shape) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("set shape", id, err)
	}
	n.shape = sh.clone()
	s.markDirty(n)
	return nil
}

// SetConstraints replaces the node's layout constraints. A nil spec takes
// the node out of flex layout.
func (s *Scene) SetConstraints(id NodeID, spec *LayoutSpec) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("set constraints", id, err)
	}
	if spec == nil {
		n.layout = nil
	} else {
		cp := *spec
		n.layout = &cp
	}
	s.markDirty(n)
	return nil
}

// SetHidden hides or shows a node. Hidden subtrees are neither painted nor
// hit-tested but still take part in layout.
func (s *Scene) SetHidden(id NodeID, hidden bool) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("set hidden", id, err)
	}
	n.hidden = hidden
	s.markDirty(n)
	return nil
}

// SetInputTransparent excludes the node itself from hit-testing. Its
// descendants are still hit-tested.
func (s *Scene) SetInputTransparent(id NodeID, transparent bool) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("set input transparent", id, err)
	}
	n.inputTransparent = transparent
	return nil
}

// SetName renames a node and updates the name index.
func (s *Scene) SetName(id NodeID, name string) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("set name", id, err)
	}
	s.unindexName(n.name, id)
	n.name = name
	s.indexName(name, id)
	return nil
}

// SetHandler registers h for kind on the node, replacing any previous
// handler. A nil h clears the entry. Handlers do not affect layout.
func (s *Scene) SetHandler(id NodeID, kind EventKind, h Handler) error {
	n, err := s.lookup(id)
	if err != nil {
		return nodeErr("set handler", id, err)
	}
	if h == nil {
		delete(n.handlers, kind)
		return nil
	}
	if n.handlers == nil {
		n.handlers = make(map[EventKind]Handler)
	}
	n.handlers[kind] = h
	return nil
}

// --- Queries ---

// Get returns a read-only snapshot of the node.
func (s *Scene) Get(id NodeID) (NodeView, bool) {
	n := s.node(id)
	if n == nil {
		return NodeView{}, false
	}
	return n.view(), true
}

// Lookup finds a node by name. When several live nodes share a name the
// most recently named one wins; removing it exposes the previous one.
func (s *Scene) Lookup(name string) (NodeID, bool) {
	ids := s.names[name]
	if len(ids) == 0 {
		return NodeID{}, false
	}
	return ids[len(ids)-1], true
}

// Names returns the name index: each name mapped to the node Lookup would
// return for it.
func (s *Scene) Names() map[string]NodeID {
	out := make(map[string]NodeID, len(s.names))
	for name, ids := range s.names {
		out[name] = ids[len(ids)-1]
	}
	return out
}

// Parent returns the parent of id. The root has no parent.
func (s *Scene) Parent(id NodeID) (NodeID, bool) {
	n := s.node(id)
	if n == nil || n.parent.IsZero() {
		return NodeID{}, false
	}
	return n.parent, true
}

// Children returns a copy of id's children in insertion order.
func (s *Scene) Children(id NodeID) []NodeID {
	n := s.node(id)
	if n == nil {
		return nil
	}
	return append([]NodeID(nil), n.children...)
}

// IsDirty reports whether the node awaits a layout pass.
func (s *Scene) IsDirty(id NodeID) bool {
	n := s.node(id)
	return n != nil && n.dirty
}

// Traverse yields every node depth-first, pre-order, in paint order starting
// at the root. The sequence is lazy and may be restarted.
func (s *Scene) Traverse() iter.Seq[NodeID] {
	return s.TraverseFrom(s.root)
}

// TraverseFrom is Traverse rooted at id. Unknown ids yield nothing.
func (s *Scene) TraverseFrom(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		n := s.node(id)
		if n == nil {
			return
		}
		s.walk(n, yield)
	}
}

func (s *Scene) walk(n *node, yield func(NodeID) bool) bool {
	if !yield(n.id) {
		return false
	}
	for _, cid := range s.paintOrder(n) {
		c := s.node(cid)
		if c == nil {
			continue
		}
		if !s.walk(c, yield) {
			return false
		}
	}
	return true
}

// paintOrder returns n's children sorted by ZIndex, insertion order breaking
// ties. The slice is owned by n.
func (s *Scene) paintOrder(n *node) []NodeID {
	if !n.childrenSorted {
		s.rebuildSortedChildren(n)
	}
	return n.sortedChildren
}

// rebuildSortedChildren uses a stable insertion sort: zero allocations and
// O(n) for the common already-sorted case.
func (s *Scene) rebuildSortedChildren(n *node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]NodeID, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		kz := s.zIndex(key)
		j := i - 1
		for j >= 0 && s.zIndex(n.sortedChildren[j]) > kz {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}

func (s *Scene) zIndex(id NodeID) int {
	if n := s.node(id); n != nil {
		return n.style.ZIndex
	}
	return 0
}

// --- Coordinate conversion ---

// WorldTransform returns the accumulated transform from id's local space to
// world space, using the last resolved geometry.
func (s *Scene) WorldTransform(id NodeID) (Affine, error) {
	n, err := s.lookup(id)
	if err != nil {
		return Identity, nodeErr("world transform", id, err)
	}
	return s.worldMatrix(n), nil
}

func (s *Scene) worldMatrix(n *node) Affine {
	m := n.localMatrix()
	for p := s.node(n.parent); p != nil; p = s.node(p.parent) {
		m = p.localMatrix().Mul(m)
	}
	return m
}

// WorldToLocal converts a world-space point into id's local space.
func (s *Scene) WorldToLocal(id NodeID, wx, wy float64) (lx, ly float64, err error) {
	m, err := s.WorldTransform(id)
	if err != nil {
		return 0, 0, err
	}
	inv, _ := m.Invert()
	lx, ly = inv.Apply(wx, wy)
	return lx, ly, nil
}

// LocalToWorld converts a point in id's local space to world space.
func (s *Scene) LocalToWorld(id NodeID, lx, ly float64) (wx, wy float64, err error) {
	m, err := s.WorldTransform(id)
	if err != nil {
		return 0, 0, err
	}
	wx, wy = m.Apply(lx, ly)
	return wx, wy, nil
}

// --- Helpers ---

// isAncestor reports whether candidate is n or an ancestor of n. O(depth).
func (s *Scene) isAncestor(candidate, n *node) bool {
	for p := n; p != nil; p = s.node(p.parent) {
		if p == candidate {
			return true
		}
	}
	return false
}

// markDirty flags n and its ancestors. It stops at the first ancestor that is
// already dirty: a dirty node always has dirty ancestors.
func (s *Scene) markDirty(n *node) {
	for cur := n; cur != nil && !cur.dirty; cur = s.node(cur.parent) {
		cur.dirty = true
		cur.measuredValid = false
	}
}
