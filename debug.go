package ardent

import "time"

// snapshotStats holds per-frame metrics for Snapshot. Only populated when
// debug mode is on.
type snapshotStats struct {
	traverseTime time.Duration
	visited      int
	items        int
	culled       int
}

// SetDebugMode enables per-pass timing logs and tree sanity warnings.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// debugLayout logs layout pass counters.
func (s *Scene) debugLayout(stats layoutStats) {
	if !s.debug {
		return
	}
	Logger().Debug("ardent: layout",
		"measured", stats.measured,
		"arranged", stats.arranged,
		"placed", stats.placed,
		"skipped", stats.skipped,
		"elapsed", stats.elapsed)
}

// debugSnapshot logs snapshot counters.
func (s *Scene) debugSnapshot(stats snapshotStats) {
	if !s.debug {
		return
	}
	Logger().Debug("ardent: snapshot",
		"visited", stats.visited,
		"items", stats.items,
		"culled", stats.culled,
		"traverse", stats.traverseTime)
}

// debugCheckTreeDepth warns when n sits deeper than the configured threshold.
func (s *Scene) debugCheckTreeDepth(n *node) {
	depth := 0
	for p := n; p != nil; p = s.node(p.parent) {
		depth++
	}
	if depth > s.cfg.MaxTreeDepth {
		Logger().Warn("ardent: tree depth exceeds threshold",
			"node", n.name, "depth", depth, "threshold", s.cfg.MaxTreeDepth)
	}
}

// debugCheckChildCount warns when n has more children than the threshold.
func (s *Scene) debugCheckChildCount(n *node) {
	if len(n.children) > s.cfg.MaxChildCount {
		Logger().Warn("ardent: child count exceeds threshold",
			"node", n.name, "children", len(n.children), "threshold", s.cfg.MaxChildCount)
	}
}
