package ardent

import "slices"

// syntheticPointerEvent is one queued pointer sample in screen space. It goes
// through the camera exactly like a real mouse sample.
type syntheticPointerEvent struct {
	screen  Vec2
	pressed bool
	button  MouseButton
}

func (s *Scene) queuePointer(x, y float64, pressed bool) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screen:  Vec2{X: x, Y: y},
		pressed: pressed,
		button:  MouseButtonLeft,
	})
}

// InjectPress queues a left-button press at screen (x, y). Each queued sample
// is consumed by one Update.
func (s *Scene) InjectPress(x, y float64) { s.queuePointer(x, y, true) }

// InjectMove queues a move with the button held.
func (s *Scene) InjectMove(x, y float64) { s.queuePointer(x, y, true) }

// InjectHover queues a move with no button held.
func (s *Scene) InjectHover(x, y float64) { s.queuePointer(x, y, false) }

// InjectRelease queues a left-button release.
func (s *Scene) InjectRelease(x, y float64) { s.queuePointer(x, y, false) }

// InjectClick queues a press and a release at the same point.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at the start point, evenly spaced moves, and a
// release at the end point: frames samples in total, at least 2.
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	s.InjectPress(fromX, fromY)
	for i := 1; i < frames-1; i++ {
		t := float64(i) / float64(frames-1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectClickNode queues a click at the screen position of the centre of the
// node's box.
func (s *Scene) InjectClickNode(id NodeID) error {
	x, y, err := s.screenCenter(id)
	if err != nil {
		return nodeErr("inject click", id, err)
	}
	s.InjectClick(x, y)
	return nil
}

// screenCenter maps the centre of a node's box, as hit testing sees it, to
// screen space.
func (s *Scene) screenCenter(id NodeID) (float64, float64, error) {
	n, err := s.lookup(id)
	if err != nil {
		return 0, 0, err
	}
	box := n.localBox()
	if n.hasGeometry {
		box = n.resolved.box
	}
	x, y := s.hitWorld(n).Apply(box.X+box.Width/2, box.Y+box.Height/2)
	if s.camera != nil {
		x, y = s.camera.WorldToScreen(x, y)
	}
	return x, y, nil
}

// PendingInjections returns the number of queued synthetic samples.
func (s *Scene) PendingInjections() int {
	return len(s.injectQueue)
}

// processInjectedInput feeds the oldest queued sample to Pointer and reports
// whether there was one.
func (s *Scene) processInjectedInput(mods KeyModifiers) bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	ev := s.injectQueue[0]
	s.injectQueue = slices.Delete(s.injectQueue, 0, 1)

	wx, wy := s.ScreenToWorld(ev.screen.X, ev.screen.Y)
	s.Pointer(0, wx, wy, ev.pressed, ev.button, mods)
	return true
}

// Update advances one frame: camera motion, then the attached test runner,
// then at most one synthetic pointer sample. It reports whether a synthetic
// sample was consumed; hosts skip real mouse input on those frames.
func (s *Scene) Update(dt float32) bool {
	if s.camera != nil {
		s.camera.update(dt, s)
	}
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	return s.processInjectedInput(0)
}
