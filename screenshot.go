package ardent

// ScreenshotFunc receives a labelled frame. The raster package provides a
// PNG-writing implementation.
type ScreenshotFunc func(label string, f *Frame)

// SetScreenshotFunc registers the sink used by Screenshot. Pass nil to
// disable screenshots.
func (s *Scene) SetScreenshotFunc(fn ScreenshotFunc) {
	s.screenshotFn = fn
}

// Screenshot snapshots the scene and hands the frame to the registered
// ScreenshotFunc. It is a no-op when none is registered.
func (s *Scene) Screenshot(label string) {
	if s.screenshotFn == nil {
		Logger().Debug("ardent: screenshot dropped, no sink", "label", label)
		return
	}
	s.screenshotFn(label, s.Snapshot())
}
