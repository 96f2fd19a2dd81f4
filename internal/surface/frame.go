package surface

// DrainFrameCallbacks returns and clears the committed frame-done
// callbacks accumulated since the last drain. Callbacks are not fired on
// import; they stay queued until a caller drains them. The DRM backend's
// page-flip handling does not call this (supplemented feature, see
// DESIGN.md).
func (s *WlSurface) DrainFrameCallbacks() []FrameCallback {
	cbs := s.committed.callbacks
	s.committed.callbacks = nil
	return cbs
}
