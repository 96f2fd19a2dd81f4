package surface

import "github.com/waylex/waylex/internal/geom"

// CommittedBuffer returns the currently committed buffer, or nil.
func (s *WlSurface) CommittedBuffer() *BufferRef { return s.committed.buffer }

// CommittedDamage returns the damage rectangles accumulated over every
// commit since the last ClearCommittedDamage; callers that consume damage
// for rendering should clear it via ClearCommittedDamage.
func (s *WlSurface) CommittedDamage() []geom.Rect { return s.committed.damage }

// ClearCommittedDamage drops the committed damage list, analogous to
// DrainFrameCallbacks for callbacks.
func (s *WlSurface) ClearCommittedDamage() { s.committed.damage = nil }

// CommittedOffset returns the accumulated surface-local offset.
func (s *WlSurface) CommittedOffset() (x, y int32) {
	return s.committed.offsetX, s.committed.offsetY
}

// CommittedScale returns the committed buffer scale.
func (s *WlSurface) CommittedScale() int32 { return s.committed.scale }

// CommittedGeometry returns the committed window geometry.
func (s *WlSurface) CommittedGeometry() geom.Rect { return s.committed.geometry }

// SetSurfaceBounds sets the current surface-local bounds directly, without
// the full-surface damage Resize adds.
func (s *WlSurface) SetSurfaceBounds(r geom.Rect) { s.surfaceBounds = r }

// SurfaceBounds returns the current surface-local bounds.
func (s *WlSurface) SurfaceBounds() geom.Rect { return s.surfaceBounds }
