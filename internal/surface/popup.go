package surface

import "github.com/waylex/waylex/internal/geom"

// SetPopup marks s as a popup with a parent-relative geometry (spec 4.C,
// "Popups"). The initial configure is sent on the surface's first commit,
// not here.
func (s *WlSurface) SetPopup(parent *WlSurface, geometry geom.Rect) {
	s.Role = RolePopup
	s.parent = parent
	s.pending.geometry = geometry
	s.pending.geometrySet = true
	s.popupConfigured = false
}

// Configured reports whether the popup's initial configure has been sent.
func (s *WlSurface) Configured() bool { return s.popupConfigured }
