package surface

// SetX11Role tags s as backed by an XWayland window, tracking the X11
// window ID association without modeling the window-manager state machine
// itself (out of scope; see DESIGN.md's supplemented-features note).
func (s *WlSurface) SetX11Role(x11WindowID uint32) {
	s.Role = RoleX11
	s.X11ID = x11WindowID
}

// SetCursorRole tags s as a cursor surface. Its committed buffer still
// imports through the normal buffer-importer path (Host.Commit doesn't
// branch on role). The tag is recorded only: the DRM backend does not read
// it when choosing a plane (supplemented feature, see DESIGN.md).
func (s *WlSurface) SetCursorRole() {
	s.Role = RoleCursor
}
