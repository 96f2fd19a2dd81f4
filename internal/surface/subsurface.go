package surface

import "github.com/waylex/waylex/internal/geom"

// SubsurfaceState is the position/stacking state specific to a subsurface
// role (spec 4.C, "Subsurfaces").
type SubsurfaceState struct {
	ParentLocalX, ParentLocalY int32
	Sync                       bool // true: child commit latches to parent commit
}

// SetSubsurface marks s as a child of parent, positioned relative to it.
func (s *WlSurface) SetSubsurface(parent *WlSurface, state SubsurfaceState) {
	s.Role = RoleSubsurface
	s.parent = parent
	s.sync = state.Sync
	s.pending.offsetDeltaX = state.ParentLocalX
	s.pending.offsetDeltaY = state.ParentLocalY
}

// Children returns s's direct child subsurfaces in AddChild order; the
// top-down tree walk is WalkGeometry.
func (s *WlSurface) Children() []*WlSurface { return s.children }

// AddChild registers a child subsurface for top-down tree walks.
func (s *WlSurface) AddChild(child *WlSurface) {
	s.children = append(s.children, child)
}

// CommitDesync applies a child subsurface's own commit immediately,
// bypassing the parent-latch rule; used when the child is in desync mode.
func (h *Host) CommitDesync(s *WlSurface) error {
	return h.Commit(s)
}

// CommitSynced applies a parent's commit and then commits every direct
// child in sync mode, applying that child's pending state (spec 4.C: sync
// children latch to the parent's commit). Grandchildren are not visited.
func (h *Host) CommitSynced(parent *WlSurface) error {
	if err := h.Commit(parent); err != nil {
		return err
	}
	for _, child := range parent.children {
		if !child.sync {
			continue
		}
		if err := h.Commit(child); err != nil {
			return err
		}
	}
	return nil
}

// WalkGeometry visits s and every descendant top-down, accumulating each
// surface's effective geometry (parent offset composed with its own).
func WalkGeometry(s *WlSurface, visit func(surf *WlSurface, bounds geom.Rect)) {
	walkGeometry(s, geom.Rect{}, visit)
}

func walkGeometry(s *WlSurface, parentOffset geom.Rect, visit func(*WlSurface, geom.Rect) ) {
	bounds := geom.Rect{
		X: parentOffset.X + s.committed.offsetX,
		Y: parentOffset.Y + s.committed.offsetY,
		W: s.surfaceBounds.W,
		H: s.surfaceBounds.H,
	}
	visit(s, bounds)
	for _, child := range s.children {
		walkGeometry(child, bounds, visit)
	}
}
