// Package surface tracks the protocol-level state of every Wayland
// surface, subsurface, popup, and X11-backed window, with the
// pending-vs-committed double buffering spec 4.C requires.
package surface

import (
	"errors"

	"github.com/waylex/waylex/internal/ecs"
	"github.com/waylex/waylex/internal/geom"
	"github.com/waylex/waylex/internal/importer"
	"github.com/waylex/waylex/internal/wlproto"
)

var (
	ErrBufferHeldElsewhere = errors.New("surface: buffer already held by another committed slot")
	ErrGeometryOutOfBounds = errors.New("surface: window geometry not contained in surface bounds")
	ErrPopupAlreadyConfigured = errors.New("surface: popup already configured")
)

// Role mirrors spec 3's WlSurface.role enum, including the cursor and
// X11-backed roles (expansion features, see DESIGN.md).
type Role int

const (
	RoleUnassigned Role = iota
	RoleToplevel
	RolePopup
	RoleSubsurface
	RoleCursor
	RoleX11
)

// FrameCallback is a queued wl_callback the compositor must fire once the
// surface's next frame has been presented.
type FrameCallback struct {
	Handle wlproto.ObjectHandle
}

// BufferRef is the handle the surface model holds for a client's Buffer;
// ownership questions (who released it, is it still alive) are tracked
// through this wrapper rather than the raw importer.Identity so a released
// buffer can't be silently reused.
type BufferRef struct {
	Identity importer.Identity
	Handle   wlproto.ObjectHandle
	alive    bool
}

// pendingState accumulates between commits (spec 4.C, "Pending state").
type pendingState struct {
	buffer        *BufferRef
	bufferSet     bool // distinguishes "no buffer attached" from "attach(null)"
	damage        []geom.Rect
	callbacks     []FrameCallback
	opaqueRegion  geom.Region
	inputRegion   geom.Region
	scale         int32
	offsetDeltaX  int32
	offsetDeltaY  int32
	geometry      geom.Rect
	geometrySet   bool
}

// committedState is the realized, renderer-visible state.
type committedState struct {
	buffer       *BufferRef
	damage       []geom.Rect
	callbacks    []FrameCallback
	opaqueRegion geom.Region
	inputRegion  geom.Region
	scale        int32
	offsetX      int32
	offsetY      int32
	geometry     geom.Rect
	textureSize  geom.Rect // width/height of the realized texture (X/Y unused)
}

// WlSurface is one client drawing area (spec 3, WlSurface).
type WlSurface struct {
	Entity  ecs.EntityID
	Role    Role
	Handle  wlproto.ObjectHandle
	X11ID   uint32 // set only when Role == RoleX11 (expansion feature)

	pending   pendingState
	committed committedState

	parent    *WlSurface // non-nil for subsurfaces and popups
	children  []*WlSurface
	sync      bool       // subsurfaces: true = synced to parent commit
	popupConfigured bool

	surfaceBounds geom.Rect // current surface-local bounds, derived from texture size
}

// New creates a surface bound to entity, matching wl_compositor.create_surface
// lifecycle (spec 3).
func New(entity ecs.EntityID, handle wlproto.ObjectHandle) *WlSurface {
	return &WlSurface{Entity: entity, Handle: handle, pending: pendingState{scale: 1}, committed: committedState{scale: 1}}
}

// AttachBuffer sets the pending buffer, replacing any prior pending buffer.
// The displaced buffer is dropped without a wl_buffer.release event:
// Host.Commit only sends release for a buffer that was committed.
func (s *WlSurface) AttachBuffer(ref *BufferRef) {
	if s.pending.bufferSet && s.pending.buffer != nil {
		s.pending.buffer.alive = false
	}
	s.pending.buffer = ref
	s.pending.bufferSet = true
}

// DamagePending accumulates a surface-local damage rectangle onto the
// pending list (spec 3: "damage rectangles are expressed in surface-local
// coordinates").
func (s *WlSurface) DamagePending(r geom.Rect) {
	s.pending.damage = append(s.pending.damage, r)
}

// QueueFrameCallback records a frame-done callback to fire on the pending
// commit.
func (s *WlSurface) QueueFrameCallback(cb FrameCallback) {
	s.pending.callbacks = append(s.pending.callbacks, cb)
}

// SetPendingOffset accumulates a surface-local offset delta, applied on
// commit as committed.offset += pending.offset (spec 4.C step 2), not a
// replacement.
func (s *WlSurface) SetPendingOffset(dx, dy int32) {
	s.pending.offsetDeltaX += dx
	s.pending.offsetDeltaY += dy
}

// SetPendingScale stages a new buffer scale for the next commit.
func (s *WlSurface) SetPendingScale(scale int32) {
	s.pending.scale = scale
}

// SetPendingRegions stages the opaque and input region for the next
// commit.
func (s *WlSurface) SetPendingRegions(opaque, input geom.Region) {
	s.pending.opaqueRegion = opaque
	s.pending.inputRegion = input
}

// SetPendingGeometry stages an explicit window geometry, validated against
// the invariant window_geometry ⊆ surface_bounds at commit time.
func (s *WlSurface) SetPendingGeometry(r geom.Rect) {
	s.pending.geometry = r
	s.pending.geometrySet = true
}
