package surface

import (
	"fmt"

	"github.com/waylex/waylex/internal/ecs"
	"github.com/waylex/waylex/internal/geom"
	"github.com/waylex/waylex/internal/wlproto"
)

// bufferReleaseOpcode is wl_buffer's release event (opcode 0 in the
// upstream protocol XML); surface.go only needs the number, not the rest
// of wl_buffer's request/event table, which lives with the external
// dispatcher.
const bufferReleaseOpcode = 0

// popupConfigureOpcode is xdg_popup's configure event (opcode 0 upstream).
const popupConfigureOpcode = 0

// Host is what Commit needs from its surroundings: releasing a
// superseded buffer back to the client, sending a popup's initial
// configure, and publishing the change so the scheduler (component E)
// reruns the buffer importer.
type Host struct {
	Dispatcher    wlproto.Dispatcher
	Registry      *ecs.Registry
	BufferChanged ecs.ComponentID
	GeometryChanged ecs.ComponentID
}

// releaseBuffer signals wl_buffer.release exactly once per buffer, per the
// WlSurface invariant "release is signaled to the client exactly once when
// replaced" (spec 3).
func (h *Host) releaseBuffer(ref *BufferRef) error {
	if ref == nil || !ref.alive {
		return nil
	}
	ref.alive = false
	if h.Dispatcher == nil {
		return nil
	}
	return h.Dispatcher.SendEvent(ref.Handle, bufferReleaseOpcode, nil)
}

// Commit applies the pending state to the committed state, per the six
// steps in spec 4.C.
func (h *Host) Commit(s *WlSurface) error {
	// Step 1: atomically copy opaque-region, input-region, scale,
	// window-geometry; append damages and callbacks.
	s.committed.opaqueRegion = s.pending.opaqueRegion
	s.committed.inputRegion = s.pending.inputRegion
	s.committed.scale = s.pending.scale
	if s.pending.geometrySet {
		if !s.surfaceBounds.Empty() && !s.surfaceBounds.Contains(s.pending.geometry) {
			return fmt.Errorf("%w: %+v not inside %+v", ErrGeometryOutOfBounds, s.pending.geometry, s.surfaceBounds)
		}
		s.committed.geometry = s.pending.geometry
	}

	clamped := make([]geom.Rect, len(s.pending.damage))
	for i, r := range s.pending.damage {
		clamped[i] = r.Intersect(s.surfaceBounds)
	}
	s.committed.damage = append(s.committed.damage, clamped...)
	s.committed.callbacks = append(s.committed.callbacks, s.pending.callbacks...)

	// Step 2: offset accumulates, it does not replace.
	s.committed.offsetX += s.pending.offsetDeltaX
	s.committed.offsetY += s.pending.offsetDeltaY

	newBufferAttached := false
	if s.pending.bufferSet {
		// Step 3: release the previous committed buffer if a new one
		// supersedes it.
		if err := h.releaseBuffer(s.committed.buffer); err != nil {
			return err
		}
		s.committed.buffer = s.pending.buffer
		if s.committed.buffer != nil {
			s.committed.buffer.alive = true
		}
		newBufferAttached = true
	}

	// Step 4: popups configure on first commit.
	if s.Role == RolePopup && !s.popupConfigured {
		if err := h.sendPopupConfigure(s); err != nil {
			return err
		}
		s.popupConfigured = true
	}

	// Step 5: trigger the buffer importer via the scheduler, only when a
	// new buffer actually landed.
	if newBufferAttached && h.Registry != nil {
		h.Registry.Publish(s.Entity, h.BufferChanged)
	}

	// Step 6: geometry auto-derivation is handled by resize detection
	// below; an explicit geometry change already updated committed.geometry
	// above and is published here too.
	if s.pending.geometrySet && h.Registry != nil {
		h.Registry.Publish(s.Entity, h.GeometryChanged)
	}

	// Resetting pending to near-zero means a commit that doesn't re-set
	// opaque/input region overwrites the committed value with empty on the
	// next commit — unlike upstream Wayland, where those are sticky
	// double-buffered state that persists commit to commit. Scale is carried
	// forward explicitly on the line below; regions are not (spec 4.C's
	// copy-pending-into-committed wording taken literally). Window geometry
	// persists, since committed.geometry only changes when geometrySet.
	s.pending = pendingState{scale: s.pending.scale}
	return nil
}

func (h *Host) sendPopupConfigure(s *WlSurface) error {
	if h.Dispatcher == nil {
		return nil
	}
	return h.Dispatcher.SendEvent(s.Handle, popupConfigureOpcode, nil)
}

// Resize implements spec 4.C's "Resize path": when the imported buffer's
// size differs from the realized texture size, the texture is recreated
// (the caller does that; Resize only updates bookkeeping) and a
// full-surface damage is issued so the next import refreshes everything.
func (s *WlSurface) Resize(newWidth, newHeight int32) bool {
	old := s.surfaceBounds
	if old.W == newWidth && old.H == newHeight {
		return false
	}
	s.surfaceBounds = geom.Rect{W: newWidth, H: newHeight}
	s.committed.damage = append(s.committed.damage, s.surfaceBounds)
	return true
}
