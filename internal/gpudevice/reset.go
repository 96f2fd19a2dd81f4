package gpudevice

import "fmt"

// AtomicEntry is one object/property/value triple destined for a single
// atomic KMS commit.
type AtomicEntry struct {
	ObjID  uint32
	PropID uint32
	Value  uint64
}

// AtomicRequest accumulates the triples for one atomic commit, preserving
// the order objects were first touched (ioctl grouping requires objects
// to be contiguous, not that any particular object come first).
type AtomicRequest struct {
	Entries []AtomicEntry
}

// Set appends a property write.
func (r *AtomicRequest) Set(objID, propID uint32, value uint64) {
	r.Entries = append(r.Entries, AtomicEntry{ObjID: objID, PropID: propID, Value: value})
}

// PropIDs is the device's property-name -> handle lookup table for the
// properties Reset and the atomic modeset path touch (spec 3, DrmDevice
// attributes: "property name -> property handle lookup tables for
// connectors/CRTCs/planes").
type PropIDs struct {
	ConnectorCRTCID uint32
	CRTCActive      uint32
	CRTCModeID      uint32
	PlaneCRTCID     uint32
	PlaneFBID       uint32

	// Plane source (buffer-local) and destination (CRTC-local) rectangles,
	// needed only for the atomic modeset path (spec 4.D: "plane.SRC_* and
	// CRTC_* rectangles").
	PlaneSrcX, PlaneSrcY, PlaneSrcW, PlaneSrcH     uint32
	PlaneCrtcX, PlaneCrtcY, PlaneCrtcW, PlaneCrtcH uint32
}

// BuildResetRequest constructs the atomic request that clears every
// connector's CRTC_ID, every plane's CRTC_ID and FB_ID, and sets every
// CRTC's ACTIVE=false and MODE_ID=0 — the baseline state spec 4.A and the
// reset-to-baseline testable property (spec 8) require.
func BuildResetRequest(connectorIDs, crtcIDs, planeIDs []uint32, props PropIDs) *AtomicRequest {
	req := &AtomicRequest{}
	for _, id := range connectorIDs {
		req.Set(id, props.ConnectorCRTCID, 0)
	}
	for _, id := range crtcIDs {
		req.Set(id, props.CRTCActive, 0)
		req.Set(id, props.CRTCModeID, 0)
	}
	for _, id := range planeIDs {
		req.Set(id, props.PlaneCRTCID, 0)
		req.Set(id, props.PlaneFBID, 0)
	}
	return req
}

// NoActiveCrtcOrFb reports whether the request, if applied, leaves no
// connector bound to a CRTC and no plane bound to a framebuffer — the
// exact postcondition spec 8 names for Reset.
func (r *AtomicRequest) NoActiveCrtcOrFb(props PropIDs) bool {
	for _, e := range r.Entries {
		switch e.PropID {
		case props.ConnectorCRTCID, props.PlaneCRTCID, props.PlaneFBID:
			if e.Value != 0 {
				return false
			}
		}
	}
	return true
}

// Reset restores a device to baseline: for atomic devices, commits
// BuildResetRequest with ALLOW_MODESET; for legacy devices, turns DPMS off
// on every connected connector, clears the cursor, and nulls the CRTC
// mode, per spec 4.A.
func (d *DrmDevice) Reset(connectorIDs, crtcIDs, planeIDs []uint32, props PropIDs, dpmsPropID uint32) error {
	if d.Atomic() {
		req := BuildResetRequest(connectorIDs, crtcIDs, planeIDs, props)
		if err := commitAtomic(d.File, req, atomicFlagAllowModeset); err != nil {
			return fmt.Errorf("gpudevice: atomic reset commit: %w", err)
		}
		return nil
	}

	for _, cid := range connectorIDs {
		if err := setConnectorProperty(d.File, cid, dpmsPropID, dpmsOff); err != nil {
			// DPMS failures are skipped silently, not fatal to the reset.
			continue
		}
	}
	for _, cid := range crtcIDs {
		if err := clearCursor(d.File, cid); err != nil {
			// Cursor-clear failures are skipped silently, not fatal to the reset.
			continue
		}
	}
	for _, cid := range crtcIDs {
		if err := clearCrtcMode(d.File, cid); err != nil {
			continue
		}
	}
	return nil
}

const (
	dpmsOff = 3 // DRM_MODE_DPMS_OFF
)
