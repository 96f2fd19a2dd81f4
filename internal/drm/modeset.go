package drm

import (
	"fmt"

	"github.com/waylex/waylex/internal/geom"
	"github.com/waylex/waylex/internal/gpudevice"
)

// BuildModesetRequest constructs the atomic request spec 4.D describes:
// connector.CRTC_ID, crtc.ACTIVE=true and MODE_ID=modeBlobID, and the
// primary plane's CRTC_ID/FB_ID plus its SRC_* (buffer-local) and CRTC_*
// (output-local) rectangles. It is a pure function, decoupled from the
// actual ioctl commit, so the property/value wiring is unit-testable.
func BuildModesetRequest(connectorID, crtcID, planeID, fbID, modeBlobID uint32, src, dst geom.Rect, props gpudevice.PropIDs) *gpudevice.AtomicRequest {
	req := &gpudevice.AtomicRequest{}
	req.Set(connectorID, props.ConnectorCRTCID, uint64(crtcID))
	req.Set(crtcID, props.CRTCActive, 1)
	req.Set(crtcID, props.CRTCModeID, uint64(modeBlobID))
	req.Set(planeID, props.PlaneCRTCID, uint64(crtcID))
	req.Set(planeID, props.PlaneFBID, uint64(fbID))
	// Plane source coordinates are in 16.16 fixed point in the real uAPI;
	// this module does not do sub-pixel scanout, so the whole-pixel values
	// are shifted into that format here.
	req.Set(planeID, props.PlaneSrcX, uint64(src.X)<<16)
	req.Set(planeID, props.PlaneSrcY, uint64(src.Y)<<16)
	req.Set(planeID, props.PlaneSrcW, uint64(src.W)<<16)
	req.Set(planeID, props.PlaneSrcH, uint64(src.H)<<16)
	req.Set(planeID, props.PlaneCrtcX, uint64(int64(dst.X)))
	req.Set(planeID, props.PlaneCrtcY, uint64(int64(dst.Y)))
	req.Set(planeID, props.PlaneCrtcW, uint64(dst.W))
	req.Set(planeID, props.PlaneCrtcH, uint64(dst.H))
	return req
}

// AtomicModeset uploads mode as a property blob and commits
// BuildModesetRequest with ALLOW_MODESET, per spec 4.D's atomic path.
func AtomicModeset(d *gpudevice.DrmDevice, connectorID, crtcID, planeID, fbID uint32, mode [68]byte, src, dst geom.Rect, props gpudevice.PropIDs) error {
	blobID, err := gpudevice.CreateModeBlob(d, mode)
	if err != nil {
		return fmt.Errorf("drm: create mode blob: %w", err)
	}
	req := BuildModesetRequest(connectorID, crtcID, planeID, fbID, blobID, src, dst, props)
	if err := d.CommitAtomic(req, true); err != nil {
		return fmt.Errorf("drm: atomic modeset commit: %w", err)
	}
	return nil
}

// LegacyModeset performs spec 4.D's legacy path: drmModeSetCrtc followed
// by an immediate drmModePageFlip to queue the first flip event.
func LegacyModeset(d *gpudevice.DrmDevice, crtcID, fbID uint32, connectorIDs []uint32, mode [68]byte, userData uint64) error {
	if err := gpudevice.SetCrtc(d, crtcID, fbID, connectorIDs, mode); err != nil {
		return fmt.Errorf("drm: legacy SETCRTC: %w", err)
	}
	if err := gpudevice.PageFlip(d, crtcID, fbID, userData); err != nil {
		return fmt.Errorf("drm: legacy initial page flip: %w", err)
	}
	return nil
}
