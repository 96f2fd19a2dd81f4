package drm

import "github.com/waylex/waylex/internal/gpudevice"

// DeviceAdapter adapts *gpudevice.DrmDevice to the narrow Framebuffers and
// Flipper interfaces DrmSurface depends on, keeping the surface ring
// testable against a fake while production wiring only needs to pass the
// same *gpudevice.DrmDevice it already has.
type DeviceAdapter struct {
	d *gpudevice.DrmDevice
}

// NewDeviceAdapter wraps d for use as both a DrmSurface Framebuffers and
// Flipper collaborator.
func NewDeviceAdapter(d *gpudevice.DrmDevice) *DeviceAdapter {
	return &DeviceAdapter{d: d}
}

func (a *DeviceAdapter) AddFramebuffer(width, height, fourcc, bpp, depth uint32, planes []gpudevice.FBPlane, modifier uint64) (uint32, error) {
	return gpudevice.AddFramebuffer(a.d, width, height, fourcc, bpp, depth, planes, modifier)
}

func (a *DeviceAdapter) RemoveFramebuffer(fbID uint32) error {
	return gpudevice.RmFB(a.d, fbID)
}

func (a *DeviceAdapter) PageFlip(crtcID, fbID uint32, userData uint64) error {
	return gpudevice.PageFlip(a.d, crtcID, fbID, userData)
}
