// Package drm implements the DRM display backend (spec component D):
// connector/CRTC/plane resource allocation, atomic mode-setting with a
// legacy fallback, GBM-backed framebuffer rings, page-flip/vblank event
// routing, and udev hotplug delivery. It builds directly on the raw
// ioctl primitives internal/gpudevice exposes for the shared DrmDevice.
package drm
