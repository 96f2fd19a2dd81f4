package drm

import (
	"fmt"
	"log/slog"

	"github.com/waylex/waylex/internal/drm/gbm"
	"github.com/waylex/waylex/internal/geom"
	"github.com/waylex/waylex/internal/gpudevice"
)

// GbmOpener resolves the process-wide GBM function table once and opens a
// gbm.Device per DRM file descriptor, keeping BringupDevice independent of
// how that resolution happens (goffi in production, a fake in tests).
type GbmOpener interface {
	Open(fd int) (gbm.Device, error)
	Funcs() gbm.Funcs
}

// Output is one connector brought all the way up to scanning out: its
// connector/CRTC/plane assignment, the surface presenting to it, and the
// mode it was set to (spec 4.D's startup sequence: "open device, enumerate
// connectors, filter to Connected, allocate a CRTC per connector, create a
// DrmSurface, perform the initial modeset").
type Output struct {
	Connector Connector
	CrtcID    uint32
	PlaneID   uint32
	Mode      [68]byte
	Width     uint32
	Height    uint32
	Surface   *DrmSurface
}

// StartupResult is everything BringupDevice produces for one GPU: its opened
// device, the CRTC allocation table backing it, the event router wired to
// every brought-up output, and the outputs themselves.
type StartupResult struct {
	Device  *gpudevice.DrmDevice
	Crtcs   *CrtcTable
	Router  *EventRouter
	Outputs []Output
}

// BringupDevice implements the per-GPU startup sequence: enumerate
// connectors, filter to those currently connected, allocate each one a
// free CRTC, wrap a GBM-backed DrmSurface around a scanout plane, and
// perform the initial mode-set — atomic when the device supports it,
// legacy SETCRTC+PAGE_FLIP otherwise. Runs against an already-opened
// device, so callers control device lifetime and GBM resolution
// (production wiring opens /dev/dri/cardN via gpudevice.Open and resolves
// libgbm via gbm.New once per process).
func BringupDevice(d *gpudevice.DrmDevice, gbmOpen GbmOpener, logger *slog.Logger) (*StartupResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	snapshot, err := SnapshotConnectors(d)
	if err != nil {
		return nil, fmt.Errorf("drm: snapshot connectors: %w", err)
	}
	connected := Connected(snapshot)
	logger.Info("connectors enumerated", "total", len(snapshot), "connected", len(connected))

	crtcIDs, err := gpudevice.CRTCIDs(d)
	if err != nil {
		return nil, fmt.Errorf("drm: enumerate crtcs: %w", err)
	}
	planeIDs, err := gpudevice.PlaneIDs(d)
	if err != nil {
		return nil, fmt.Errorf("drm: enumerate planes: %w", err)
	}
	if len(planeIDs) == 0 {
		return nil, fmt.Errorf("drm: device %s has no scanout planes", d.Path)
	}

	crtcs := NewCrtcTable()
	router := NewEventRouter()
	gbmDev, err := gbmOpen.Open(int(d.File.Fd()))
	if err != nil {
		return nil, fmt.Errorf("drm: open gbm device: %w", err)
	}

	result := &StartupResult{Device: d, Crtcs: crtcs, Router: router}

	for _, c := range connected {
		candidateCrtcs, err := candidateCrtcsFor(d, crtcIDs, c.EncoderID)
		if err != nil {
			logger.Warn("connector skipped: could not resolve candidate crtcs", "connector", c.ID, "err", err)
			continue
		}

		// The preferred CRTC handed to Allocate is the first CRTC in the
		// encoder's possible-CRTCs mask, not the CRTC the encoder is bound
		// to right now.
		var currentCrtc uint32
		if c.EncoderID != 0 {
			if enc, err := gpudevice.EncoderPossibleCrtcs(d, c.EncoderID); err == nil {
				currentCrtc = firstSetCrtc(enc, crtcIDs)
			}
		}

		crtcID, err := crtcs.Allocate(c.ID, currentCrtc, candidateCrtcs)
		if err != nil {
			logger.Warn("connector skipped: no available crtc", "connector", c.ID, "err", err)
			continue
		}

		modes, err := gpudevice.ConnectorModes(d, c.ID)
		if err != nil || len(modes) == 0 {
			logger.Warn("connector skipped: no modes reported", "connector", c.ID)
			crtcs.Release(c.ID)
			continue
		}
		mode := modes[0] // kernel convention: first mode is preferred
		width, height := gpudevice.ModeResolution(mode)

		planeID := planeIDs[0]
		// dpmsPropID is only needed by the legacy reset path (gpudevice.Reset);
		// the startup path here only performs the initial modeset.
		props, _, err := gpudevice.ResolvePropIDs(d, c.ID, crtcID, planeID)
		if err != nil {
			logger.Warn("connector skipped: property resolution failed", "connector", c.ID, "err", err)
			crtcs.Release(c.ID)
			continue
		}

		surface, err := NewDrmSurface(c.ID, crtcID, planeID, uint32(width), uint32(height),
			defaultFourcc, defaultBpp, defaultDepth, gbmDev, gbmOpen.Funcs(), NewDeviceAdapter(d), NewDeviceAdapter(d))
		if err != nil {
			logger.Warn("connector skipped: could not create drm surface", "connector", c.ID, "err", err)
			crtcs.Release(c.ID)
			continue
		}

		bo, err := surface.LockInitialBuffer()
		if err != nil {
			logger.Warn("connector skipped: initial buffer lock failed", "connector", c.ID, "err", err)
			crtcs.Release(c.ID)
			continue
		}
		initialFbID, err := surface.PrimeFront(bo)
		if err != nil {
			logger.Warn("connector skipped: initial framebuffer wrap failed", "connector", c.ID, "err", err)
			crtcs.Release(c.ID)
			continue
		}

		rect := geom.Rect{X: 0, Y: 0, W: int32(width), H: int32(height)}
		if d.Atomic() {
			err = AtomicModeset(d, c.ID, crtcID, planeID, initialFbID, mode, rect, rect, props)
		} else {
			err = LegacyModeset(d, crtcID, initialFbID, []uint32{c.ID}, mode, 0)
		}
		if err != nil {
			logger.Warn("connector skipped: initial modeset failed", "connector", c.ID, "err", err)
			surface.Destroy()
			crtcs.Release(c.ID)
			continue
		}

		router.Register(crtcID, surface)
		logger.Info("output brought up", "connector", c.ID, "crtc", crtcID, "plane", planeID,
			"width", width, "height", height)
		result.Outputs = append(result.Outputs, Output{
			Connector: c, CrtcID: crtcID, PlaneID: planeID, Mode: mode,
			Width: uint32(width), Height: uint32(height), Surface: surface,
		})
	}

	return result, nil
}

const (
	defaultFourcc = 0x34325258 // DRM_FORMAT_XRGB8888
	defaultBpp    = 32
	defaultDepth  = 24
)

// candidateCrtcsFor resolves the CRTCs a connector's encoder can be routed
// to. A connector with no currently bound encoder (EncoderID == 0) is
// treated as compatible with every CRTC on the device, since there is no
// encoder to consult yet.
func candidateCrtcsFor(d *gpudevice.DrmDevice, crtcIDs []uint32, encoderID uint32) ([]uint32, error) {
	if encoderID == 0 {
		return crtcIDs, nil
	}
	mask, err := gpudevice.EncoderPossibleCrtcs(d, encoderID)
	if err != nil {
		return nil, err
	}
	var out []uint32
	for i, id := range crtcIDs {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, id)
		}
	}
	return out, nil
}

// firstSetCrtc returns the first CRTC ID whose index bit is set in mask,
// or 0 if none match.
func firstSetCrtc(mask uint32, crtcIDs []uint32) uint32 {
	for i, id := range crtcIDs {
		if mask&(1<<uint(i)) != 0 {
			return id
		}
	}
	return 0
}
