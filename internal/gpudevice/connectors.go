package gpudevice

import "fmt"

const connectionConnected = 1 // DRM_MODE_CONNECTED

// ConnectorInfo describes one DRM connector: its physical output (a port),
// whether a display is currently attached, and the connector's physical
// size in millimeters as reported by EDID, which the DRM backend carries
// into its Connector snapshot (supplemented feature, see DESIGN.md).
type ConnectorInfo struct {
	ID               uint32
	Type             uint32
	TypeID           uint32
	Connected        bool
	EncoderID        uint32 // currently bound encoder, 0 if none
	PhysicalWidthMM  uint32
	PhysicalHeightMM uint32
}

// Connectors enumerates every connector known to the device.
func Connectors(d *DrmDevice) ([]ConnectorInfo, error) {
	_, connectorIDs, _, err := cardResources(d.File)
	if err != nil {
		return nil, fmt.Errorf("gpudevice: connector resources: %w", err)
	}

	out := make([]ConnectorInfo, 0, len(connectorIDs))
	for _, id := range connectorIDs {
		conn, _, err := getConnector(d.File, id)
		if err != nil {
			return nil, fmt.Errorf("gpudevice: connector %d: %w", id, err)
		}
		out = append(out, ConnectorInfo{
			ID:               conn.ConnectorID,
			Type:             conn.ConnectorType,
			TypeID:           conn.ConnectorTypeID,
			Connected:        conn.Connection == connectionConnected,
			EncoderID:        conn.EncoderID,
			PhysicalWidthMM:  conn.MmWidth,
			PhysicalHeightMM: conn.MmHeight,
		})
	}
	return out, nil
}

// CRTCIDs enumerates every CRTC object ID known to the device.
func CRTCIDs(d *DrmDevice) ([]uint32, error) {
	crtcIDs, _, _, err := cardResources(d.File)
	if err != nil {
		return nil, fmt.Errorf("gpudevice: crtc resources: %w", err)
	}
	return crtcIDs, nil
}

// PlaneIDs enumerates every plane object ID known to the device.
func PlaneIDs(d *DrmDevice) ([]uint32, error) {
	planeIDs, err := planeResources(d.File)
	if err != nil {
		return nil, fmt.Errorf("gpudevice: plane resources: %w", err)
	}
	return planeIDs, nil
}

// EncoderPossibleCrtcs resolves the bitmask of CRTC indices (bit N set
// means CRTCIDs()[N] is usable) an encoder can be routed to.
func EncoderPossibleCrtcs(d *DrmDevice, encoderID uint32) (uint32, error) {
	enc, err := getEncoder(d.File, encoderID)
	if err != nil {
		return 0, fmt.Errorf("gpudevice: encoder %d: %w", encoderID, err)
	}
	return enc.PossibleCrtcs, nil
}

// CommitAtomic issues req as a single atomic KMS commit, optionally
// allowing a full modeset (required the first time a CRTC is activated or
// its mode changes).
func (d *DrmDevice) CommitAtomic(req *AtomicRequest, allowModeset bool) error {
	var flags uint32
	if allowModeset {
		flags = atomicFlagAllowModeset
	}
	return commitAtomic(d.File, req, flags)
}

// AddFB registers a GEM buffer handle as a scanout framebuffer.
func AddFB(d *DrmDevice, width, height, pitch, bpp, depth, handle uint32) (uint32, error) {
	return addFB(d.File, width, height, pitch, bpp, depth, handle)
}

// AddFramebuffer registers planes as a scanout framebuffer, preferring the
// modifier-aware addFB2WithModifiers path and falling back to legacy addFB
// when the buffer has a single plane and no explicit modifier — spec 4.D's
// framebuffer-creation rule.
func AddFramebuffer(d *DrmDevice, width, height, fourcc, bpp, depth uint32, planes []FBPlane, modifier uint64) (uint32, error) {
	if len(planes) == 1 && modifier == ModifierInvalid {
		p := planes[0]
		return addFB(d.File, width, height, p.Pitch, bpp, depth, p.Handle)
	}
	return addFB2WithModifiers(d.File, width, height, fourcc, planes, modifier)
}

// RmFB releases a framebuffer previously registered with AddFB.
func RmFB(d *DrmDevice, fbID uint32) error {
	return rmFB(d.File, fbID)
}

// SetCrtc performs a legacy mode-set. mode is an opaque drm_mode_modeinfo
// blob; callers that only need to disable scanout pass a zeroed mode with
// fbID 0.
func SetCrtc(d *DrmDevice, crtcID, fbID uint32, connectorIDs []uint32, mode [68]byte) error {
	return setCrtc(d.File, crtcID, fbID, connectorIDs, mode)
}

// PageFlip requests an asynchronous scanout swap to fbID on crtcID. The
// caller is responsible for reading the completion event back from the
// device fd via ParsePageFlipEvents.
func PageFlip(d *DrmDevice, crtcID, fbID uint32, userData uint64) error {
	return pageFlip(d.File, crtcID, fbID, userData)
}

// CreateModeBlob uploads an opaque drm_mode_modeinfo blob and returns its
// property-blob ID, for the atomic path's CRTC MODE_ID property.
func CreateModeBlob(d *DrmDevice, mode [68]byte) (uint32, error) {
	return createPropBlob(d.File, mode[:])
}

// DestroyModeBlob releases a blob previously returned by CreateModeBlob.
func DestroyModeBlob(d *DrmDevice, blobID uint32) error {
	return destroyPropBlob(d.File, blobID)
}
