package gpudevice

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// ConnectorModes returns every display mode a connector's EDID advertises,
// as opaque 68-byte drm_mode_modeinfo blobs (the same representation
// SetCrtc/CreateModeBlob accept), in the order the kernel reports them —
// by convention the first entry is the driver's preferred mode.
func ConnectorModes(d *DrmDevice, connectorID uint32) ([][68]byte, error) {
	info, _, err := getConnector(d.File, connectorID)
	if err != nil {
		return nil, fmt.Errorf("gpudevice: connector %d modes: %w", connectorID, err)
	}
	if info.CountModes == 0 {
		return nil, nil
	}

	raw := make([][68]byte, info.CountModes)
	conn := drmModeGetConnector{
		ConnectorID: connectorID,
		CountModes:  info.CountModes,
		ModesPtr:    uint64(uintptr(unsafe.Pointer(&raw[0]))),
		// CountEncoders/CountProps left at zero so the kernel doesn't try
		// to copy encoder/property arrays into a null pointer.
	}
	if err := ioctl(d.File, ioctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return nil, fmt.Errorf("gpudevice: connector %d mode list: %w", connectorID, err)
	}
	return raw, nil
}

// ModeResolution decodes the hdisplay/vdisplay fields out of an opaque
// drm_mode_modeinfo blob.
func ModeResolution(mode [68]byte) (width, height uint16) {
	width = binary.LittleEndian.Uint16(mode[4:6])
	height = binary.LittleEndian.Uint16(mode[14:16])
	return width, height
}
