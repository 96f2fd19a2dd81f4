package gpudevice

import (
	"encoding/binary"
	"fmt"
)

// drmEventHeaderSize is sizeof(struct drm_event): two uint32s.
const drmEventHeaderSize = 8

// drmEventVblankPayloadSize is sizeof(struct drm_event_vblank) minus the
// header: user_data (u64), tv_sec, tv_usec, sequence, crtc_id, pad (5x u32).
const drmEventVblankPayloadSize = 8 + 4*5

// FlipEvent is a decoded DRM_EVENT_FLIP_COMPLETE or DRM_EVENT_VBLANK
// record, the unit the DRM backend drains from the device fd on every
// wakeup to know which CRTCs became free to flip again and to drive
// frame-callback draining (spec 4.D, page-flip / vblank routing).
type FlipEvent struct {
	Vblank      bool // false: flip-complete, true: plain vblank
	UserData    uint64
	SequenceNum uint32
	CrtcID      uint32 // 0 if the kernel predates the crtc_id extension
}

// ParsePageFlipEvents decodes zero or more back-to-back drm_event records
// out of a buffer read from the DRM device fd. It is a pure function,
// decoupled from the actual blocking read, so event framing/bounds
// handling is unit-testable without a real device.
func ParsePageFlipEvents(data []byte) ([]FlipEvent, error) {
	var events []FlipEvent
	for len(data) > 0 {
		if len(data) < drmEventHeaderSize {
			return nil, fmt.Errorf("gpudevice: truncated event header (%d bytes left)", len(data))
		}
		typ := binary.LittleEndian.Uint32(data[0:4])
		length := binary.LittleEndian.Uint32(data[4:8])
		if int(length) > len(data) || length < drmEventHeaderSize {
			return nil, fmt.Errorf("gpudevice: event length %d out of bounds (%d bytes left)", length, len(data))
		}

		switch typ {
		case drmEventVblankType, drmEventFlipCompleteType:
			payload := data[drmEventHeaderSize:length]
			if len(payload) < drmEventVblankPayloadSize {
				return nil, fmt.Errorf("gpudevice: vblank event payload too short (%d bytes)", len(payload))
			}
			events = append(events, FlipEvent{
				Vblank:      typ == drmEventVblankType,
				UserData:    binary.LittleEndian.Uint64(payload[0:8]),
				SequenceNum: binary.LittleEndian.Uint32(payload[16:20]),
				CrtcID:      binary.LittleEndian.Uint32(payload[20:24]),
			})
		}

		data = data[length:]
	}
	return events, nil
}
