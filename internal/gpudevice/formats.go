package gpudevice

import (
	"encoding/binary"
	"fmt"
)

// ModifierInvalid is the DRM_FORMAT_MOD_INVALID sentinel: "no specific
// layout, or the modifier is simply unknown".
const ModifierInvalid = uint64(0xFFFFFFFFFFFFFFFF)

// ModifierLinear is DRM_FORMAT_MOD_LINEAR: a plain row-major layout.
const ModifierLinear = uint64(0)

// DrmFormat pairs a fourcc pixel format with the set of DRM modifiers a
// plane supports for it.
type DrmFormat struct {
	Fourcc    uint32
	Modifiers []uint64
}

// formatsBlobHeader mirrors struct drm_format_modifier_blob: a packed
// header naming the byte offsets of two trailing arrays within the same
// property-blob buffer (design notes §9).
type formatsBlobHeader struct {
	Version         uint32
	Flags           uint32
	CountFormats    uint32
	FormatsOffset   uint32
	CountModifiers  uint32
	ModifiersOffset uint32
}

const formatsBlobHeaderSize = 24

// formatModifierEntry mirrors struct drm_format_modifier: a bitmask
// selecting which of the blob's formats this modifier applies to, a byte
// offset used to partition modifiers when there are more formats than fit
// in one 64-bit mask, and the modifier itself.
type formatModifierEntry struct {
	FormatsMask uint64
	Offset      uint32
	_           uint32 // padding to align Modifier on an 8-byte boundary
	Modifier    uint64
}

const formatModifierEntrySize = 24

// ParseFormatsBlob parses an IN_FORMATS property blob into a flat format
// table. When the blob does not carry modifier entries (pre-modifier
// kernels, or the extension is simply absent upstream), every format is
// reported with only ModifierInvalid, matching the plain-fourcc fallback
// in spec 4.A.
func ParseFormatsBlob(data []byte) ([]DrmFormat, error) {
	if len(data) < formatsBlobHeaderSize {
		return nil, fmt.Errorf("gpudevice: formats blob shorter than header (%d bytes)", len(data))
	}

	h := formatsBlobHeader{
		Version:         binary.LittleEndian.Uint32(data[0:4]),
		Flags:           binary.LittleEndian.Uint32(data[4:8]),
		CountFormats:    binary.LittleEndian.Uint32(data[8:12]),
		FormatsOffset:   binary.LittleEndian.Uint32(data[12:16]),
		CountModifiers:  binary.LittleEndian.Uint32(data[16:20]),
		ModifiersOffset: binary.LittleEndian.Uint32(data[20:24]),
	}

	formatsEnd := int(h.FormatsOffset) + int(h.CountFormats)*4
	if formatsEnd > len(data) {
		return nil, fmt.Errorf("gpudevice: formats array overruns blob")
	}
	fourccs := make([]uint32, h.CountFormats)
	for i := range fourccs {
		off := int(h.FormatsOffset) + i*4
		fourccs[i] = binary.LittleEndian.Uint32(data[off : off+4])
	}

	formats := make([]DrmFormat, len(fourccs))
	for i, fourcc := range fourccs {
		formats[i] = DrmFormat{Fourcc: fourcc}
	}

	if h.CountModifiers == 0 {
		for i := range formats {
			formats[i].Modifiers = []uint64{ModifierInvalid}
		}
		return formats, nil
	}

	modifiersEnd := int(h.ModifiersOffset) + int(h.CountModifiers)*formatModifierEntrySize
	if modifiersEnd > len(data) {
		return nil, fmt.Errorf("gpudevice: modifiers array overruns blob")
	}

	for i := uint32(0); i < h.CountModifiers; i++ {
		off := int(h.ModifiersOffset) + int(i)*formatModifierEntrySize
		entry := formatModifierEntry{
			FormatsMask: binary.LittleEndian.Uint64(data[off : off+8]),
			Offset:      binary.LittleEndian.Uint32(data[off+8 : off+12]),
			Modifier:    binary.LittleEndian.Uint64(data[off+16 : off+24]),
		}
		for bit := 0; bit < 64; bit++ {
			if entry.FormatsMask&(1<<uint(bit)) == 0 {
				continue
			}
			idx := int(entry.Offset) + bit
			if idx < 0 || idx >= len(formats) {
				continue
			}
			formats[idx].Modifiers = append(formats[idx].Modifiers, entry.Modifier)
		}
	}

	for i := range formats {
		if len(formats[i].Modifiers) == 0 {
			formats[i].Modifiers = []uint64{ModifierInvalid}
		}
	}
	return formats, nil
}
