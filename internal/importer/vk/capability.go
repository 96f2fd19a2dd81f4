package vk

import "github.com/waylex/waylex/internal/importer"

// FormatCapability names one (fourcc, modifier) pair the device accepts for
// DMA-BUF import.
type FormatCapability struct {
	Fourcc   importer.Fourcc
	Modifier importer.Modifier
}

// ModifierQuery returns the DRM modifiers VK_EXT_image_drm_format_modifier
// reports for one fourcc, on the currently selected physical device.
type ModifierQuery func(fourcc importer.Fourcc) []importer.Modifier

// QueryCapabilities returns the cross product of acceptedFourccs with every
// modifier queryModifiers reports for that fourcc, falling back to
// ModifierLinear when the format-properties list is empty for a given
// fourcc — per spec 4.B.3's capability-query paragraph.
func QueryCapabilities(queryModifiers ModifierQuery) []FormatCapability {
	var out []FormatCapability
	for _, fourcc := range acceptedFourccs {
		mods := queryModifiers(fourcc)
		if len(mods) == 0 {
			mods = []importer.Modifier{importer.ModifierLinear}
		}
		for _, m := range mods {
			out = append(out, FormatCapability{Fourcc: fourcc, Modifier: m})
		}
	}
	return out
}
