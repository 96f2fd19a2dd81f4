// Package vk implements the buffer importer's Vulkan backend: DMA-BUF
// import via VK_EXT_image_drm_format_modifier and VK_KHR_external_memory_fd,
// and a plain shared-memory image path, following the
// vk.XxxCreateInfo{SType: ..., PNext: ...} chaining idiom used throughout
// the pack's Vulkan-adjacent example code.
package vk

import "github.com/waylex/waylex/internal/importer"

// TextureHandle wraps a Vulkan image handle to satisfy
// importer.TextureHandle.
type TextureHandle uint64

func (TextureHandle) Backend() string { return "vulkan" }

// acceptedFourccs are the formats the capability query reports (spec
// 4.B.3). importDma does not check a buffer's fourcc against this list.
var acceptedFourccs = []importer.Fourcc{
	importer.FourccArgb8888,
	importer.FourccXrgb8888,
	importer.FourccAbgr8888,
	importer.FourccXbgr8888,
}
