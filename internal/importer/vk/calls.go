package vk

import "github.com/waylex/waylex/internal/importer"

// ImageDesc is what CreateImage needs to build the chained
// ImageDrmFormatModifierExplicitCreateInfoEXT / ExternalMemoryImageCreateInfo
// / ImageCreateInfo structure spec 4.B.3 step 3 describes.
type ImageDesc struct {
	Width, Height int32
	Fourcc        importer.Fourcc
	Modifier      importer.Modifier
	Planes        []importer.DmaPlane
	Disjoint      bool
}

// calls is the Vulkan call surface the backend needs, abstracted so
// Import's branching logic is testable without a real Vulkan device —
// realCalls (calls_vk.go) is the only production implementation, built on
// github.com/vulkan-go/vulkan.
type calls interface {
	CreateImage(desc ImageDesc) (image uint64, err error)
	DestroyImage(image uint64)

	// ImageMemoryRequirements returns the acceptable memory-type bitmask
	// for one plane (plane index is only meaningful when len(planes) > 1).
	ImageMemoryRequirements(image uint64, plane int) (typeBits uint32, size uint64)

	// DmaBufMemoryTypeBits queries vkGetMemoryFdPropertiesKHR for an
	// imported fd; ok is false when the entry point is missing.
	DmaBufMemoryTypeBits(fd int) (bits uint32, ok bool)

	ImportMemory(fd int, typeIndex int, size uint64) (memory uint64, err error)
	BindImagePlaneMemory(image, memory uint64, plane int, disjoint bool) error
	FreeMemory(memory uint64)

	CreateFence() (fence uint64, err error)

	CreateShmImage(width, height int32, fourcc importer.Fourcc) (image uint64, err error)
	WriteTexture(image uint64, data []byte, width, height int32) error

	// FormatModifiers lists the DRM modifiers
	// VK_EXT_image_drm_format_modifier reports for one fourcc on the
	// selected physical device.
	FormatModifiers(fourcc importer.Fourcc) []importer.Modifier
}
