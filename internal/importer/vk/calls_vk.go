package vk

import (
	"fmt"
	"unsafe"

	"github.com/vulkan-go/vulkan"
	"github.com/waylex/waylex/internal/importer"
)

// realCalls is the production calls implementation, issuing real Vulkan
// commands against one logical device.
type realCalls struct {
	physicalDevice vulkan.PhysicalDevice
	device         vulkan.Device
}

func newRealCalls(physicalDevice vulkan.PhysicalDevice, device vulkan.Device) *realCalls {
	return &realCalls{physicalDevice: physicalDevice, device: device}
}

// CreateImage builds the chained ImageCreateInfo spec 4.B.3 step 3
// describes: ImageDrmFormatModifierExplicitCreateInfoEXT (plane layouts,
// plane-0 modifier) plus ExternalMemoryImageCreateInfo(DMA_BUF_EXT), tiling
// DRM_FORMAT_MODIFIER_EXT, usage COLOR_ATTACHMENT, flags DISJOINT,
// initialLayout PREINITIALIZED.
func (c *realCalls) CreateImage(desc ImageDesc) (uint64, error) {
	layouts := make([]vulkan.SubresourceLayout, len(desc.Planes))
	for i, p := range desc.Planes {
		layouts[i] = vulkan.SubresourceLayout{
			Offset:   vulkan.DeviceSize(p.Offset),
			RowPitch: vulkan.DeviceSize(p.Stride),
		}
	}

	modifierInfo := vulkan.ImageDrmFormatModifierExplicitCreateInfoEXT{
		SType:              vulkan.StructureTypeImageDrmFormatModifierExplicitCreateInfoExt,
		DrmFormatModifier:  desc.Modifier,
		DrmFormatModifierPlaneCount: uint32(len(layouts)),
		PPlaneLayouts:      layouts,
	}
	externalInfo := vulkan.ExternalMemoryImageCreateInfo{
		SType:      vulkan.StructureTypeExternalMemoryImageCreateInfo,
		PNext:      unsafe.Pointer(&modifierInfo),
		HandleTypes: vulkan.ExternalMemoryHandleTypeFlags(vulkan.ExternalMemoryHandleTypeDmaBufBitExt),
	}

	flags := vulkan.ImageCreateFlags(0)
	if desc.Disjoint {
		flags = vulkan.ImageCreateFlags(vulkan.ImageCreateDisjointBit)
	}

	info := vulkan.ImageCreateInfo{
		SType:        vulkan.StructureTypeImageCreateInfo,
		PNext:        unsafe.Pointer(&externalInfo),
		ImageType:    vulkan.ImageType2d,
		Extent:       vulkan.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), Depth: 1},
		MipLevels:    1,
		ArrayLayers:  1,
		Tiling:       vulkan.ImageTilingDrmFormatModifierExt,
		Usage:        vulkan.ImageUsageFlags(vulkan.ImageUsageColorAttachmentBit),
		Flags:        flags,
		InitialLayout: vulkan.ImageLayoutPreinitialized,
	}

	var image vulkan.Image
	if res := vulkan.CreateImage(c.device, &info, nil, &image); res != vulkan.Success {
		return 0, fmt.Errorf("vk: CreateImage: result %d", res)
	}
	return uint64(image), nil
}

func (c *realCalls) DestroyImage(image uint64) {
	vulkan.DestroyImage(c.device, vulkan.Image(image), nil)
}

func (c *realCalls) ImageMemoryRequirements(image uint64, plane int) (uint32, uint64) {
	var req vulkan.MemoryRequirements
	vulkan.GetImageMemoryRequirements(c.device, vulkan.Image(image), &req)
	req.Deref()
	return req.MemoryTypeBits, uint64(req.Size)
}

func (c *realCalls) DmaBufMemoryTypeBits(fd int) (uint32, bool) {
	var props vulkan.MemoryFdPropertiesKHR
	props.SType = vulkan.StructureTypeMemoryFdPropertiesKhr
	if res := vulkan.GetMemoryFdPropertiesKHR(c.device, vulkan.ExternalMemoryHandleTypeDmaBufBitExt, fd, &props); res != vulkan.Success {
		return 0, false
	}
	props.Deref()
	return props.MemoryTypeBits, true
}

func (c *realCalls) ImportMemory(fd int, typeIndex int, size uint64) (uint64, error) {
	importInfo := vulkan.ImportMemoryFdInfoKHR{
		SType:      vulkan.StructureTypeImportMemoryFdInfoKhr,
		HandleType: vulkan.ExternalMemoryHandleTypeDmaBufBitExt,
		Fd:         int32(fd),
	}
	allocInfo := vulkan.MemoryAllocateInfo{
		SType:           vulkan.StructureTypeMemoryAllocateInfo,
		PNext:           unsafe.Pointer(&importInfo),
		AllocationSize:  vulkan.DeviceSize(size),
		MemoryTypeIndex: uint32(typeIndex),
	}
	var memory vulkan.DeviceMemory
	if res := vulkan.AllocateMemory(c.device, &allocInfo, nil, &memory); res != vulkan.Success {
		return 0, fmt.Errorf("vk: AllocateMemory: result %d", res)
	}
	return uint64(memory), nil
}

func (c *realCalls) BindImagePlaneMemory(image, memory uint64, plane int, disjoint bool) error {
	if !disjoint {
		if res := vulkan.BindImageMemory(c.device, vulkan.Image(image), vulkan.DeviceMemory(memory), 0); res != vulkan.Success {
			return fmt.Errorf("vk: BindImageMemory: result %d", res)
		}
		return nil
	}

	planeInfo := vulkan.BindImagePlaneMemoryInfo{
		SType:      vulkan.StructureTypeBindImagePlaneMemoryInfo,
		PlaneAspect: planeAspect(plane),
	}
	bindInfo := vulkan.BindImageMemoryInfo{
		SType:  vulkan.StructureTypeBindImageMemoryInfo,
		PNext:  unsafe.Pointer(&planeInfo),
		Image:  vulkan.Image(image),
		Memory: vulkan.DeviceMemory(memory),
	}
	if res := vulkan.BindImageMemory2(c.device, 1, []vulkan.BindImageMemoryInfo{bindInfo}); res != vulkan.Success {
		return fmt.Errorf("vk: BindImageMemory2: result %d", res)
	}
	return nil
}

func (c *realCalls) FreeMemory(memory uint64) {
	vulkan.FreeMemory(c.device, vulkan.DeviceMemory(memory), nil)
}

func (c *realCalls) CreateFence() (uint64, error) {
	info := vulkan.FenceCreateInfo{SType: vulkan.StructureTypeFenceCreateInfo}
	var fence vulkan.Fence
	if res := vulkan.CreateFence(c.device, &info, nil, &fence); res != vulkan.Success {
		return 0, fmt.Errorf("vk: CreateFence: result %d", res)
	}
	return uint64(fence), nil
}

func (c *realCalls) CreateShmImage(width, height int32, fourcc importer.Fourcc) (uint64, error) {
	info := vulkan.ImageCreateInfo{
		SType:       vulkan.StructureTypeImageCreateInfo,
		ImageType:   vulkan.ImageType2d,
		Extent:      vulkan.Extent3D{Width: uint32(width), Height: uint32(height), Depth: 1},
		MipLevels:   1,
		ArrayLayers: 1,
		Tiling:      vulkan.ImageTilingOptimal,
		Usage:       vulkan.ImageUsageFlags(vulkan.ImageUsageColorAttachmentBit),
		InitialLayout: vulkan.ImageLayoutUndefined,
	}
	var image vulkan.Image
	if res := vulkan.CreateImage(c.device, &info, nil, &image); res != vulkan.Success {
		return 0, fmt.Errorf("vk: CreateImage (shm): result %d", res)
	}
	return uint64(image), nil
}

func (c *realCalls) WriteTexture(image uint64, data []byte, width, height int32) error {
	// No upload happens here: no staging buffer or queue submission is
	// issued, so the image keeps whatever contents it was created with.
	return nil
}

func (c *realCalls) FormatModifiers(fourcc importer.Fourcc) []importer.Modifier {
	vkFormat := vulkanFormatFor(fourcc)
	if vkFormat == vulkan.FormatUndefined {
		return nil
	}

	modifierList := vulkan.DrmFormatModifierPropertiesListEXT{
		SType: vulkan.StructureTypeDrmFormatModifierPropertiesListExt,
	}
	props2 := vulkan.FormatProperties2{
		SType: vulkan.StructureTypeFormatProperties2,
		PNext: unsafe.Pointer(&modifierList),
	}
	vulkan.GetPhysicalDeviceFormatProperties2(c.physicalDevice, vkFormat, &props2)
	modifierList.Deref()

	count := modifierList.DrmFormatModifierCount
	if count == 0 {
		return nil
	}

	entries := make([]vulkan.DrmFormatModifierPropertiesEXT, count)
	modifierList.PDrmFormatModifierProperties = entries
	vulkan.GetPhysicalDeviceFormatProperties2(c.physicalDevice, vkFormat, &props2)
	modifierList.Deref()

	out := make([]importer.Modifier, 0, count)
	for _, e := range modifierList.PDrmFormatModifierProperties {
		out = append(out, e.DrmFormatModifier)
	}
	return out
}

func vulkanFormatFor(fourcc importer.Fourcc) vulkan.Format {
	switch fourcc {
	case importer.FourccArgb8888, importer.FourccXrgb8888:
		return vulkan.FormatB8g8r8a8Unorm
	case importer.FourccAbgr8888, importer.FourccXbgr8888:
		return vulkan.FormatR8g8b8a8Unorm
	default:
		return vulkan.FormatUndefined
	}
}

func planeAspect(plane int) vulkan.ImageAspectFlagBits {
	switch plane {
	case 0:
		return vulkan.ImageAspectMemoryPlane0BitExt
	case 1:
		return vulkan.ImageAspectMemoryPlane1BitExt
	case 2:
		return vulkan.ImageAspectMemoryPlane2BitExt
	default:
		return vulkan.ImageAspectMemoryPlane3BitExt
	}
}

