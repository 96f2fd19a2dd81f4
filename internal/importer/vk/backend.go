package vk

import (
	"fmt"

	"github.com/vulkan-go/vulkan"
	"github.com/waylex/waylex/internal/importer"
)

// Backend implements importer.Backend for DMA-BUF and shared-memory buffer
// sources on Vulkan (spec 4.B.3). Unlike the GL backend, a Vulkan backend
// cannot self-register from init(): it needs an already-selected physical
// device and logical device, so it is built with NewBackend and registered
// explicitly by whoever holds those handles. Nothing in this module does
// so.
type Backend struct {
	c calls
}

// NewBackend wraps an already-initialized physical/logical device pair.
func NewBackend(physicalDevice vulkan.PhysicalDevice, device vulkan.Device) *Backend {
	return newWithCalls(newRealCalls(physicalDevice, device))
}

func newWithCalls(c calls) *Backend {
	return &Backend{c: c}
}

func (b *Backend) Name() string { return "vulkan" }

// Capabilities implements spec 4.B.3's capability query: the cross product
// of accepted fourccs with every modifier the device reports.
func (b *Backend) Capabilities() []FormatCapability {
	return QueryCapabilities(b.c.FormatModifiers)
}

func (b *Backend) Import(req importer.Request) (*importer.Texture, error) {
	switch req.Source {
	case importer.SourceDma:
		return b.importDma(req)
	case importer.SourceShm:
		return b.importShm(req)
	default:
		return nil, fmt.Errorf("vk: unsupported buffer source %d", req.Source)
	}
}

// Release frees nothing: the Vulkan backend keeps no per-identity record
// of the images and device memory Import created, so they stay allocated.
func (b *Backend) Release(id importer.Identity) error {
	return nil
}

// importDma implements spec 4.B.3's DMA-BUF image-creation steps 1-6.
func (b *Backend) importDma(req importer.Request) (*importer.Texture, error) {
	dma := req.Dma
	if err := dma.Validate(); err != nil {
		return nil, err
	}

	disjoint := len(dma.Planes) > 1
	image, err := b.c.CreateImage(ImageDesc{
		Width: dma.Width, Height: dma.Height,
		Fourcc: dma.Fourcc, Modifier: dma.Modifier,
		Planes: dma.Planes, Disjoint: disjoint,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", importer.ErrFailedToCreateDmaImage, err)
	}

	for i, p := range dma.Planes {
		imageBits, size := b.c.ImageMemoryRequirements(image, i)
		dmaBits, ok := b.c.DmaBufMemoryTypeBits(p.FD)
		if !ok {
			dmaBits = 0xFFFFFFFF
		}
		typeIndex, err := FindMemoryType(imageBits, dmaBits)
		if err != nil {
			b.c.DestroyImage(image)
			return nil, err
		}

		memory, err := b.c.ImportMemory(p.FD, typeIndex, size)
		if err != nil {
			b.c.DestroyImage(image)
			return nil, err
		}
		if err := b.c.BindImagePlaneMemory(image, memory, i, disjoint); err != nil {
			b.c.FreeMemory(memory)
			b.c.DestroyImage(image)
			return nil, err
		}
	}

	if _, err := b.c.CreateFence(); err != nil {
		b.c.DestroyImage(image)
		return nil, err
	}

	return &importer.Texture{
		Width: dma.Width, Height: dma.Height, Format: dma.Fourcc,
		MipLevels: 1, Handle: TextureHandle(image),
	}, nil
}

// importShm implements spec 4.B.3's shared-memory image path: a plain 2D
// image bound to the lowest-numbered accepted memory type. The pixel data
// goes to calls.WriteTexture, whose production implementation copies
// nothing (see calls_vk.go).
func (b *Backend) importShm(req importer.Request) (*importer.Texture, error) {
	shm := req.Shm
	if !importer.SupportedShmFormat(shm.Format) {
		return nil, fmt.Errorf("vk: shm format %#x: %w", shm.Format, importer.ErrUnsupportedFormat)
	}

	image, err := b.c.CreateShmImage(shm.Width, shm.Height, shm.Format)
	if err != nil {
		return nil, err
	}

	imageBits, size := b.c.ImageMemoryRequirements(image, 0)
	typeIndex, err := FindMemoryType(imageBits, imageBits) // lowest bit the image itself accepts
	if err != nil {
		b.c.DestroyImage(image)
		return nil, err
	}

	memory, err := b.c.ImportMemory(-1, typeIndex, size)
	if err != nil {
		b.c.DestroyImage(image)
		return nil, err
	}
	if err := b.c.BindImagePlaneMemory(image, memory, 0, false); err != nil {
		b.c.FreeMemory(memory)
		b.c.DestroyImage(image)
		return nil, err
	}

	if err := b.c.WriteTexture(image, shm.Data, shm.Width, shm.Height); err != nil {
		b.c.FreeMemory(memory)
		b.c.DestroyImage(image)
		return nil, err
	}

	return &importer.Texture{
		Width: shm.Width, Height: shm.Height, Format: shm.Format,
		MipLevels: 1, Handle: TextureHandle(image),
	}, nil
}
