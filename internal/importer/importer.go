// Package importer turns a committed Wayland buffer into a GPU texture,
// across shared-memory, DMA-BUF, and EGL client-buffer sources, and caches
// the result so an unchanged buffer is never re-imported.
package importer

import (
	"errors"
	"fmt"
)

var (
	ErrFunctionNotExists      = errors.New("importer: required extension entry point not found")
	ErrUnsupportedFormat      = errors.New("importer: unsupported pixel format")
	ErrFailedToCreateDmaImage = errors.New("importer: failed to create image from dma-buf")
	ErrNoValidMemoryType      = errors.New("importer: no memory type matches the dma-buf's exported bits")
	ErrNoBackend              = errors.New("importer: no backend registered for this buffer kind")
	ErrInvalidPlanes          = errors.New("importer: dma-buf plane count/modifier/fourcc mismatch")
)

// Fourcc is a DRM four-character-code pixel format, shared by the shm and
// dma-buf buffer variants.
type Fourcc uint32

// Wayland shm format codes the common contract must handle (spec 4.B.2).
const (
	FourccArgb8888 Fourcc = 0x34325241
	FourccXrgb8888 Fourcc = 0x34325258
	FourccAbgr8888 Fourcc = 0x34324241
	FourccXbgr8888 Fourcc = 0x34324258
)

// Modifier mirrors gpudevice's 64-bit DRM format modifier so importer
// doesn't need to import the device-registry package for one constant.
type Modifier = uint64

const (
	ModifierInvalid Modifier = 0xFFFFFFFFFFFFFFFF
	ModifierLinear  Modifier = 0
)

// Rect is surface/image-local damage, reusing the shape of internal/geom's
// Rect without importing it (the importer package stays independent of the
// surface model; callers convert at the boundary).
type Rect struct {
	X, Y, W, H int32
}

// ShmBuffer is the shared-memory buffer variant (spec 3, Buffer).
type ShmBuffer struct {
	Data    []byte // the pool's mapped bytes, already offset to this buffer
	Offset  int32
	Stride  int32
	Width   int32
	Height  int32
	Format  Fourcc
}

// DmaPlane is one plane of a DMA-BUF buffer.
type DmaPlane struct {
	FD     int
	Offset uint32
	Stride uint32
}

// DmaBuffer is the DMA-BUF buffer variant: 1-4 planes sharing one fourcc
// and one authoritative modifier (spec 3, Buffer invariants).
type DmaBuffer struct {
	Planes   []DmaPlane // 1..4, plane 0's modifier is authoritative
	Modifier Modifier
	Width    int32
	Height   int32
	Fourcc   Fourcc
}

// Validate checks that the buffer has 1 to 4 planes. The modifier and
// fourcc are not checked.
func (b *DmaBuffer) Validate() error {
	if len(b.Planes) < 1 || len(b.Planes) > 4 {
		return fmt.Errorf("%w: %d planes", ErrInvalidPlanes, len(b.Planes))
	}
	return nil
}

// EglBuffer is the EGL client-buffer variant: an opaque handle the backend
// resolves through a backend-specific query (spec 3, Buffer).
type EglBuffer struct {
	Handle uintptr
}

// Identity is the cache key for the per-backend
// wl_buffer_identity -> (imported_image, wrapped_texture) map (spec 4.B.4).
// Wayland buffer objects don't carry a stable content hash, so callers use
// the client-visible wl_buffer object identity (an opaque integer from the
// dispatcher) as this key.
type Identity uint64

// TextureHandle is the backend-specific opaque handle a GpuTexture wraps,
// generalizing gogpu-gogpu's gpu.TextureHandle pattern across the GL and
// Vulkan backends.
type TextureHandle interface {
	Backend() string
}

// Texture is a renderer-owned image produced by an import (spec 3,
// GpuTexture).
type Texture struct {
	Width, Height int32
	Format        Fourcc
	MipLevels     int32
	Handle        TextureHandle
}

// Source selects which of the three optional buffer fields in Request is
// populated, mirroring the "exactly one of the three buffer optionals is
// Some" contract (spec 4.B.1).
type Source int

const (
	SourceShm Source = iota
	SourceDma
	SourceEgl
)

// Request is the common-contract input every backend accepts (spec 4.B.1).
type Request struct {
	Identity  Identity
	Source    Source
	Shm       *ShmBuffer
	Dma       *DmaBuffer
	Egl       *EglBuffer
	Damage    []Rect // surface-local; empty means "whole image is dirty"
	DestWidth, DestHeight int32
}

// Backend imports a committed buffer into a cached Texture.
type Backend interface {
	// Name identifies the backend for logging and registry selection.
	Name() string

	// Import runs the common contract: exactly one buffer optional in req
	// is populated. Backends do not cache the result; caching under
	// req.Identity is done by this package's Cache.
	Import(req Request) (*Texture, error)

	// Release frees whatever resources import(identity) allocated,
	// including a cached image/texture and any Vulkan memory or fds, per
	// the Caching section's destruction rule (spec 4.B.4).
	Release(id Identity) error
}

// SupportedShmFormat reports whether f is one of the four shm formats
// every backend accepts. Translating the fourcc into a backend's own
// pixel-format token is left to each backend.
func SupportedShmFormat(f Fourcc) bool {
	switch f {
	case FourccArgb8888, FourccXrgb8888, FourccAbgr8888, FourccXbgr8888:
		return true
	default:
		return false
	}
}

// ClampRect clamps a damage rectangle to an image's bounds, per "each
// damage rectangle is clamped to the buffer's image area before upload"
// (spec 4.B.1).
func ClampRect(r Rect, width, height int32) Rect {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > width {
		x1 = width
	}
	if y1 > height {
		y1 = height
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// EffectiveDamage returns req.Damage clamped to the image bounds, or a
// single full-image rectangle when req.Damage is empty (the "first commit
// path", spec 4.B.1).
func EffectiveDamage(damage []Rect, width, height int32) []Rect {
	if len(damage) == 0 {
		return []Rect{{X: 0, Y: 0, W: width, H: height}}
	}
	out := make([]Rect, len(damage))
	for i, r := range damage {
		out[i] = ClampRect(r, width, height)
	}
	return out
}
