// Package gbm resolves the subset of libgbm's entry points the DRM
// display backend needs to allocate scanout buffer objects, dynamically
// via goffi rather than cgo — the same symbol-resolution idiom
// internal/importer/gl uses for EGL/GLES.
package gbm

import "errors"

// ErrFailedToCreateSurface is returned when gbm_surface_create fails
// (unsupported format/modifier combination, or no GBM device).
var ErrFailedToCreateSurface = errors.New("gbm: failed to create surface")

// ErrNoFrontBuffer is returned when gbm_surface_lock_front_buffer fails,
// typically because no buffer has been rendered into yet.
var ErrNoFrontBuffer = errors.New("gbm: no front buffer available")

// BufferObject is an opaque handle to one GBM buffer object (a struct
// gbm_bo*, carried as a uintptr since cgo is not used).
type BufferObject uintptr

// Device is an opaque handle to a struct gbm_device*.
type Device uintptr

// Surface is an opaque handle to a struct gbm_surface*.
type Surface uintptr

// Funcs is the libgbm call surface the buffer ring needs. A production
// implementation resolves each symbol once via goffi; tests substitute a
// fake so the ring's front/back/pending-flip bookkeeping is verifiable
// without a real GBM device.
type Funcs interface {
	CreateDevice(fd int) (Device, error)
	DestroyDevice(dev Device)
	CreateSurface(dev Device, width, height int32, fourcc uint32, flags uint32) (Surface, error)
	DestroySurface(surf Surface)
	LockFrontBuffer(surf Surface) (BufferObject, error)
	ReleaseBuffer(surf Surface, bo BufferObject)
	BOGetHandle(bo BufferObject) uint32
	BOGetStride(bo BufferObject) uint32
	BOGetWidth(bo BufferObject) uint32
	BOGetHeight(bo BufferObject) uint32
}
