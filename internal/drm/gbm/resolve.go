package gbm

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// resolvedFuncs is the production Funcs implementation, resolving every
// libgbm entry point once at construction, mirroring
// internal/importer/gl's resolvedFuncs.
type resolvedFuncs struct {
	mu  sync.Mutex
	lib unsafe.Pointer

	gbmCreateDevice       unsafe.Pointer
	gbmDeviceDestroy      unsafe.Pointer
	gbmSurfaceCreate      unsafe.Pointer
	gbmSurfaceDestroy     unsafe.Pointer
	gbmSurfaceLockFront   unsafe.Pointer
	gbmSurfaceReleaseBuf  unsafe.Pointer
	gbmBoGetHandle        unsafe.Pointer
	gbmBoGetStride        unsafe.Pointer
	gbmBoGetWidth         unsafe.Pointer
	gbmBoGetHeight        unsafe.Pointer

	cifPtr *types.CallInterface
}

// New loads libgbm.so.1 and resolves the symbols Funcs needs.
func New() (Funcs, error) {
	lib, err := ffi.LoadLibrary("libgbm.so.1")
	if err != nil {
		return nil, fmt.Errorf("gbm: load libgbm: %w", err)
	}

	r := &resolvedFuncs{lib: lib}
	symbols := []struct {
		name string
		dst  *unsafe.Pointer
	}{
		{"gbm_create_device", &r.gbmCreateDevice},
		{"gbm_device_destroy", &r.gbmDeviceDestroy},
		{"gbm_surface_create", &r.gbmSurfaceCreate},
		{"gbm_surface_destroy", &r.gbmSurfaceDestroy},
		{"gbm_surface_lock_front_buffer", &r.gbmSurfaceLockFront},
		{"gbm_surface_release_buffer", &r.gbmSurfaceReleaseBuf},
		{"gbm_bo_get_handle", &r.gbmBoGetHandle},
		{"gbm_bo_get_stride", &r.gbmBoGetStride},
		{"gbm_bo_get_width", &r.gbmBoGetWidth},
		{"gbm_bo_get_height", &r.gbmBoGetHeight},
	}
	for _, s := range symbols {
		sym, err := ffi.GetSymbol(lib, s.name)
		if err != nil {
			return nil, fmt.Errorf("gbm: resolve %s: %w", s.name, err)
		}
		*s.dst = sym
	}

	r.cifPtr = &types.CallInterface{}
	if err := ffi.PrepareCallInterface(
		r.cifPtr,
		types.DefaultCall,
		types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.PointerTypeDescriptor},
	); err != nil {
		return nil, fmt.Errorf("gbm: prepare call interface: %w", err)
	}
	return r, nil
}

func (r *resolvedFuncs) call(fn unsafe.Pointer, rvalue unsafe.Pointer, args []unsafe.Pointer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ffi.CallFunction(r.cifPtr, fn, rvalue, args)
}

func (r *resolvedFuncs) CreateDevice(fd int) (Device, error) {
	var result uintptr
	arg := uintptr(fd)
	if err := r.call(r.gbmCreateDevice, unsafe.Pointer(&result), []unsafe.Pointer{unsafe.Pointer(&arg)}); err != nil {
		return 0, err
	}
	if result == 0 {
		return 0, fmt.Errorf("gbm: gbm_create_device returned NULL")
	}
	return Device(result), nil
}

func (r *resolvedFuncs) DestroyDevice(dev Device) {
	arg := uintptr(dev)
	_ = r.call(r.gbmDeviceDestroy, nil, []unsafe.Pointer{unsafe.Pointer(&arg)})
}

func (r *resolvedFuncs) CreateSurface(dev Device, width, height int32, fourcc uint32, flags uint32) (Surface, error) {
	var result uintptr
	devArg, wArg, hArg, fourccArg, flagsArg := uintptr(dev), uintptr(width), uintptr(height), uintptr(fourcc), uintptr(flags)
	args := []unsafe.Pointer{
		unsafe.Pointer(&devArg), unsafe.Pointer(&wArg), unsafe.Pointer(&hArg),
		unsafe.Pointer(&fourccArg), unsafe.Pointer(&flagsArg),
	}
	if err := r.call(r.gbmSurfaceCreate, unsafe.Pointer(&result), args); err != nil {
		return 0, err
	}
	if result == 0 {
		return 0, ErrFailedToCreateSurface
	}
	return Surface(result), nil
}

func (r *resolvedFuncs) DestroySurface(surf Surface) {
	arg := uintptr(surf)
	_ = r.call(r.gbmSurfaceDestroy, nil, []unsafe.Pointer{unsafe.Pointer(&arg)})
}

func (r *resolvedFuncs) LockFrontBuffer(surf Surface) (BufferObject, error) {
	var result uintptr
	arg := uintptr(surf)
	if err := r.call(r.gbmSurfaceLockFront, unsafe.Pointer(&result), []unsafe.Pointer{unsafe.Pointer(&arg)}); err != nil {
		return 0, err
	}
	if result == 0 {
		return 0, ErrNoFrontBuffer
	}
	return BufferObject(result), nil
}

func (r *resolvedFuncs) ReleaseBuffer(surf Surface, bo BufferObject) {
	surfArg, boArg := uintptr(surf), uintptr(bo)
	_ = r.call(r.gbmSurfaceReleaseBuf, nil, []unsafe.Pointer{unsafe.Pointer(&surfArg), unsafe.Pointer(&boArg)})
}

func (r *resolvedFuncs) BOGetHandle(bo BufferObject) uint32 {
	var result uint32
	arg := uintptr(bo)
	_ = r.call(r.gbmBoGetHandle, unsafe.Pointer(&result), []unsafe.Pointer{unsafe.Pointer(&arg)})
	return result
}

func (r *resolvedFuncs) BOGetStride(bo BufferObject) uint32 {
	var result uint32
	arg := uintptr(bo)
	_ = r.call(r.gbmBoGetStride, unsafe.Pointer(&result), []unsafe.Pointer{unsafe.Pointer(&arg)})
	return result
}

func (r *resolvedFuncs) BOGetWidth(bo BufferObject) uint32 {
	var result uint32
	arg := uintptr(bo)
	_ = r.call(r.gbmBoGetWidth, unsafe.Pointer(&result), []unsafe.Pointer{unsafe.Pointer(&arg)})
	return result
}

func (r *resolvedFuncs) BOGetHeight(bo BufferObject) uint32 {
	var result uint32
	arg := uintptr(bo)
	_ = r.call(r.gbmBoGetHeight, unsafe.Pointer(&result), []unsafe.Pointer{unsafe.Pointer(&arg)})
	return result
}
