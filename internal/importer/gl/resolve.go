package gl

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
	"github.com/waylex/waylex/internal/importer"
)

// resolvedFuncs is the production funcs implementation: every entry point
// named in requiredExtensions resolved once via goffi, exactly the way
// darwin/objc.go resolves libobjc symbols without cgo.
type resolvedFuncs struct {
	mu  sync.Mutex
	lib unsafe.Pointer

	eglCreateImageKHR            unsafe.Pointer
	glEGLImageTargetTexture2DOES unsafe.Pointer
	eglBindWaylandDisplayWL      unsafe.Pointer
	eglUnbindWaylandDisplayWL    unsafe.Pointer

	glGenTextures      unsafe.Pointer
	glBindTexture      unsafe.Pointer
	glTexParameteri    unsafe.Pointer
	glPixelStorei      unsafe.Pointer
	glTexSubImage2D    unsafe.Pointer
	glGenerateMipmap   unsafe.Pointer
	glDeleteTextures   unsafe.Pointer
	glCopyImageSubData unsafe.Pointer
	eglQuerySurface    unsafe.Pointer
	eglDestroyImageKHR unsafe.Pointer

	cifPtr *types.CallInterface
}

// newResolvedFuncs loads libEGL.so and libGLESv2.so and resolves every
// required extension proc, per spec 4.B.2.
func newResolvedFuncs() (*resolvedFuncs, error) {
	eglLib, err := ffi.LoadLibrary("libEGL.so.1")
	if err != nil {
		return nil, fmt.Errorf("gl: load libEGL: %w", err)
	}
	glesLib, err := ffi.LoadLibrary("libGLESv2.so.2")
	if err != nil {
		return nil, fmt.Errorf("gl: load libGLESv2: %w", err)
	}

	r := &resolvedFuncs{lib: eglLib}

	resolve := func(lib unsafe.Pointer, name string) (unsafe.Pointer, error) {
		sym, err := ffi.GetSymbol(lib, name)
		if err != nil {
			return nil, &FunctionNotExistsError{Name: name}
		}
		return sym, nil
	}

	var rerr error
	if r.eglCreateImageKHR, rerr = resolve(eglLib, "eglCreateImageKHR"); rerr != nil {
		return nil, rerr
	}
	if r.glEGLImageTargetTexture2DOES, rerr = resolve(glesLib, "glEGLImageTargetTexture2DOES"); rerr != nil {
		return nil, rerr
	}
	if r.eglBindWaylandDisplayWL, rerr = resolve(eglLib, "eglBindWaylandDisplayWL"); rerr != nil {
		return nil, rerr
	}
	if r.eglUnbindWaylandDisplayWL, rerr = resolve(eglLib, "eglUnbindWaylandDisplayWL"); rerr != nil {
		return nil, rerr
	}
	if r.glGenTextures, rerr = resolve(glesLib, "glGenTextures"); rerr != nil {
		return nil, rerr
	}
	if r.glBindTexture, rerr = resolve(glesLib, "glBindTexture"); rerr != nil {
		return nil, rerr
	}
	if r.glTexParameteri, rerr = resolve(glesLib, "glTexParameteri"); rerr != nil {
		return nil, rerr
	}
	if r.glPixelStorei, rerr = resolve(glesLib, "glPixelStorei"); rerr != nil {
		return nil, rerr
	}
	if r.glTexSubImage2D, rerr = resolve(glesLib, "glTexSubImage2D"); rerr != nil {
		return nil, rerr
	}
	if r.glGenerateMipmap, rerr = resolve(glesLib, "glGenerateMipmap"); rerr != nil {
		return nil, rerr
	}
	if r.glDeleteTextures, rerr = resolve(glesLib, "glDeleteTextures"); rerr != nil {
		return nil, rerr
	}
	if r.glCopyImageSubData, rerr = resolve(glesLib, "glCopyImageSubData"); rerr != nil {
		return nil, rerr
	}
	if r.eglQuerySurface, rerr = resolve(eglLib, "eglQuerySurface"); rerr != nil {
		return nil, rerr
	}
	if r.eglDestroyImageKHR, rerr = resolve(eglLib, "eglDestroyImageKHR"); rerr != nil {
		return nil, rerr
	}

	r.cifPtr = &types.CallInterface{}
	if err := ffi.PrepareCallInterface(
		r.cifPtr,
		types.DefaultCall,
		types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.PointerTypeDescriptor},
	); err != nil {
		return nil, fmt.Errorf("gl: prepare call interface: %w", err)
	}

	return r, nil
}

func (r *resolvedFuncs) callLocked(fn unsafe.Pointer, rvalue unsafe.Pointer, args []unsafe.Pointer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ffi.CallFunction(r.cifPtr, fn, rvalue, args)
}

// CreateTexture calls glGenTextures(1, &tex) and returns the generated name.
func (r *resolvedFuncs) CreateTexture() TextureHandle {
	var tex uint32
	n := uintptr(1)
	texPtr := unsafe.Pointer(&tex)
	_ = r.callLocked(r.glGenTextures, nil, []unsafe.Pointer{unsafe.Pointer(&n), unsafe.Pointer(&texPtr)})
	return TextureHandle(tex)
}

func (r *resolvedFuncs) DeleteTexture(tex TextureHandle) {
	n := uintptr(1)
	texVal := uint32(tex)
	texPtr := unsafe.Pointer(&texVal)
	_ = r.callLocked(r.glDeleteTextures, nil, []unsafe.Pointer{unsafe.Pointer(&n), unsafe.Pointer(&texPtr)})
}

func (r *resolvedFuncs) BindTexture2D(tex TextureHandle) {
	target, name := uintptr(glTexture2D), uintptr(tex)
	_ = r.callLocked(r.glBindTexture, nil, []unsafe.Pointer{unsafe.Pointer(&target), unsafe.Pointer(&name)})
}

func (r *resolvedFuncs) UnbindTexture2D() {
	target, name := uintptr(glTexture2D), uintptr(0)
	_ = r.callLocked(r.glBindTexture, nil, []unsafe.Pointer{unsafe.Pointer(&target), unsafe.Pointer(&name)})
}

func (r *resolvedFuncs) TexParameteri(pname, param int32) {
	pnameArg, paramArg := uintptr(pname), uintptr(param)
	args := []unsafe.Pointer{unsafe.Pointer(&pnameArg), unsafe.Pointer(&paramArg)}
	_ = r.callLocked(r.glTexParameteri, nil, args)
}

func (r *resolvedFuncs) PixelStorei(pname, param int32) {
	pnameArg, paramArg := uintptr(pname), uintptr(param)
	args := []unsafe.Pointer{unsafe.Pointer(&pnameArg), unsafe.Pointer(&paramArg)}
	_ = r.callLocked(r.glPixelStorei, nil, args)
}

func (r *resolvedFuncs) TexSubImage2D(xoff, yoff, width, height int32, glFormat uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	target, level := uintptr(glTexture2D), uintptr(0)
	xoffArg, yoffArg, widthArg, heightArg := uintptr(xoff), uintptr(yoff), uintptr(width), uintptr(height)
	formatArg, typeArg := uintptr(glFormat), uintptr(glUnsignedByte)
	pixelsPtr := unsafe.Pointer(&data[0])
	args := []unsafe.Pointer{
		unsafe.Pointer(&target), unsafe.Pointer(&level),
		unsafe.Pointer(&xoffArg), unsafe.Pointer(&yoffArg),
		unsafe.Pointer(&widthArg), unsafe.Pointer(&heightArg),
		unsafe.Pointer(&formatArg), unsafe.Pointer(&typeArg),
		unsafe.Pointer(&pixelsPtr),
	}
	_ = r.callLocked(r.glTexSubImage2D, nil, args)
}

func (r *resolvedFuncs) GenerateMipmap() {
	target := uintptr(glTexture2D)
	_ = r.callLocked(r.glGenerateMipmap, nil, []unsafe.Pointer{unsafe.Pointer(&target)})
}

func (r *resolvedFuncs) CreateImageKHR(attribs []int32) (EGLImage, error) {
	var result uintptr
	argPtr := unsafe.Pointer(&attribs)
	if err := r.callLocked(r.eglCreateImageKHR, unsafe.Pointer(&result), []unsafe.Pointer{argPtr}); err != nil {
		return 0, err
	}
	if result == 0 {
		return 0, importer.ErrFailedToCreateDmaImage
	}
	return EGLImage(result), nil
}

func (r *resolvedFuncs) DestroyImageKHR(img EGLImage) error {
	imgArg := uintptr(img)
	var ok uintptr
	args := []unsafe.Pointer{unsafe.Pointer(&imgArg)}
	if err := r.callLocked(r.eglDestroyImageKHR, unsafe.Pointer(&ok), args); err != nil {
		return err
	}
	if ok == 0 {
		return fmt.Errorf("gl: eglDestroyImageKHR(%#x) returned EGL_FALSE", img)
	}
	return nil
}

func (r *resolvedFuncs) EGLImageTargetTexture2DOES(img EGLImage) {
	arg := uintptr(img)
	_ = r.callLocked(r.glEGLImageTargetTexture2DOES, nil, []unsafe.Pointer{unsafe.Pointer(&arg)})
}

// CopyImageSubData copies the full extent of src into dst via
// glCopyImageSubData, both bound as GL_TEXTURE_2D at mip level 0, origin
// (0,0,0), depth 1 — the whole-image copy the DMA-BUF import path needs.
func (r *resolvedFuncs) CopyImageSubData(src, dst TextureHandle, width, height int32) {
	srcName, srcTarget, srcLevel := uintptr(src), uintptr(glTexture2D), uintptr(0)
	srcX, srcY, srcZ := uintptr(0), uintptr(0), uintptr(0)
	dstName, dstTarget, dstLevel := uintptr(dst), uintptr(glTexture2D), uintptr(0)
	dstX, dstY, dstZ := uintptr(0), uintptr(0), uintptr(0)
	w, h, depth := uintptr(width), uintptr(height), uintptr(1)
	args := []unsafe.Pointer{
		unsafe.Pointer(&srcName), unsafe.Pointer(&srcTarget), unsafe.Pointer(&srcLevel),
		unsafe.Pointer(&srcX), unsafe.Pointer(&srcY), unsafe.Pointer(&srcZ),
		unsafe.Pointer(&dstName), unsafe.Pointer(&dstTarget), unsafe.Pointer(&dstLevel),
		unsafe.Pointer(&dstX), unsafe.Pointer(&dstY), unsafe.Pointer(&dstZ),
		unsafe.Pointer(&w), unsafe.Pointer(&h), unsafe.Pointer(&depth),
	}
	_ = r.callLocked(r.glCopyImageSubData, nil, args)
}

func (r *resolvedFuncs) BindWaylandDisplay(display uintptr) error {
	return r.callLocked(r.eglBindWaylandDisplayWL, nil, []unsafe.Pointer{unsafe.Pointer(&display)})
}

func (r *resolvedFuncs) UnbindWaylandDisplay(display uintptr) error {
	return r.callLocked(r.eglUnbindWaylandDisplayWL, nil, []unsafe.Pointer{unsafe.Pointer(&display)})
}

// eglWidth/eglHeight reuse the EGL_WIDTH/EGL_HEIGHT attribute enums also
// used by buildDmaBufAttribs, since eglQuerySurface takes the same
// attribute space.
func (r *resolvedFuncs) QuerySurfaceSize(surface uintptr) (width, height int32, err error) {
	const (
		eglWidthAttr  = 0x3057
		eglHeightAttr = 0x3056
	)
	surfArg := surface

	var w uintptr
	wAttr := uintptr(eglWidthAttr)
	wPtr := unsafe.Pointer(&w)
	wArgs := []unsafe.Pointer{unsafe.Pointer(&surfArg), unsafe.Pointer(&wAttr), unsafe.Pointer(&wPtr)}
	var ok uintptr
	if err := r.callLocked(r.eglQuerySurface, unsafe.Pointer(&ok), wArgs); err != nil {
		return 0, 0, err
	}
	if ok == 0 {
		return 0, 0, fmt.Errorf("gl: eglQuerySurface(EGL_WIDTH) returned EGL_FALSE")
	}

	var h uintptr
	hAttr := uintptr(eglHeightAttr)
	hPtr := unsafe.Pointer(&h)
	hArgs := []unsafe.Pointer{unsafe.Pointer(&surfArg), unsafe.Pointer(&hAttr), unsafe.Pointer(&hPtr)}
	if err := r.callLocked(r.eglQuerySurface, unsafe.Pointer(&ok), hArgs); err != nil {
		return 0, 0, err
	}
	if ok == 0 {
		return 0, 0, fmt.Errorf("gl: eglQuerySurface(EGL_HEIGHT) returned EGL_FALSE")
	}

	return int32(w), int32(h), nil
}
