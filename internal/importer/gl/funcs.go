package gl

// funcs is the minimal GL/EGL call surface the backend needs, abstracted
// behind an interface so Import's branching logic is testable without a
// live GL context — resolvedFuncs (resolve.go) is the only production
// implementation, backed by goffi-resolved symbols.
type funcs interface {
	BindTexture2D(tex TextureHandle)
	UnbindTexture2D()
	TexParameteri(pname, param int32)
	PixelStorei(pname, param int32)
	TexSubImage2D(xoff, yoff, width, height int32, glFormat uint32, data []byte)
	GenerateMipmap()
	CreateTexture() TextureHandle
	DeleteTexture(tex TextureHandle)

	CreateImageKHR(attribs []int32) (EGLImage, error)
	DestroyImageKHR(img EGLImage) error
	EGLImageTargetTexture2DOES(img EGLImage)
	CopyImageSubData(src, dst TextureHandle, width, height int32)

	BindWaylandDisplay(display uintptr) error
	UnbindWaylandDisplay(display uintptr) error
	QuerySurfaceSize(surface uintptr) (width, height int32, err error)
}
