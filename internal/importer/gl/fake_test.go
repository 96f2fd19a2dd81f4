package gl

// fakeFuncs is a no-op funcs implementation other fakes embed and override
// selectively, so each test only needs to supply the behavior it checks.
type fakeFuncs struct {
	nextTexture TextureHandle
	nextImage   EGLImage
}

func (f *fakeFuncs) BindTexture2D(tex TextureHandle)                         {}
func (f *fakeFuncs) UnbindTexture2D()                                        {}
func (f *fakeFuncs) TexParameteri(pname, param int32)                        {}
func (f *fakeFuncs) PixelStorei(pname, param int32)                         {}
func (f *fakeFuncs) TexSubImage2D(x, y, w, h int32, fmt uint32, data []byte) {}
func (f *fakeFuncs) GenerateMipmap()                                         {}
func (f *fakeFuncs) CreateTexture() TextureHandle {
	f.nextTexture++
	return f.nextTexture
}
func (f *fakeFuncs) DeleteTexture(tex TextureHandle) {}

func (f *fakeFuncs) CreateImageKHR(attribs []int32) (EGLImage, error) {
	f.nextImage++
	return f.nextImage, nil
}
func (f *fakeFuncs) DestroyImageKHR(img EGLImage) error         { return nil }
func (f *fakeFuncs) EGLImageTargetTexture2DOES(img EGLImage)    {}
func (f *fakeFuncs) CopyImageSubData(src, dst TextureHandle, w, h int32) {}

func (f *fakeFuncs) BindWaylandDisplay(d uintptr) error   { return nil }
func (f *fakeFuncs) UnbindWaylandDisplay(d uintptr) error { return nil }
func (f *fakeFuncs) QuerySurfaceSize(surface uintptr) (int32, int32, error) {
	return 0, 0, nil
}
