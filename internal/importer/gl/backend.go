package gl

import (
	"fmt"

	"github.com/waylex/waylex/internal/importer"
)

func init() {
	importer.RegisterBackend("gl", func() importer.Backend {
		b, err := New()
		if err != nil {
			return nil
		}
		return b
	})
}

// Backend implements importer.Backend for shared-memory, DMA-BUF, and
// EGL-surface buffer sources (spec 4.B.2).
type Backend struct {
	f        funcs
	displays *displayBindings
}

// New resolves every required extension entry point and returns a ready
// Backend, or an error satisfying errors.Is(err, importer.ErrFunctionNotExists)
// if one is missing.
func New() (*Backend, error) {
	rf, err := newResolvedFuncs()
	if err != nil {
		return nil, err
	}
	return newWithFuncs(rf), nil
}

func newWithFuncs(f funcs) *Backend {
	return &Backend{f: f, displays: newDisplayBindings(f)}
}

func (b *Backend) Name() string { return "gl" }

// SyncWaylandDisplays binds/unbinds eglBindWaylandDisplayWL against the
// given live display handle set (spec 4.B.2's display-binding paragraph).
func (b *Backend) SyncWaylandDisplays(live []uintptr) error {
	return b.displays.Sync(live)
}

func (b *Backend) Import(req importer.Request) (*importer.Texture, error) {
	switch req.Source {
	case importer.SourceShm:
		return b.importShm(req)
	case importer.SourceDma:
		return b.importDma(req)
	case importer.SourceEgl:
		return b.importEgl(req)
	default:
		return nil, fmt.Errorf("gl: unknown buffer source %d", req.Source)
	}
}

// Release frees nothing: the GL backend keeps no per-identity record of
// the textures Import created, so they stay allocated.
func (b *Backend) Release(id importer.Identity) error {
	return nil
}

// importShm implements the shared-memory path, spec 4.B.2 steps 1-6.
func (b *Backend) importShm(req importer.Request) (*importer.Texture, error) {
	shm := req.Shm
	glFormat, ok := mapShmFormat(shm.Format)
	if !ok {
		return nil, fmt.Errorf("gl: shm format %#x: %w", shm.Format, importer.ErrUnsupportedFormat)
	}

	tex := b.f.CreateTexture()
	b.f.BindTexture2D(tex)
	b.f.TexParameteri(glTextureWrapS, glClampToEdge)
	b.f.TexParameteri(glTextureWrapT, glClampToEdge)
	b.f.TexParameteri(glTextureMinFilter, glNearest)
	b.f.TexParameteri(glTextureMagFilter, glNearest)

	const bytesPerPixel = 4
	b.f.PixelStorei(glUnpackRowLength, shm.Stride/bytesPerPixel)

	damage := importer.EffectiveDamage(req.Damage, shm.Width, shm.Height)
	for _, r := range damage {
		b.f.PixelStorei(glUnpackSkipPixels, r.X)
		b.f.PixelStorei(glUnpackSkipRows, r.Y)
		b.f.TexSubImage2D(r.X, r.Y, r.W, r.H, glFormat, shm.Data)
		b.f.PixelStorei(glUnpackSkipPixels, 0)
		b.f.PixelStorei(glUnpackSkipRows, 0)
	}

	b.f.GenerateMipmap()
	b.f.UnbindTexture2D()

	return &importer.Texture{
		Width: shm.Width, Height: shm.Height, Format: shm.Format,
		MipLevels: 1, Handle: tex,
	}, nil
}

// importDma implements the DMA-BUF path, spec 4.B.2: build the attribute
// list, create an EGL image, copy it into the destination texture through a
// throw-away texture freed even on error.
func (b *Backend) importDma(req importer.Request) (*importer.Texture, error) {
	dma := req.Dma
	if err := dma.Validate(); err != nil {
		return nil, err
	}
	if len(dma.Planes) > 4 {
		return nil, errPlaneTooMany
	}

	attribs := buildDmaBufAttribs(dma)
	img, err := b.f.CreateImageKHR(attribs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", importer.ErrFailedToCreateDmaImage, err)
	}

	scratch := b.f.CreateTexture()
	defer b.f.DeleteTexture(scratch) // freed on scope exit even on error

	b.f.BindTexture2D(scratch)
	b.f.EGLImageTargetTexture2DOES(img)
	b.f.UnbindTexture2D()

	dest := b.f.CreateTexture()
	b.f.CopyImageSubData(scratch, dest, dma.Width, dma.Height)

	if err := b.f.DestroyImageKHR(img); err != nil {
		b.f.DeleteTexture(dest)
		return nil, err
	}

	return &importer.Texture{
		Width: dma.Width, Height: dma.Height, Format: dma.Fourcc,
		MipLevels: 1, Handle: dest,
	}, nil
}

// importEgl implements the EGL-surface path, spec 4.B.2.
func (b *Backend) importEgl(req importer.Request) (*importer.Texture, error) {
	width, height, err := b.f.QuerySurfaceSize(req.Egl.Handle)
	if err != nil {
		return nil, err
	}

	attribs := []int32{waylandPlaneAttrib, 0, eglNone}
	img, err := b.f.CreateImageKHR(attribs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", importer.ErrFailedToCreateDmaImage, err)
	}

	tex := b.f.CreateTexture()
	b.f.BindTexture2D(tex)
	b.f.EGLImageTargetTexture2DOES(img)
	b.f.UnbindTexture2D()

	return &importer.Texture{Width: width, Height: height, MipLevels: 1, Handle: tex}, nil
}

// buildDmaBufAttribs assembles the EGL_LINUX_DMA_BUF_EXT attribute list:
// width, height, fourcc, then per-plane FD/OFFSET/PITCH and an optional
// modifier pair, terminated with NONE (spec 4.B.2 step 1-2).
func buildDmaBufAttribs(dma *importer.DmaBuffer) []int32 {
	const (
		eglWidth  = 0x3057
		eglHeight = 0x3056
		eglFourcc = 0x3271
		modLoBase = 0x3443 // EGL_DMA_BUF_PLANE0_MODIFIER_LO_EXT, contiguous across all 4 planes
	)
	// EGL_DMA_BUF_PLANEn_FD_EXT: planes 0-2 are a contiguous stride-3 block,
	// plane 3 is discontiguous (EGL_EXT_image_dma_buf_import_modifiers added
	// it later). OFFSET/PITCH follow each FD value by +1/+2.
	planeFDAttrs := [4]int32{0x3272, 0x3275, 0x3278, 0x3440}

	attribs := []int32{eglWidth, dma.Width, eglHeight, dma.Height, eglFourcc, int32(dma.Fourcc)}
	for i, p := range dma.Planes {
		fdAttr := planeFDAttrs[i]
		attribs = append(attribs,
			fdAttr, int32(p.FD),
			fdAttr+1, int32(p.Offset),
			fdAttr+2, int32(p.Stride),
		)
		if dma.Modifier != importer.ModifierInvalid && dma.Modifier != importer.ModifierLinear {
			modAttr := int32(modLoBase + i*2)
			attribs = append(attribs,
				modAttr, int32(uint32(dma.Modifier)),
				modAttr+1, int32(uint32(dma.Modifier>>32)),
			)
		}
	}
	attribs = append(attribs, eglNone)
	return attribs
}
