package gl

import (
	"errors"
	"testing"

	"github.com/waylex/waylex/internal/importer"
)

func TestImportShmUploadsAndReturnsTexture(t *testing.T) {
	f := &fakeFuncs{}
	b := newWithFuncs(f)

	req := importer.Request{
		Source: importer.SourceShm,
		Shm: &importer.ShmBuffer{
			Data:   make([]byte, 64*64*4),
			Stride: 64 * 4,
			Width:  64, Height: 64,
			Format: importer.FourccArgb8888,
		},
	}
	tex, err := b.Import(req)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if tex.Width != 64 || tex.Height != 64 {
		t.Fatalf("tex = %+v, want 64x64", tex)
	}
}

func TestImportShmRejectsUnsupportedFormat(t *testing.T) {
	f := &fakeFuncs{}
	b := newWithFuncs(f)

	req := importer.Request{
		Source: importer.SourceShm,
		Shm: &importer.ShmBuffer{
			Data: make([]byte, 4), Width: 1, Height: 1,
			Format: importer.Fourcc(0xdeadbeef),
		},
	}
	_, err := b.Import(req)
	if !errors.Is(err, importer.ErrUnsupportedFormat) {
		t.Fatalf("Import() error = %v, want ErrUnsupportedFormat", err)
	}
}

type errDeleteFuncs struct {
	fakeFuncs
	destroyErr bool
	deleted    []TextureHandle
}

func (f *errDeleteFuncs) DeleteTexture(tex TextureHandle) {
	f.deleted = append(f.deleted, tex)
}

func (f *errDeleteFuncs) DestroyImageKHR(img EGLImage) error {
	if f.destroyErr {
		return errors.New("boom")
	}
	return nil
}

func TestImportDmaFreesScratchTextureEvenOnError(t *testing.T) {
	f := &errDeleteFuncs{destroyErr: true}
	b := newWithFuncs(f)

	req := importer.Request{
		Source: importer.SourceDma,
		Dma: &importer.DmaBuffer{
			Planes:   []importer.DmaPlane{{FD: 3, Offset: 0, Stride: 256}},
			Modifier: importer.ModifierLinear,
			Width:    64, Height: 64, Fourcc: importer.FourccArgb8888,
		},
	}
	_, err := b.Import(req)
	if err == nil {
		t.Fatal("Import() error = nil, want error from DestroyImageKHR failure")
	}

	// Both the scratch texture (created during import) and the destination
	// texture (freed after DestroyImageKHR fails) must be deleted.
	if len(f.deleted) != 2 {
		t.Fatalf("deleted textures = %v, want 2 (scratch + dest on error path)", f.deleted)
	}
}

func TestImportDmaRejectsTooManyPlanes(t *testing.T) {
	f := &fakeFuncs{}
	b := newWithFuncs(f)

	req := importer.Request{
		Source: importer.SourceDma,
		Dma: &importer.DmaBuffer{
			Planes: make([]importer.DmaPlane, 5),
			Width:  1, Height: 1,
		},
	}
	if _, err := b.Import(req); err == nil {
		t.Fatal("Import() error = nil, want error for >4 planes")
	}
}

func TestBuildDmaBufAttribsIncludesModifierWhenNotTrivial(t *testing.T) {
	dma := &importer.DmaBuffer{
		Planes:   []importer.DmaPlane{{FD: 3, Offset: 0, Stride: 256}},
		Modifier: 0x0100000000000001,
		Width:    64, Height: 64, Fourcc: importer.FourccArgb8888,
	}
	attribs := buildDmaBufAttribs(dma)
	found := false
	for _, a := range attribs {
		if a == 1 { // low 32 bits of the modifier
			found = true
		}
	}
	if !found {
		t.Fatalf("buildDmaBufAttribs() = %v, want modifier low-bits attribute present", attribs)
	}
}

func TestBuildDmaBufAttribsOmitsModifierWhenLinear(t *testing.T) {
	dma := &importer.DmaBuffer{
		Planes:   []importer.DmaPlane{{FD: 3, Offset: 0, Stride: 256}},
		Modifier: importer.ModifierLinear,
		Width:    64, Height: 64, Fourcc: importer.FourccArgb8888,
	}
	attribs := buildDmaBufAttribs(dma)
	// 6 header + 6 plane entries + 1 NONE terminator, no modifier pair.
	if len(attribs) != 13 {
		t.Fatalf("len(attribs) = %d, want 13 (no modifier pair for Linear)", len(attribs))
	}
}

func TestBuildDmaBufAttribsUsesPerPlaneEnumsForMultiPlane(t *testing.T) {
	// NV12-shaped 2-plane buffer: plane1's FD attribute is
	// EGL_DMA_BUF_PLANE1_FD_EXT (0x3275), not EGL_DMA_BUF_PLANE0_FD_EXT
	// plus a fixed stride — the two are not 6 apart.
	dma := &importer.DmaBuffer{
		Planes: []importer.DmaPlane{
			{FD: 3, Offset: 0, Stride: 256},
			{FD: 4, Offset: 16384, Stride: 256},
		},
		Modifier: importer.ModifierLinear,
		Width:    64, Height: 64, Fourcc: importer.FourccArgb8888,
	}
	attribs := buildDmaBufAttribs(dma)

	const (
		plane0FD = 0x3272
		plane1FD = 0x3275
	)
	wantPairs := map[int32]int32{
		plane0FD:     3,
		plane0FD + 1: 0,
		plane0FD + 2: 256,
		plane1FD:     4,
		plane1FD + 1: 16384,
		plane1FD + 2: 256,
	}
	for attr, want := range wantPairs {
		got, ok := attribValue(attribs, attr)
		if !ok {
			t.Fatalf("buildDmaBufAttribs() = %v, missing attribute %#x", attribs, attr)
		}
		if got != want {
			t.Fatalf("attribute %#x = %d, want %d", attr, got, want)
		}
	}
}

func attribValue(attribs []int32, key int32) (int32, bool) {
	for i := 0; i+1 < len(attribs); i += 2 {
		if attribs[i] == key {
			return attribs[i+1], true
		}
	}
	return 0, false
}
