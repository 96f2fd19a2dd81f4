package gl

import "github.com/waylex/waylex/internal/importer"

// GL pixel-format enum values the shared-memory path passes to
// TexSubImage2D's format argument.
const (
	glBGRA = 0x80E1
	glRGBA = 0x1908
)

// mapShmFormat maps a Wayland shm fourcc to the GL pixel format glTexSubImage2D
// expects, per spec 4.B.2 step 4. ARGB/XRGB store as BGRA byte order in
// memory; ABGR/XBGR store as RGBA.
func mapShmFormat(f importer.Fourcc) (glFormat uint32, ok bool) {
	switch f {
	case importer.FourccArgb8888, importer.FourccXrgb8888:
		return glBGRA, true
	case importer.FourccAbgr8888, importer.FourccXbgr8888:
		return glRGBA, true
	default:
		return 0, false
	}
}
