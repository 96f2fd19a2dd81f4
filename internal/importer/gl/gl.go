// Package gl implements the buffer importer's OpenGL/EGL backend: shared
// memory, DMA-BUF, and EGL-surface sources uploaded into GL textures via
// extension entry points resolved at runtime, the same goffi-based dlopen
// pattern the darwin platform layer uses for the Objective-C runtime.
package gl

import (
	"errors"
	"fmt"

	"github.com/waylex/waylex/internal/importer"
)

// FunctionNotExistsError reports a missing extension entry point, per spec
// 4.B.2: "the backend reports FunctionNotExists(name) and is disabled."
type FunctionNotExistsError struct {
	Name string
}

func (e *FunctionNotExistsError) Error() string {
	return fmt.Sprintf("gl: function does not exist: %s", e.Name)
}

func (e *FunctionNotExistsError) Is(target error) bool {
	return target == importer.ErrFunctionNotExists
}

// EGLImage is the opaque handle returned by eglCreateImageKHR.
type EGLImage uintptr

// TextureHandle is a GL texture name wrapped to satisfy
// importer.TextureHandle.
type TextureHandle uint32

func (TextureHandle) Backend() string { return "gl" }

// requiredExtensions are the entry points resolved on first use (spec
// 4.B.2). Order is not significant; all are required for the backend to be
// usable.
var requiredExtensions = []string{
	"eglCreateImageKHR",
	"glEGLImageTargetTexture2DOES",
	"eglBindWaylandDisplayWL",
	"eglUnbindWaylandDisplayWL",
	"glGenTextures",
	"glBindTexture",
	"glTexParameteri",
	"glPixelStorei",
	"glTexSubImage2D",
	"glGenerateMipmap",
	"glDeleteTextures",
	"glCopyImageSubData",
	"eglQuerySurface",
	"eglDestroyImageKHR",
}

// pixel-store and texture-parameter constants the shared-memory path sets;
// named after their GL enum values so the intent reads without a header.
const (
	glTexture2D         = 0x0DE1
	glTextureWrapS      = 0x2802
	glTextureWrapT      = 0x2803
	glClampToEdge       = 0x812F
	glTextureMinFilter  = 0x2801
	glTextureMagFilter  = 0x2800
	glNearest           = 0x2600
	glUnpackRowLength   = 0x0CF2
	glUnpackSkipPixels  = 0x0CF4
	glUnpackSkipRows    = 0x0CF3
	glUnsignedByte      = 0x1401
)

// waylandPlaneAttrib is the single attribute EGL-surface import chains
// (spec 4.B.2's "[WAYLAND_PLANE_WL, 0, NONE]").
const waylandPlaneAttrib = 0x31D6 // EGL_WAYLAND_PLANE_WL
const eglNone = 0x3038

var errPlaneTooMany = errors.New("gl: dma-buf has more than 4 planes")
