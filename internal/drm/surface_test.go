package drm

import (
	"testing"

	"github.com/waylex/waylex/internal/drm/gbm"
	"github.com/waylex/waylex/internal/gpudevice"
)

type fakeGbmFuncs struct {
	nextBO      gbm.BufferObject
	nextSurface gbm.Surface
	released    []gbm.BufferObject
	destroyed   bool
}

func (f *fakeGbmFuncs) CreateDevice(fd int) (gbm.Device, error) { return 1, nil }
func (f *fakeGbmFuncs) DestroyDevice(dev gbm.Device)             {}

func (f *fakeGbmFuncs) CreateSurface(dev gbm.Device, width, height int32, fourcc, flags uint32) (gbm.Surface, error) {
	f.nextSurface++
	return f.nextSurface, nil
}
func (f *fakeGbmFuncs) DestroySurface(surf gbm.Surface) { f.destroyed = true }

func (f *fakeGbmFuncs) LockFrontBuffer(surf gbm.Surface) (gbm.BufferObject, error) {
	f.nextBO++
	return f.nextBO, nil
}
func (f *fakeGbmFuncs) ReleaseBuffer(surf gbm.Surface, bo gbm.BufferObject) {
	f.released = append(f.released, bo)
}
func (f *fakeGbmFuncs) BOGetHandle(bo gbm.BufferObject) uint32 { return uint32(bo) }
func (f *fakeGbmFuncs) BOGetStride(bo gbm.BufferObject) uint32 { return 1920 * 4 }
func (f *fakeGbmFuncs) BOGetWidth(bo gbm.BufferObject) uint32  { return 1920 }
func (f *fakeGbmFuncs) BOGetHeight(bo gbm.BufferObject) uint32 { return 1080 }

type fakeFramebuffers struct {
	nextFbID uint32
	removed  []uint32
}

func (f *fakeFramebuffers) AddFramebuffer(width, height, fourcc, bpp, depth uint32, planes []gpudevice.FBPlane, modifier uint64) (uint32, error) {
	f.nextFbID++
	return f.nextFbID, nil
}
func (f *fakeFramebuffers) RemoveFramebuffer(fbID uint32) error {
	f.removed = append(f.removed, fbID)
	return nil
}

type fakeFlipper struct {
	flips []uint32
}

func (f *fakeFlipper) PageFlip(crtcID, fbID uint32, userData uint64) error {
	f.flips = append(f.flips, fbID)
	return nil
}

func newTestDrmSurface(t *testing.T) (*DrmSurface, *fakeGbmFuncs, *fakeFramebuffers, *fakeFlipper) {
	t.Helper()
	gf := &fakeGbmFuncs{}
	fbs := &fakeFramebuffers{}
	flip := &fakeFlipper{}
	s, err := NewDrmSurface(1, 2, 3, 1920, 1080, 0x34325241, 32, 24, 1, gf, fbs, flip)
	if err != nil {
		t.Fatalf("NewDrmSurface() error = %v", err)
	}
	return s, gf, fbs, flip
}

func TestPresentRequestsAFlipAndMarksPending(t *testing.T) {
	s, _, _, flip := newTestDrmSurface(t)

	if err := s.Present(42); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if !s.Pending() {
		t.Fatal("Pending() = false after Present()")
	}
	if len(flip.flips) != 1 {
		t.Fatalf("flips = %v, want 1", flip.flips)
	}
}

func TestPresentRejectsSecondCallWhileFlipPending(t *testing.T) {
	s, _, _, _ := newTestDrmSurface(t)
	if err := s.Present(1); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if err := s.Present(2); err != ErrFlipAlreadyPending {
		t.Fatalf("second Present() error = %v, want ErrFlipAlreadyPending", err)
	}
}

func TestOnFlipCompleteAdvancesRingAndReleasesPriorFront(t *testing.T) {
	s, gf, _, _ := newTestDrmSurface(t)

	if err := s.Present(1); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	s.OnFlipComplete()
	if s.Pending() {
		t.Fatal("Pending() = true after OnFlipComplete()")
	}
	firstFront := s.FrontFbID()
	if firstFront == 0 {
		t.Fatal("FrontFbID() = 0 after first flip completes")
	}

	if err := s.Present(2); err != nil {
		t.Fatalf("second Present() error = %v", err)
	}
	s.OnFlipComplete()
	if len(gf.released) != 1 {
		t.Fatalf("released = %v, want exactly 1 (the superseded front buffer)", gf.released)
	}
	if s.FrontFbID() == firstFront {
		t.Fatal("FrontFbID() did not advance to the new buffer")
	}
}

func TestSlotForReusesFramebufferForSameBufferObject(t *testing.T) {
	s, gf, fbs, _ := newTestDrmSurface(t)
	gf.nextBO = 4 // LockFrontBuffer pre-increments, so this call yields BO 5

	if err := s.Present(1); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	s.OnFlipComplete()
	fbCountAfterFirst := fbs.nextFbID

	gf.nextBO = 4 // LockFrontBuffer increments to 5 again on the next call
	if err := s.Present(2); err != nil {
		t.Fatalf("second Present() error = %v", err)
	}
	if fbs.nextFbID != fbCountAfterFirst {
		t.Fatalf("a new framebuffer was registered for an already-known buffer object (fbID count %d -> %d)", fbCountAfterFirst, fbs.nextFbID)
	}
}

func TestPrimeFrontInstallsFrontWithoutRequestingAFlip(t *testing.T) {
	s, _, _, flip := newTestDrmSurface(t)

	bo, err := s.LockInitialBuffer()
	if err != nil {
		t.Fatalf("LockInitialBuffer() error = %v", err)
	}
	fbID, err := s.PrimeFront(bo)
	if err != nil {
		t.Fatalf("PrimeFront() error = %v", err)
	}
	if fbID == 0 {
		t.Fatal("PrimeFront() fbID = 0")
	}
	if s.FrontFbID() != fbID {
		t.Fatalf("FrontFbID() = %d, want %d", s.FrontFbID(), fbID)
	}
	if s.Pending() {
		t.Fatal("PrimeFront() should not mark a flip pending")
	}
	if len(flip.flips) != 0 {
		t.Fatalf("flips = %v, want none from PrimeFront", flip.flips)
	}
}

func TestDestroyRemovesEveryKnownFramebuffer(t *testing.T) {
	s, gf, fbs, _ := newTestDrmSurface(t)
	if err := s.Present(1); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	s.OnFlipComplete()

	s.Destroy()
	if len(fbs.removed) != 1 {
		t.Fatalf("removed = %v, want 1", fbs.removed)
	}
	if !gf.destroyed {
		t.Fatal("GBM surface was not destroyed")
	}
}
