package drm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/waylex/waylex/internal/drm/gbm"
	"github.com/waylex/waylex/internal/gpudevice"
)

// ErrFlipAlreadyPending is returned by Present when a previous flip has not
// yet completed; the caller should wait for the next vblank/flip-complete
// event before presenting again.
var ErrFlipAlreadyPending = errors.New("drm: a page flip is already pending on this surface")

// Framebuffers is the subset of gpudevice's framebuffer lifecycle a
// DrmSurface needs, narrowed to an interface so the ring's bookkeeping is
// testable without a real device.
type Framebuffers interface {
	AddFramebuffer(width, height, fourcc, bpp, depth uint32, planes []gpudevice.FBPlane, modifier uint64) (uint32, error)
	RemoveFramebuffer(fbID uint32) error
}

// Flipper is the subset of gpudevice's page-flip call a DrmSurface needs.
type Flipper interface {
	PageFlip(crtcID, fbID uint32, userData uint64) error
}

// ringSlot pairs one GBM buffer object with its wrapped KMS framebuffer.
type ringSlot struct {
	bo   gbm.BufferObject
	fbID uint32
}

// DrmSurface is a rendering+scanout endpoint bound to one connector, one
// CRTC, and one primary plane (spec 3, DrmSurface). It owns a GBM surface
// allocator and a ring of buffer objects, tracking which is front and
// which is pending-flip; the back buffer is not tracked here, it is
// whatever the GBM surface hands out on the next lock.
type DrmSurface struct {
	ConnectorID, CrtcID, PlaneID uint32
	Width, Height                uint32
	Fourcc                       uint32
	BPP, Depth                   uint32

	gbmFuncs   gbm.Funcs
	gbmSurface gbm.Surface
	fbs        Framebuffers
	flip       Flipper

	mu          sync.Mutex
	front       *ringSlot
	pendingFlip *ringSlot
	known       map[gbm.BufferObject]*ringSlot // cache: avoid re-wrapping the same BO into a new FB
}

// NewDrmSurface creates the GBM surface allocator for one output and
// wraps it with the bookkeeping Present/OnFlipComplete need.
func NewDrmSurface(connectorID, crtcID, planeID uint32, width, height, fourcc, bpp, depth uint32, gbmDevice gbm.Device, gbmFuncs gbm.Funcs, fbs Framebuffers, flip Flipper) (*DrmSurface, error) {
	const gbmFlagScanout = 1 // GBM_BO_USE_SCANOUT
	surf, err := gbmFuncs.CreateSurface(gbmDevice, int32(width), int32(height), fourcc, gbmFlagScanout)
	if err != nil {
		return nil, fmt.Errorf("drm: create GBM surface: %w", err)
	}
	return &DrmSurface{
		ConnectorID: connectorID, CrtcID: crtcID, PlaneID: planeID,
		Width: width, Height: height, Fourcc: fourcc, BPP: bpp, Depth: depth,
		gbmFuncs: gbmFuncs, gbmSurface: surf, fbs: fbs, flip: flip,
		known: make(map[gbm.BufferObject]*ringSlot),
	}, nil
}

// slotFor wraps an already-locked GBM buffer object into a KMS
// framebuffer, caching the mapping so
// a buffer object already seen (the common 2-3 buffer steady-state ring)
// does not get re-registered as a new framebuffer on every frame.
func (s *DrmSurface) slotFor(bo gbm.BufferObject) (*ringSlot, error) {
	if slot, ok := s.known[bo]; ok {
		return slot, nil
	}

	handle := s.gbmFuncs.BOGetHandle(bo)
	pitch := s.gbmFuncs.BOGetStride(bo)
	fbID, err := s.fbs.AddFramebuffer(s.Width, s.Height, s.Fourcc, s.BPP, s.Depth,
		[]gpudevice.FBPlane{{Handle: handle, Pitch: pitch}}, gpudevice.ModifierInvalid)
	if err != nil {
		return nil, fmt.Errorf("drm: wrap GBM buffer into framebuffer: %w", err)
	}

	slot := &ringSlot{bo: bo, fbID: fbID}
	s.known[bo] = slot
	return slot, nil
}

// PrimeFront wraps the initial front buffer bo (as returned by
// LockInitialBuffer) into a framebuffer, installing it directly as front without going
// through Present/OnFlipComplete's asynchronous page-flip dance. The
// initial mode-set (SetCrtc or an atomic commit with ALLOW_MODESET)
// itself performs the first scanout; only the second and later frames
// need Present's page-flip-and-wait cycle.
func (s *DrmSurface) PrimeFront(bo gbm.BufferObject) (fbID uint32, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, err := s.slotFor(bo)
	if err != nil {
		return 0, err
	}
	s.front = slot
	return slot.fbID, nil
}

// LockInitialBuffer locks and returns the GBM surface's first front
// buffer object, for use with PrimeFront before any page flip has been
// requested.
func (s *DrmSurface) LockInitialBuffer() (gbm.BufferObject, error) {
	return s.gbmFuncs.LockFrontBuffer(s.gbmSurface)
}

// Present locks the just-rendered GBM front buffer, wraps it into a
// framebuffer if new, and requests an asynchronous page flip, per spec
// 4.D's event-driven presentation model.
func (s *DrmSurface) Present(userData uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingFlip != nil {
		return ErrFlipAlreadyPending
	}

	bo, err := s.gbmFuncs.LockFrontBuffer(s.gbmSurface)
	if err != nil {
		return fmt.Errorf("drm: lock GBM front buffer: %w", err)
	}
	slot, err := s.slotFor(bo)
	if err != nil {
		return err
	}

	if err := s.flip.PageFlip(s.CrtcID, slot.fbID, userData); err != nil {
		return fmt.Errorf("drm: page flip: %w", err)
	}
	s.pendingFlip = slot
	return nil
}

// OnFlipComplete advances the ring: the pending-flip buffer becomes
// front, and the previous front buffer is released back to GBM for
// reuse as the next back buffer (spec 4.D: "the pending-flip buffer
// becomes front, the previous front becomes reusable").
func (s *DrmSurface) OnFlipComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingFlip == nil {
		return
	}
	if s.front != nil && s.front.bo != s.pendingFlip.bo {
		s.gbmFuncs.ReleaseBuffer(s.gbmSurface, s.front.bo)
	}
	s.front = s.pendingFlip
	s.pendingFlip = nil
}

// Pending reports whether a flip is currently in flight.
func (s *DrmSurface) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingFlip != nil
}

// FrontFbID returns the framebuffer ID currently scanned out, 0 if none
// has completed yet.
func (s *DrmSurface) FrontFbID() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		return 0
	}
	return s.front.fbID
}

// Destroy releases every framebuffer this surface ever wrapped and its
// GBM surface.
func (s *DrmSurface) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.known {
		_ = s.fbs.RemoveFramebuffer(slot.fbID)
	}
	s.gbmFuncs.DestroySurface(s.gbmSurface)
}
