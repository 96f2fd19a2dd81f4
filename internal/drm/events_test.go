package drm

import (
	"testing"

	"github.com/waylex/waylex/internal/gpudevice"
)

func TestEventRouterDispatchesFlipCompleteToOwningSurface(t *testing.T) {
	s, _, _, _ := newTestDrmSurface(t)
	s.CrtcID = 7
	if err := s.Present(1); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	router := NewEventRouter()
	router.Register(7, s)
	router.Route([]gpudevice.FlipEvent{{CrtcID: 7}})

	if s.Pending() {
		t.Fatal("Pending() = true after routing a flip-complete event")
	}
}

func TestEventRouterIgnoresPlainVblank(t *testing.T) {
	s, _, _, _ := newTestDrmSurface(t)
	s.CrtcID = 7
	if err := s.Present(1); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	router := NewEventRouter()
	router.Register(7, s)
	router.Route([]gpudevice.FlipEvent{{CrtcID: 7, Vblank: true}})

	if !s.Pending() {
		t.Fatal("a plain vblank event should not complete a pending flip")
	}
}

func TestEventRouterIgnoresUnregisteredCrtc(t *testing.T) {
	router := NewEventRouter()
	// Should not panic for a CRTC with no registered surface.
	router.Route([]gpudevice.FlipEvent{{CrtcID: 99}})
}
