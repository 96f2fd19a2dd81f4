package drm

import (
	"sync"

	"github.com/waylex/waylex/internal/gpudevice"
)

// EventRouter dispatches decoded page-flip/vblank events to the
// DrmSurface that owns the CRTC they arrived on (spec 4.D: "Vblank and
// page-flip events are routed by CRTC to the owning DrmSurface").
type EventRouter struct {
	mu       sync.Mutex
	surfaces map[uint32]*DrmSurface // keyed by CrtcID
}

// NewEventRouter creates an empty router; surfaces register themselves as
// they're brought up.
func NewEventRouter() *EventRouter {
	return &EventRouter{surfaces: make(map[uint32]*DrmSurface)}
}

// Register associates a CRTC with the surface presenting to it.
func (r *EventRouter) Register(crtcID uint32, s *DrmSurface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces[crtcID] = s
}

// Unregister removes a CRTC's association, e.g. on hotplug removal.
func (r *EventRouter) Unregister(crtcID uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surfaces, crtcID)
}

// Route dispatches every flip-complete event in events to its owning
// surface, ignoring plain vblank events (no surface action needed) and
// events for CRTCs with no registered surface (already torn down).
func (r *EventRouter) Route(events []gpudevice.FlipEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range events {
		if e.Vblank {
			continue
		}
		if s, ok := r.surfaces[e.CrtcID]; ok {
			s.OnFlipComplete()
		}
	}
}
