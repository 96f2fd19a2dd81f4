package drm

import (
	"errors"
	"sync"
)

// ErrNoAvailableCrtc is returned when a connector cannot be matched to any
// CRTC not already bound to another connector (spec 4.D startup: "Fail
// with 'no available CRTC' if none can be assigned").
var ErrNoAvailableCrtc = errors.New("drm: no available CRTC")

// CrtcTable tracks the device-wide connector -> CRTC assignment (spec 3's
// DrmDevice attribute "live map of connector -> assigned CRTC"), guarded
// the same way helixml-helix/api/pkg/drm/manager.go guards its
// scanout-lease map: a mutex plus a plain Go map, no lock-free cleverness.
type CrtcTable struct {
	mu             sync.Mutex
	connectorToCrtc map[uint32]uint32
	boundCrtcs      map[uint32]bool
}

// NewCrtcTable creates an empty assignment table.
func NewCrtcTable() *CrtcTable {
	return &CrtcTable{
		connectorToCrtc: make(map[uint32]uint32),
		boundCrtcs:      make(map[uint32]bool),
	}
}

// Allocate assigns connector a CRTC, preferring its current encoder->CRTC
// binding (currentCrtc, 0 if none) when that CRTC is still free; otherwise
// it scans candidateCrtcs in order for the first unbound one (spec 4.D:
// "scan the connector's encoders and pick a CRTC not yet bound"). The
// invariant "exactly one CRTC bound to a connector at a time" (spec 3)
// holds because a connector already present in connectorToCrtc is
// reassigned rather than double-booked.
func (t *CrtcTable) Allocate(connectorID, currentCrtc uint32, candidateCrtcs []uint32) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if currentCrtc != 0 && !t.boundCrtcs[currentCrtc] {
		t.bindLocked(connectorID, currentCrtc)
		return currentCrtc, nil
	}

	for _, crtc := range candidateCrtcs {
		if t.boundCrtcs[crtc] {
			continue
		}
		t.bindLocked(connectorID, crtc)
		return crtc, nil
	}
	return 0, ErrNoAvailableCrtc
}

func (t *CrtcTable) bindLocked(connectorID, crtcID uint32) {
	if prev, ok := t.connectorToCrtc[connectorID]; ok {
		delete(t.boundCrtcs, prev)
	}
	t.connectorToCrtc[connectorID] = crtcID
	t.boundCrtcs[crtcID] = true
}

// Release frees the CRTC bound to connectorID, if any, so a later
// Allocate call (e.g. after hotplug re-add) can reuse it.
func (t *CrtcTable) Release(connectorID uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if crtc, ok := t.connectorToCrtc[connectorID]; ok {
		delete(t.boundCrtcs, crtc)
		delete(t.connectorToCrtc, connectorID)
	}
}

// CrtcFor reports the CRTC currently bound to connectorID, if any.
func (t *CrtcTable) CrtcFor(connectorID uint32) (uint32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	crtc, ok := t.connectorToCrtc[connectorID]
	return crtc, ok
}
