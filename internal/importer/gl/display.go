package gl

import "sync"

// displayBindings tracks which Wayland display handles are currently bound
// via eglBindWaylandDisplayWL, so SyncWaylandDisplays can diff against a
// live set and stay idempotent on re-entry (spec 4.B.2).
type displayBindings struct {
	mu    sync.Mutex
	funcs funcs
	bound map[uintptr]struct{}
}

func newDisplayBindings(f funcs) *displayBindings {
	return &displayBindings{funcs: f, bound: make(map[uintptr]struct{})}
}

// Sync binds every display in live that isn't already bound, and unbinds
// every previously-bound display no longer in live. Calling Sync again with
// the same set is a no-op (idempotent), matching "this is idempotent on
// re-entry" in spec 4.B.2.
func (d *displayBindings) Sync(live []uintptr) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	liveSet := make(map[uintptr]struct{}, len(live))
	for _, h := range live {
		liveSet[h] = struct{}{}
	}

	for h := range d.bound {
		if _, stillLive := liveSet[h]; !stillLive {
			if err := d.funcs.UnbindWaylandDisplay(h); err != nil {
				return err
			}
			delete(d.bound, h)
		}
	}

	for h := range liveSet {
		if _, already := d.bound[h]; already {
			continue
		}
		if err := d.funcs.BindWaylandDisplay(h); err != nil {
			return err
		}
		d.bound[h] = struct{}{}
	}
	return nil
}

// Bound reports the currently bound display handles, for tests.
func (d *displayBindings) Bound() []uintptr {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]uintptr, 0, len(d.bound))
	for h := range d.bound {
		out = append(out, h)
	}
	return out
}
