package drm

import "testing"

// TestCrtcAllocationUniqueness is spec 8 scenario 6: two connectors sharing
// a single compatible CRTC; the first allocation succeeds and the second
// fails with "no available CRTC".
func TestCrtcAllocationUniqueness(t *testing.T) {
	table := NewCrtcTable()

	crtc, err := table.Allocate(1, 0, []uint32{100})
	if err != nil {
		t.Fatalf("first Allocate() error = %v", err)
	}
	if crtc != 100 {
		t.Fatalf("first Allocate() = %d, want 100", crtc)
	}

	_, err = table.Allocate(2, 0, []uint32{100})
	if err != ErrNoAvailableCrtc {
		t.Fatalf("second Allocate() error = %v, want ErrNoAvailableCrtc", err)
	}
}

func TestAllocatePrefersCurrentEncoderBinding(t *testing.T) {
	table := NewCrtcTable()
	crtc, err := table.Allocate(1, 50, []uint32{10, 20})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if crtc != 50 {
		t.Fatalf("Allocate() = %d, want 50 (preferred current binding)", crtc)
	}
}

func TestAllocateFallsBackWhenCurrentBindingTaken(t *testing.T) {
	table := NewCrtcTable()
	if _, err := table.Allocate(1, 50, nil); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	crtc, err := table.Allocate(2, 50, []uint32{50, 60})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if crtc != 60 {
		t.Fatalf("Allocate() = %d, want 60 (50 already bound)", crtc)
	}
}

func TestReleaseFreesCrtcForReuse(t *testing.T) {
	table := NewCrtcTable()
	if _, err := table.Allocate(1, 0, []uint32{100}); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	table.Release(1)

	crtc, err := table.Allocate(2, 0, []uint32{100})
	if err != nil {
		t.Fatalf("Allocate() after Release() error = %v", err)
	}
	if crtc != 100 {
		t.Fatalf("Allocate() after Release() = %d, want 100", crtc)
	}
	if _, ok := table.CrtcFor(1); ok {
		t.Fatal("CrtcFor(1) still bound after Release")
	}
}

func TestReassigningConnectorFreesItsPriorCrtc(t *testing.T) {
	table := NewCrtcTable()
	if _, err := table.Allocate(1, 10, nil); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	// Reassign connector 1 away from CRTC 10 (simulating a hotplug re-probe
	// that reports a different current encoder binding).
	if _, err := table.Allocate(1, 20, nil); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	crtc, err := table.Allocate(2, 0, []uint32{10})
	if err != nil {
		t.Fatalf("Allocate() for connector 2 error = %v, want CRTC 10 to be free", err)
	}
	if crtc != 10 {
		t.Fatalf("Allocate() = %d, want 10", crtc)
	}
}
