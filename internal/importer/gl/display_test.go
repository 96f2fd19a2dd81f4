package gl

import "testing"

type fakeDisplayFuncs struct {
	fakeFuncs
	binds   []uintptr
	unbinds []uintptr
}

func (f *fakeDisplayFuncs) BindWaylandDisplay(d uintptr) error {
	f.binds = append(f.binds, d)
	return nil
}

func (f *fakeDisplayFuncs) UnbindWaylandDisplay(d uintptr) error {
	f.unbinds = append(f.unbinds, d)
	return nil
}

func TestDisplayBindingsSyncBindsNew(t *testing.T) {
	f := &fakeDisplayFuncs{}
	d := newDisplayBindings(f)

	if err := d.Sync([]uintptr{1, 2}); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(f.binds) != 2 {
		t.Fatalf("binds = %v, want 2 entries", f.binds)
	}
	if len(f.unbinds) != 0 {
		t.Fatalf("unbinds = %v, want none", f.unbinds)
	}
}

func TestDisplayBindingsSyncIsIdempotent(t *testing.T) {
	f := &fakeDisplayFuncs{}
	d := newDisplayBindings(f)

	if err := d.Sync([]uintptr{1, 2}); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if err := d.Sync([]uintptr{1, 2}); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(f.binds) != 2 {
		t.Fatalf("binds = %v, want still 2 after repeat Sync with the same set", f.binds)
	}
}

func TestDisplayBindingsSyncUnbindsDisappeared(t *testing.T) {
	f := &fakeDisplayFuncs{}
	d := newDisplayBindings(f)

	if err := d.Sync([]uintptr{1, 2}); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if err := d.Sync([]uintptr{2}); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(f.unbinds) != 1 || f.unbinds[0] != 1 {
		t.Fatalf("unbinds = %v, want [1]", f.unbinds)
	}
	if got := d.Bound(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("Bound() = %v, want [2]", got)
	}
}
