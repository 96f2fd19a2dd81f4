// Package gpudevice implements the GPU device registry (spec component A):
// discovering, opening, and describing every rendering GPU available to
// the current seat. It is the leaf component every other compositor
// subsystem builds on.
package gpudevice

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// Errors returned by device registry operations.
var (
	ErrNoMasterLock    = errors.New("gpudevice: could not acquire DRM master lock")
	ErrCapabilityQuery = errors.New("gpudevice: capability query failed")
	ErrNoAtomic        = errors.New("gpudevice: atomic modesetting not available")
)

var cardNodeRE = regexp.MustCompile(`^card[0-9]+$`)

// Enumerate scans /sys/class/drm for card nodes whose seat attribute
// matches seat, returning /dev/dri device paths in discovery order. A
// missing seat attribute is treated as "seat0", the common single-seat
// case.
func Enumerate(seat string) ([]string, error) {
	if seat == "" {
		seat = "seat0"
	}

	entries, err := os.ReadDir("/sys/class/drm")
	if err != nil {
		return nil, fmt.Errorf("gpudevice: reading /sys/class/drm: %w", err)
	}

	var paths []string
	for _, ent := range entries {
		name := ent.Name()
		if !cardNodeRE.MatchString(name) {
			continue
		}

		cardSeat, err := os.ReadFile(filepath.Join("/sys/class/drm", name, "device", "seat"))
		devSeat := "seat0"
		if err == nil {
			devSeat = trimNewline(string(cardSeat))
		}
		if devSeat != seat {
			continue
		}

		paths = append(paths, filepath.Join("/dev/dri", name))
	}
	return paths, nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// DrmDevice is one opened GPU: its file descriptor, master-lock state, and
// a snapshot of the pre-launch KMS state.
type DrmDevice struct {
	Path       string
	File       *os.File
	DriverName string

	mu         sync.Mutex
	masterHeld bool
	atomic     bool

	// baseline is the snapshot of KMS state taken right after open. Reset
	// does not read it: Reset clears every binding instead of restoring
	// these.
	baseline kmsSnapshot
}

// MasterHeld reports whether this process holds the DRM master lock for
// the device. Without it, no mode-setting may be attempted.
func (d *DrmDevice) MasterHeld() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.masterHeld
}

// Atomic reports whether atomic modesetting and universal planes were
// successfully enabled for this device.
func (d *DrmDevice) Atomic() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.atomic
}

// Open opens a DRM device node with O_RDWR|O_CLOEXEC, attempts to acquire
// the master lock (non-fatal on failure — the device becomes read-only),
// queries the driver name, snapshots the current KMS state for later
// restoration, and attempts to enable atomic modesetting plus universal
// planes. Failure to enable atomic mode downgrades the device to legacy,
// per spec 4.A.
func Open(path string) (*DrmDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unixCloexec, 0)
	if err != nil {
		return nil, fmt.Errorf("gpudevice: open %s: %w", path, err)
	}

	d := &DrmDevice{Path: path, File: f}

	if err := setMaster(f); err != nil {
		// Non-fatal: proceed read-only, no mode-setting will be attempted.
		d.masterHeld = false
	} else {
		d.masterHeld = true
	}

	name, err := getDriverName(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("gpudevice: query driver name for %s: %w", path, err)
	}
	d.DriverName = name

	d.baseline, err = snapshotKMS(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("gpudevice: snapshot KMS state for %s: %w", path, err)
	}

	if d.masterHeld {
		if err := enableUniversalPlanes(f); err == nil {
			if err := enableAtomic(f); err == nil {
				d.atomic = true
			}
		}
	}

	return d, nil
}

// Close releases the master lock if held and closes the device node. It
// does not restore KMS state; call Reset first if that is desired.
func (d *DrmDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.masterHeld {
		_ = dropMaster(d.File)
		d.masterHeld = false
	}
	return d.File.Close()
}
