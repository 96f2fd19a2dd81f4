package drm

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/waylex/waylex/internal/gpudevice"
	"golang.org/x/sys/unix"
)

// ChangeKind distinguishes a connector appearing from one disappearing
// (spec 4.D hotplug: "emit Added/Removed events").
type ChangeKind int

const (
	ConnectorAdded ChangeKind = iota
	ConnectorRemoved
)

// ConnectorChange is one diffed hotplug event.
type ConnectorChange struct {
	Kind      ChangeKind
	Connector Connector
}

// DiffConnectors compares a new connector snapshot against the previous
// one and reports what was added or removed, keyed by connector ID and
// connection state. A connector present in both snapshots but whose state
// didn't change (StateConnected -> StateConnected) produces no event.
func DiffConnectors(previous, current []Connector) []ConnectorChange {
	prevByID := make(map[uint32]Connector, len(previous))
	for _, c := range previous {
		prevByID[c.ID] = c
	}
	currByID := make(map[uint32]Connector, len(current))
	for _, c := range current {
		currByID[c.ID] = c
	}

	var changes []ConnectorChange
	for id, c := range currByID {
		prev, existed := prevByID[id]
		wasConnected := existed && prev.State == StateConnected
		isConnected := c.State == StateConnected
		switch {
		case isConnected && !wasConnected:
			changes = append(changes, ConnectorChange{Kind: ConnectorAdded, Connector: c})
		case !isConnected && wasConnected:
			changes = append(changes, ConnectorChange{Kind: ConnectorRemoved, Connector: prev})
		}
	}
	for id, prev := range prevByID {
		if _, stillPresent := currByID[id]; !stillPresent && prev.State == StateConnected {
			changes = append(changes, ConnectorChange{Kind: ConnectorRemoved, Connector: prev})
		}
	}
	return changes
}

// UeventMonitor listens on a NETLINK_KOBJECT_UEVENT socket for kernel
// uevents, filtering down to DRM "change" events the same way a udev
// client would, without linking libudev (spec 4.D: "Hotplug delivery
// listens on a NETLINK_KOBJECT_UEVENT socket").
type UeventMonitor struct {
	fd int
}

const (
	netlinkKobjectUevent = 15 // NETLINK_KOBJECT_UEVENT
	ueventGroupsKernel   = 1  // multicast group 1: kernel-originated uevents
)

// OpenUeventMonitor binds a netlink socket subscribed to kernel uevents,
// mirroring gogpu-gogpu/internal/platform/wayland's raw unix.Recvmsg use
// for a structured-datagram socket rather than a wrapping library.
func OpenUeventMonitor() (*UeventMonitor, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW, netlinkKobjectUevent)
	if err != nil {
		return nil, fmt.Errorf("drm: open uevent netlink socket: %w", err)
	}
	addr := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: ueventGroupsKernel}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: bind uevent netlink socket: %w", err)
	}
	return &UeventMonitor{fd: fd}, nil
}

// Close releases the netlink socket.
func (m *UeventMonitor) Close() error {
	return unix.Close(m.fd)
}

// Next blocks until a uevent datagram arrives and reports whether it is a
// DRM "change" event; uevents for other subsystems or actions yield false
// (spec 4.D: "on a udev change event, re-query connector states").
func (m *UeventMonitor) Next() (ok bool, err error) {
	buf := make([]byte, 4096)
	n, _, err := unix.Recvfrom(m.fd, buf, 0)
	if err != nil {
		return false, fmt.Errorf("drm: recvfrom uevent socket: %w", err)
	}
	return ParseUevent(buf[:n]).IsDrmChange(), nil
}

// Uevent is a parsed kernel uevent datagram's key/value fields.
type Uevent struct {
	Action    string
	Subsystem string
}

// ParseUevent decodes a uevent datagram: a NUL-separated sequence of
// "ACTION=change\0SUBSYSTEM=drm\0...". It is a pure function, decoupled
// from the socket read, so the parsing/filtering logic is unit-testable.
func ParseUevent(data []byte) Uevent {
	var u Uevent
	for _, field := range bytes.Split(data, []byte{0}) {
		s := string(field)
		switch {
		case strings.HasPrefix(s, "ACTION="):
			u.Action = strings.TrimPrefix(s, "ACTION=")
		case strings.HasPrefix(s, "SUBSYSTEM="):
			u.Subsystem = strings.TrimPrefix(s, "SUBSYSTEM=")
		}
	}
	return u
}

// IsDrmChange reports whether this uevent is a DRM connector-state change
// worth re-probing connectors for.
func (u Uevent) IsDrmChange() bool {
	return u.Subsystem == "drm" && u.Action == "change"
}

// Watch blocks on m, re-snapshotting d's connectors on every DRM change
// uevent and invoking onChange with the diff against the previous
// snapshot. onChange is responsible for bringing up newly added connectors
// through the startup path and tearing down removed ones (spec 4.D:
// "newly added connectors are brought up through the startup path, removed
// ones trigger tear-down of their DrmSurface and release of their CRTC").
// Watch returns only when m.Next returns an error (the socket closed).
func Watch(m *UeventMonitor, d *gpudevice.DrmDevice, initial []Connector, logger *slog.Logger, onChange func([]ConnectorChange)) error {
	if logger == nil {
		logger = slog.Default()
	}
	previous := initial
	for {
		changed, err := m.Next()
		if err != nil {
			return fmt.Errorf("drm: uevent monitor: %w", err)
		}
		if !changed {
			continue
		}

		current, err := SnapshotConnectors(d)
		if err != nil {
			logger.Warn("hotplug: re-snapshot connectors failed", "err", err)
			continue
		}
		changes := DiffConnectors(previous, current)
		previous = current
		if len(changes) == 0 {
			continue
		}
		logger.Info("hotplug: connector state changed", "changes", len(changes))
		onChange(changes)
	}
}
