package drm

import "github.com/waylex/waylex/internal/gpudevice"

// ConnectionState mirrors the three states spec 3's Connector attribute
// list names.
type ConnectionState int

const (
	StateUnknown ConnectionState = iota
	StateConnected
	StateDisconnected
)

// Connector is a physical output port (spec 3, Connector).
type Connector struct {
	ID               uint32
	InterfaceType    uint32
	InterfaceTypeID  uint32
	State            ConnectionState
	EncoderID        uint32
	PhysicalWidthMM  uint32
	PhysicalHeightMM uint32
}

func stateFromInfo(info gpudevice.ConnectorInfo) ConnectionState {
	if info.Connected {
		return StateConnected
	}
	return StateDisconnected
}

// connectorFromInfo adapts the device-level connector snapshot into this
// package's richer Connector value.
func connectorFromInfo(info gpudevice.ConnectorInfo) Connector {
	return Connector{
		ID:               info.ID,
		InterfaceType:    info.Type,
		InterfaceTypeID:  info.TypeID,
		State:            stateFromInfo(info),
		EncoderID:        info.EncoderID,
		PhysicalWidthMM:  info.PhysicalWidthMM,
		PhysicalHeightMM: info.PhysicalHeightMM,
	}
}

// SnapshotConnectors reads the current connector state directly from the
// device, used both at startup and after a hotplug event.
func SnapshotConnectors(d *gpudevice.DrmDevice) ([]Connector, error) {
	infos, err := gpudevice.Connectors(d)
	if err != nil {
		return nil, err
	}
	out := make([]Connector, len(infos))
	for i, info := range infos {
		out[i] = connectorFromInfo(info)
	}
	return out, nil
}

// Connected filters a connector snapshot down to connectors currently
// reporting State == StateConnected, per spec 4.D's startup step "keep
// only those in state Connected".
func Connected(conns []Connector) []Connector {
	var out []Connector
	for _, c := range conns {
		if c.State == StateConnected {
			out = append(out, c)
		}
	}
	return out
}
