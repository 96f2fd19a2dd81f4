package drm

import "testing"

func TestDiffConnectorsReportsNewlyConnected(t *testing.T) {
	previous := []Connector{{ID: 1, State: StateDisconnected}}
	current := []Connector{{ID: 1, State: StateConnected}}

	changes := DiffConnectors(previous, current)
	if len(changes) != 1 || changes[0].Kind != ConnectorAdded || changes[0].Connector.ID != 1 {
		t.Fatalf("changes = %+v, want one Added for connector 1", changes)
	}
}

func TestDiffConnectorsReportsDisconnected(t *testing.T) {
	previous := []Connector{{ID: 1, State: StateConnected}}
	current := []Connector{{ID: 1, State: StateDisconnected}}

	changes := DiffConnectors(previous, current)
	if len(changes) != 1 || changes[0].Kind != ConnectorRemoved || changes[0].Connector.ID != 1 {
		t.Fatalf("changes = %+v, want one Removed for connector 1", changes)
	}
}

func TestDiffConnectorsReportsConnectorThatDisappearedEntirely(t *testing.T) {
	previous := []Connector{{ID: 1, State: StateConnected}}
	current := []Connector{}

	changes := DiffConnectors(previous, current)
	if len(changes) != 1 || changes[0].Kind != ConnectorRemoved {
		t.Fatalf("changes = %+v, want one Removed", changes)
	}
}

func TestDiffConnectorsIgnoresUnchangedState(t *testing.T) {
	previous := []Connector{{ID: 1, State: StateConnected}}
	current := []Connector{{ID: 1, State: StateConnected}}

	if changes := DiffConnectors(previous, current); len(changes) != 0 {
		t.Fatalf("changes = %+v, want none for an unchanged connector", changes)
	}
}

func TestDiffConnectorsIgnoresNeverConnectedDisappearing(t *testing.T) {
	previous := []Connector{{ID: 1, State: StateDisconnected}}
	current := []Connector{}

	if changes := DiffConnectors(previous, current); len(changes) != 0 {
		t.Fatalf("changes = %+v, want none for a connector that was never connected", changes)
	}
}

func TestParseUeventExtractsActionAndSubsystem(t *testing.T) {
	data := []byte("change@/devices/pci0000:00\x00ACTION=change\x00SUBSYSTEM=drm\x00DEVNAME=card0\x00")
	u := ParseUevent(data)
	if !u.IsDrmChange() {
		t.Fatalf("ParseUevent(%q) = %+v, want IsDrmChange() true", data, u)
	}
}

func TestParseUeventIgnoresNonDrmSubsystem(t *testing.T) {
	data := []byte("ACTION=change\x00SUBSYSTEM=usb\x00")
	if ParseUevent(data).IsDrmChange() {
		t.Fatal("a usb subsystem uevent should not be treated as a DRM change")
	}
}
