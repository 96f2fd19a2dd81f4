// Package wlproto names the contract the compositor core expects from the
// external Wayland/XDG protocol dispatcher. Wire framing and decoding are
// out of scope for this module; the dispatcher decodes requests to typed
// calls and hands the compositor an opaque per-object handle plus
// per-object user data, which is all the types here describe.
package wlproto

import "github.com/waylex/waylex/internal/wire"

// ObjectHandle is the opaque handle the dispatcher assigns to a bound
// protocol object. The compositor core never interprets its value; it
// only uses it as a map key to recover the per-object state it owns.
type ObjectHandle struct {
	Client wire.ObjectID // the dispatcher's per-client connection identifier
	Object wire.ObjectID // the object's ID within that client's table
}

// ClientID identifies one connected Wayland client, independent of any
// particular object it has bound.
type ClientID uint64

// ProtocolErrorCode mirrors the wl_display.error event's code argument.
type ProtocolErrorCode uint32

// Dispatcher is the subset of the external protocol library's surface the
// compositor core calls into: sending events back to a client and
// reporting protocol violations that must disconnect the offending
// client (spec §7, Protocol violation).
type Dispatcher interface {
	// SendEvent queues an event for delivery to the object named by handle.
	// args is already wire-encoded by the caller's codec; this package does
	// not specify its shape.
	SendEvent(handle ObjectHandle, opcode wire.Opcode, args []byte) error

	// ProtocolError reports a client error and requests the dispatcher
	// disconnect the client that produced it.
	ProtocolError(client ClientID, handle ObjectHandle, code ProtocolErrorCode, message string) error

	// FrameDone notifies the client its wl_callback for a presented frame
	// has fired.
	FrameDone(handle ObjectHandle, timestampMS uint32) error
}
