package gpudevice

import (
	"encoding/binary"
	"testing"
)

func buildVblankEvent(typ uint32, userData uint64, seq, crtcID uint32) []byte {
	length := drmEventHeaderSize + drmEventVblankPayloadSize
	buf := make([]byte, length)
	binary.LittleEndian.PutUint32(buf[0:4], typ)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(length))
	binary.LittleEndian.PutUint64(buf[8:16], userData)
	binary.LittleEndian.PutUint32(buf[24:28], seq)
	binary.LittleEndian.PutUint32(buf[28:32], crtcID)
	return buf
}

func TestParsePageFlipEventsSingleFlipComplete(t *testing.T) {
	buf := buildVblankEvent(drmEventFlipCompleteType, 0xdeadbeef, 42, 7)
	events, err := ParsePageFlipEvents(buf)
	if err != nil {
		t.Fatalf("ParsePageFlipEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	e := events[0]
	if e.Vblank || e.UserData != 0xdeadbeef || e.SequenceNum != 42 || e.CrtcID != 7 {
		t.Fatalf("event = %+v, unexpected fields", e)
	}
}

func TestParsePageFlipEventsMultipleBackToBack(t *testing.T) {
	buf := append(buildVblankEvent(drmEventFlipCompleteType, 1, 1, 1), buildVblankEvent(drmEventVblankType, 2, 2, 2)...)
	events, err := ParsePageFlipEvents(buf)
	if err != nil {
		t.Fatalf("ParsePageFlipEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Vblank || !events[1].Vblank {
		t.Fatalf("events = %+v, want [flip-complete, vblank]", events)
	}
}

func TestParsePageFlipEventsTruncatedHeaderErrors(t *testing.T) {
	_, err := ParsePageFlipEvents([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected an error for a truncated header")
	}
}

func TestParsePageFlipEventsBogusLengthErrors(t *testing.T) {
	buf := buildVblankEvent(drmEventFlipCompleteType, 0, 0, 0)
	binary.LittleEndian.PutUint32(buf[4:8], 1_000_000)
	_, err := ParsePageFlipEvents(buf)
	if err == nil {
		t.Fatal("expected an error for an out-of-bounds event length")
	}
}
