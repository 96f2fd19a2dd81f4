package gpudevice

import (
	"encoding/binary"
	"testing"
)

func TestModeResolutionDecodesHAndVDisplay(t *testing.T) {
	var mode [68]byte
	binary.LittleEndian.PutUint16(mode[4:6], 1920)
	binary.LittleEndian.PutUint16(mode[14:16], 1080)

	w, h := ModeResolution(mode)
	if w != 1920 || h != 1080 {
		t.Fatalf("ModeResolution() = (%d, %d), want (1920, 1080)", w, h)
	}
}
