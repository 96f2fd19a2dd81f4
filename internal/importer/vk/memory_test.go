package vk

import (
	"errors"
	"testing"

	"github.com/waylex/waylex/internal/importer"
)

func TestFindMemoryTypeLowestMatchingBit(t *testing.T) {
	idx, err := FindMemoryType(0b1010, 0b1100)
	if err != nil {
		t.Fatalf("FindMemoryType() error = %v", err)
	}
	if idx != 3 {
		t.Fatalf("idx = %d, want 3 (bit 3 is the lowest set in both masks)", idx)
	}
}

func TestFindMemoryTypeNoMatch(t *testing.T) {
	_, err := FindMemoryType(0b0001, 0b0010)
	if !errors.Is(err, importer.ErrNoValidMemoryType) {
		t.Fatalf("FindMemoryType() error = %v, want ErrNoValidMemoryType", err)
	}
}

func TestFindMemoryTypeMissingQueryAcceptsAllOnes(t *testing.T) {
	idx, err := FindMemoryTypeMissingQuery(0b0100)
	if err != nil {
		t.Fatalf("FindMemoryTypeMissingQuery() error = %v", err)
	}
	if idx != 2 {
		t.Fatalf("idx = %d, want 2", idx)
	}
}
