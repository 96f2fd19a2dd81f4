package vk

import (
	"testing"

	"github.com/waylex/waylex/internal/importer"
)

func TestQueryCapabilitiesCrossProduct(t *testing.T) {
	query := func(f importer.Fourcc) []importer.Modifier {
		return []importer.Modifier{0x1, 0x2}
	}
	caps := QueryCapabilities(query)
	if len(caps) != len(acceptedFourccs)*2 {
		t.Fatalf("len(caps) = %d, want %d", len(caps), len(acceptedFourccs)*2)
	}
}

func TestQueryCapabilitiesFallsBackToLinear(t *testing.T) {
	query := func(f importer.Fourcc) []importer.Modifier { return nil }
	caps := QueryCapabilities(query)
	if len(caps) != len(acceptedFourccs) {
		t.Fatalf("len(caps) = %d, want %d", len(caps), len(acceptedFourccs))
	}
	for _, c := range caps {
		if c.Modifier != importer.ModifierLinear {
			t.Errorf("capability %+v, want ModifierLinear fallback", c)
		}
	}
}
