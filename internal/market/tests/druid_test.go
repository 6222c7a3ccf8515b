package market

import (
	"strings"
	"testing"

	"github.com/AIBlockOfficial/valence-market/internal/market"
)

const druidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TestNewDruidFormat verifies the token is 16 alphanumeric characters
func TestNewDruidFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		druid := market.NewDruid()

		if len(druid) != 16 {
			t.Fatalf("Expected druid length 16, got %d (%q)", len(druid), druid)
		}
		for _, c := range druid {
			if !strings.ContainsRune(druidAlphabet, c) {
				t.Fatalf("Druid %q contains invalid character %q", druid, c)
			}
		}
	}
}

// TestNewDruidVariation is a sanity check that tokens are not constant
func TestNewDruidVariation(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[market.NewDruid()] = true
	}
	if len(seen) < 2 {
		t.Error("Expected generated druids to vary")
	}
}
