package atecc608

import "testing"

// Exhaustive parse-then-pack identity sweep over every 16-bit value.
func TestKeyConfigParsePackIdentity(t *testing.T) {
	for v := 0; v <= 0xFFFF; v++ {
		word := uint16(v)
		got := ParseKeyConfig(word).Pack()
		if got != word {
			t.Fatalf("KeyConfig round-trip broke at %#04x: got %#04x", word, got)
		}
	}
}

func TestKeyConfigTypeFromBits(t *testing.T) {
	if keyConfigTypeFromBits(0b100) != KeyTypeEcc {
		t.Fatalf("0b100 should decode as KeyTypeEcc")
	}
	for _, v := range []uint16{0, 1, 2, 3, 5, 6, 7} {
		if keyConfigTypeFromBits(v) != KeyTypeNotEcc {
			t.Fatalf("%#03b should decode as KeyTypeNotEcc", v)
		}
	}
}

func TestDefaultKeyConfig(t *testing.T) {
	cfg := DefaultKeyConfig()
	if cfg.AsKeyType() != KeyTypeEcc {
		t.Fatalf("DefaultKeyConfig().AsKeyType() = %v, want KeyTypeEcc", cfg.AsKeyType())
	}
	if !cfg.Private || !cfg.PubInfo || !cfg.Lockable {
		t.Fatalf("DefaultKeyConfig() = %+v, want Private, PubInfo, Lockable set", cfg)
	}
}
