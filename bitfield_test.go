package atecc608

import "testing"

func TestBitRange16RoundTrip(t *testing.T) {
	var word uint16
	word = setBitRange16(word, 11, 8, 0xA)
	word = setBitRange16(word, 7, 4, 0x5)
	word = setBitRange16(word, 3, 0, 0xF)
	if bitRange16(word, 11, 8) != 0xA {
		t.Fatalf("bits[11:8] = %#x, want 0xa", bitRange16(word, 11, 8))
	}
	if bitRange16(word, 7, 4) != 0x5 {
		t.Fatalf("bits[7:4] = %#x, want 0x5", bitRange16(word, 7, 4))
	}
	if bitRange16(word, 3, 0) != 0xF {
		t.Fatalf("bits[3:0] = %#x, want 0xf", bitRange16(word, 3, 0))
	}
}

func TestSetBitRange16Masking(t *testing.T) {
	word := setBitRange16(0xFFFF, 7, 4, 0x0)
	if word != 0xFF0F {
		t.Fatalf("word = %#04x, want 0xff0f", word)
	}
}

func TestBit16(t *testing.T) {
	word := setBit16(0, 15, true)
	if !bit16(word, 15) {
		t.Fatalf("bit 15 not set")
	}
	word = setBit16(word, 15, false)
	if bit16(word, 15) {
		t.Fatalf("bit 15 should be clear")
	}
}

func TestBitRange8(t *testing.T) {
	if bitRange8(0b10110000, 7, 4) != 0b1011 {
		t.Fatalf("bitRange8 = %#02b, want 0b1011", bitRange8(0b10110000, 7, 4))
	}
}
