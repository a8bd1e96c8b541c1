package atecc608

// KeyConfigType distinguishes ECC slots from all other slot types.
// Only the "is it ECC" distinction is load-bearing for this
// driver; the datasheet's other non-ECC subtypes are not
// distinguished.
type KeyConfigType int

const (
	KeyTypeEcc KeyConfigType = iota
	KeyTypeNotEcc
)

func keyConfigTypeFromBits(v uint16) KeyConfigType {
	if v == 0b100 {
		return KeyTypeEcc
	}
	return KeyTypeNotEcc
}

// KeyConfig is the 16-bit per-slot key configuration word.
type KeyConfig struct {
	AuthKeySlot      uint8
	IntrusionDisable bool
	Reserved         bool // bit 5, not interpreted by this driver
	X509Index        uint8
	Private          bool
	PubInfo          bool
	KeyType          uint16 // raw 3-bit field; decode with AsKeyType
	Lockable         bool
	ReqRandom        bool
	ReqAuth          bool
}

// ParseKeyConfig unpacks a 16-bit KeyConfig word.
func ParseKeyConfig(word uint16) KeyConfig {
	return KeyConfig{
		AuthKeySlot:      uint8(bitRange16(word, 3, 0)),
		IntrusionDisable: bit16(word, 4),
		Reserved:         bit16(word, 5),
		X509Index:        uint8(bitRange16(word, 7, 6)),
		Private:          bit16(word, 8),
		PubInfo:          bit16(word, 9),
		KeyType:          bitRange16(word, 12, 10),
		Lockable:         bit16(word, 13),
		ReqRandom:        bit16(word, 14),
		ReqAuth:          bit16(word, 15),
	}
}

// Pack re-serializes a KeyConfig into its 16-bit wire form. Parsing
// then packing is the identity for every value in 0..65535.
func (k KeyConfig) Pack() uint16 {
	var word uint16
	word = setBitRange16(word, 3, 0, uint16(k.AuthKeySlot)&0xf)
	word = setBit16(word, 4, k.IntrusionDisable)
	word = setBit16(word, 5, k.Reserved)
	word = setBitRange16(word, 7, 6, uint16(k.X509Index)&0x3)
	word = setBit16(word, 8, k.Private)
	word = setBit16(word, 9, k.PubInfo)
	word = setBitRange16(word, 12, 10, k.KeyType&0x7)
	word = setBit16(word, 13, k.Lockable)
	word = setBit16(word, 14, k.ReqRandom)
	word = setBit16(word, 15, k.ReqAuth)
	return word
}

// AsKeyType decodes KeyType under the "is it ECC" distinction this
// driver cares about.
func (k KeyConfig) AsKeyType() KeyConfigType { return keyConfigTypeFromBits(k.KeyType) }

// DefaultKeyConfig returns the provisioning default: an ECC
// slot holding a lockable private key with its public part readable.
func DefaultKeyConfig() KeyConfig {
	return KeyConfig{
		KeyType:  0b100,
		Private:  true,
		PubInfo:  true,
		Lockable: true,
	}
}
