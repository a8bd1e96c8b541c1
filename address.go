package atecc608

// Zone identifies one of the three EEPROM partitions of the chip.
type Zone int

const (
	ZoneConfig Zone = iota
	ZoneData
	ZoneOTP
)

func (z Zone) String() string {
	switch z {
	case ZoneConfig:
		return "Config"
	case ZoneData:
		return "Data"
	case ZoneOTP:
		return "OTP"
	default:
		return "Unknown"
	}
}

// zoneNibble returns the 2-bit zone encoding used in Read/Write param1:
// Config=0x00, OTP=0x01, Data=0x02.
func (z Zone) zoneNibble() byte {
	switch z {
	case ZoneConfig:
		return 0x00
	case ZoneOTP:
		return 0x01
	case ZoneData:
		return 0x02
	default:
		panic("atecc608: invalid zone")
	}
}

// lockNibble returns the 1-bit zone encoding Lock uses:
// Config=0, Data=1. OTP has no lock state of its own.
func (z Zone) lockNibble() byte {
	switch z {
	case ZoneConfig:
		return 0x00
	case ZoneData:
		return 0x01
	default:
		panic("atecc608: zone has no lock encoding")
	}
}

// DataBuffer identifies the chip's internal pass-through target for
// Nonce/Sign.
type DataBuffer int

const (
	TempKey DataBuffer = iota
	MessageDigest
	AlternateKey
)

func (d DataBuffer) byte2() byte {
	return byte(d) & 0x03
}

// Address is implemented by OffsetAddress (Config, OTP) and DataAddress
// (Data); both encode to the 16-bit word consumed by Read/Write/config
// commands.
type Address interface {
	// Zone reports which EEPROM partition this address targets.
	Zone() Zone
	// Word returns the 16-bit address value placed in PARAM2.
	Word() uint16
}

// OffsetAddress addresses the Config or OTP zones: bits [12:11]=block
// (0..4), bits [10:8]=offset (0..7).
type OffsetAddress struct {
	zone   Zone
	block  uint8
	offset uint8
}

// NewConfigAddress constructs an Address into the Config zone.
func NewConfigAddress(block, offset uint8) (*OffsetAddress, error) {
	return newOffsetAddress(ZoneConfig, block, offset)
}

// NewOTPAddress constructs an Address into the OTP zone.
//
// The block/offset limits are copied from Config's (block<=4,
// offset<=7): no OTP write path in this module exercises values
// outside that range, but an implementer adding OTP writes should
// re-derive the true OTP limits from the datasheet rather than assume
// this check is authoritative for OTP.
func NewOTPAddress(block, offset uint8) (*OffsetAddress, error) {
	return newOffsetAddress(ZoneOTP, block, offset)
}

func newOffsetAddress(zone Zone, block, offset uint8) (*OffsetAddress, error) {
	if block > 4 || offset > 7 {
		return nil, ErrInvalidAddress
	}
	return &OffsetAddress{zone: zone, block: block, offset: offset}, nil
}

func (a *OffsetAddress) Zone() Zone { return a.zone }

func (a *OffsetAddress) Block() uint8 { return a.block }

func (a *OffsetAddress) Offset() uint8 { return a.offset }

func (a *OffsetAddress) Word() uint16 {
	return uint16(a.offset&0x07)<<8 | uint16(a.block&0x03)<<11
}

// DataAddress addresses the Data zone: bits [14:11]=slot (0..15), bits
// [10:8]=offset, bits [3:0]=block. The valid block range depends on
// the slot.
type DataAddress struct {
	slot   uint8
	block  uint8
	offset uint8
}

// NewDataAddress constructs an Address into the Data zone, rejecting
// (slot, block) combinations the datasheet does not allow:
// slots 0..7 ⇒ block ∈ {0,1}; slot 8 ⇒ block ∈ 0..15; slots 9..15 ⇒
// block ∈ 0..7.
func NewDataAddress(slot, block, offset uint8) (*DataAddress, error) {
	if slot > 15 {
		return nil, ErrInvalidAddress
	}
	switch {
	case slot < 8 && block > 1:
		return nil, ErrInvalidAddress
	case slot == 8 && block > 15:
		return nil, ErrInvalidAddress
	case slot > 8 && block > 7:
		return nil, ErrInvalidAddress
	}
	return &DataAddress{slot: slot, block: block, offset: offset}, nil
}

func (a *DataAddress) Zone() Zone { return ZoneData }

func (a *DataAddress) Slot() uint8 { return a.slot }

func (a *DataAddress) Block() uint8 { return a.block }

func (a *DataAddress) Offset() uint8 { return a.offset }

func (a *DataAddress) Word() uint16 {
	return uint16(a.block&0x0f) | uint16(a.offset&0x07)<<8 | uint16(a.slot&0x0f)<<11
}

// MaxSlot is the highest valid slot index (16 slots, 0..15).
const MaxSlot = 15

// SlotConfigAddress returns the Config-zone address of the 4-byte word
// holding the packed SlotConfig pair for slot. Use
// SlotConfigHalf to determine which 2-byte half of that word belongs
// to slot.
func SlotConfigAddress(slot uint8) (*OffsetAddress, error) {
	if slot > MaxSlot {
		return nil, ErrInvalidAddress
	}
	var block, offset uint8
	if slot <= 5 {
		block, offset = 0, (20+slot*2)>>2
	} else {
		block, offset = 1, ((slot-5)*2)>>2
	}
	return NewConfigAddress(block, offset)
}

// KeyConfigAddress returns the Config-zone address of the 4-byte word
// holding the packed KeyConfig pair for slot.
func KeyConfigAddress(slot uint8) (*OffsetAddress, error) {
	if slot > MaxSlot {
		return nil, ErrInvalidAddress
	}
	return NewConfigAddress(3, (slot*2)>>2)
}

// LockStatusAddress returns the Config-zone address of the 4-byte word
// whose byte[2]/byte[3] report Data/Config lock state.
func LockStatusAddress() (*OffsetAddress, error) {
	return NewConfigAddress(2, 5)
}

// configHalf reports whether slot's packed value lives in the low (lo
// == true) or high half of the shared 4-byte config word: even slots
// take the low half, odd slots the high half.
func configHalf(slot uint8) (lo bool) {
	return slot&1 == 0
}
