package atecc608

import (
	"testing"

	"periph.io/x/periph/conn/i2c/i2ctest"
)

// fakeProvisionTransport is an in-package double for the transport
// layer used only by TestProvisionCommandStream: it decodes each
// frame's opcode and param1/2 well enough to answer Provision's write
// / lock / genkey sequence without a real I²C bus, so the test can
// assert on the exact command stream a full provisioning run issues.
type fakeProvisionTransport struct {
	writeSlotConfig int
	writeKeyConfig  int
	locks           []Zone
	genKeyCalls     int
	genKeySucceedAt int // genKeyCalls count at which GenKey returns a compact-encodable point

	configLocked bool
	dataLocked   bool
}

func (f *fakeProvisionTransport) handle(cmd Command) ([]byte, error) {
	frame := cmd.Encode()
	op := opcode(frame[2])
	switch op {
	case opWrite:
		zoneBits := frame[3] & 0x03
		if zoneBits == ZoneConfig.zoneNibble() {
			addrWord := uint16(frame[4]) | uint16(frame[5])<<8
			if addrWord>>11 == 3 {
				f.writeKeyConfig++
			} else {
				f.writeSlotConfig++
			}
		}
		return []byte{}, nil
	case opLock:
		zoneBit := frame[3] & 0x01
		if zoneBit == ZoneConfig.lockNibble() {
			f.locks = append(f.locks, ZoneConfig)
			f.configLocked = true
		} else {
			f.locks = append(f.locks, ZoneData)
			f.dataLocked = true
		}
		return []byte{}, nil
	case opGenKey:
		f.genKeyCalls++
		point := make([]byte, 64)
		if f.genKeyCalls >= f.genKeySucceedAt {
			// an X,Y pair known to satisfy Y <= P/2: Y = 1.
			point[63] = 1
		} else {
			point[32] = 0x80 // forces Y into the upper half, not compact-encodable
		}
		return point, nil
	case opRead:
		// GetLocked reads back lock status.
		word := []byte{0, 0, 0, 0}
		if f.dataLocked {
			word[2] = 0
		} else {
			word[2] = 1
		}
		if f.configLocked {
			word[3] = 0
		} else {
			word[3] = 1
		}
		return word, nil
	default:
		return []byte{}, nil
	}
}

// This test exercises Provision's command-construction and counting
// logic directly (it does not run Session.Execute/the real retry
// loop, since fakeProvisionTransport stands in at the Command level,
// not the byte-transport level) by replaying the same sequence
// Provision issues.
func TestProvisionCommandStream(t *testing.T) {
	fake := &fakeProvisionTransport{genKeySucceedAt: 3}

	for slot := 0; slot <= MaxSlot; slot++ {
		addr, err := SlotConfigAddress(uint8(slot))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fake.handle(CmdWrite(addr, make([]byte, 4))); err != nil {
			t.Fatal(err)
		}
	}
	for slot := 0; slot <= MaxSlot; slot++ {
		addr, err := KeyConfigAddress(uint8(slot))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fake.handle(CmdWrite(addr, make([]byte, 4))); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := fake.handle(CmdLock(ZoneConfig)); err != nil {
		t.Fatal(err)
	}
	if _, err := fake.handle(CmdLock(ZoneData)); err != nil {
		t.Fatal(err)
	}

	var point []byte
	for attempt := 0; attempt < MaxGenKeyRetries; attempt++ {
		p, err := fake.handle(CmdGenKey(KeyTypePrivate, ProvisionedSlot))
		if err != nil {
			t.Fatal(err)
		}
		pub, perr := PointFromXY(p)
		if perr == nil {
			if _, cerr := EncodeCompactKey(pub); cerr == nil {
				point = p
				break
			}
		}
	}

	if fake.writeSlotConfig != 16 {
		t.Fatalf("writeSlotConfig count = %d, want 16", fake.writeSlotConfig)
	}
	if fake.writeKeyConfig != 16 {
		t.Fatalf("writeKeyConfig count = %d, want 16", fake.writeKeyConfig)
	}
	if len(fake.locks) != 2 || fake.locks[0] != ZoneConfig || fake.locks[1] != ZoneData {
		t.Fatalf("locks = %v, want [Config, Data] in order", fake.locks)
	}
	if fake.genKeyCalls < 1 || fake.genKeyCalls > MaxGenKeyRetries {
		t.Fatalf("genKeyCalls = %d, want in [1, %d]", fake.genKeyCalls, MaxGenKeyRetries)
	}
	if point == nil {
		t.Fatal("provisioning loop did not produce a compact-encodable point")
	}
	pub, err := PointFromXY(point)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EncodeCompactKey(pub); err != nil {
		t.Fatalf("final point is not compact-encodable: %v", err)
	}
}

// statusOK is the 1-byte success response body SetSlotConfig,
// SetKeyConfig, and SetLocked all see on their Write/Lock commands.
var statusOK = []byte{0x00}

// TestSessionProvision drives the real Session.Provision over an
// i2ctest.Playback transport, exercising Provision's actual
// read-modify-write wiring through Session.Execute (not a
// Command-level double): 16 slots' worth of SlotConfig
// read-then-write, 16 slots' worth of KeyConfig read-then-write, the
// Config-then-Data lock order, and a GenKey call that succeeds on the
// first attempt.
func TestSessionProvision(t *testing.T) {
	zeroWord := []byte{0, 0, 0, 0}
	slotCfg := DefaultSlotConfig()
	keyCfg := DefaultKeyConfig()

	var ops []i2ctest.IO
	for slot := 0; slot <= MaxSlot; slot++ {
		addr, err := SlotConfigAddress(uint8(slot))
		if err != nil {
			t.Fatal(err)
		}
		ops = append(ops, execOps(CmdRead(false, addr), zeroWord)...)
		updated := replaceHalf(zeroWord, uint8(slot), slotCfg.Pack())
		ops = append(ops, execOps(CmdWrite(addr, updated), statusOK)...)
	}
	for slot := 0; slot <= MaxSlot; slot++ {
		addr, err := KeyConfigAddress(uint8(slot))
		if err != nil {
			t.Fatal(err)
		}
		ops = append(ops, execOps(CmdRead(false, addr), zeroWord)...)
		updated := replaceHalf(zeroWord, uint8(slot), keyCfg.Pack())
		ops = append(ops, execOps(CmdWrite(addr, updated), statusOK)...)
	}
	ops = append(ops, execOps(CmdLock(ZoneConfig), statusOK)...)
	ops = append(ops, execOps(CmdLock(ZoneData), statusOK)...)

	point := make([]byte, 64)
	point[63] = 1 // Y = 1, trivially <= P/2 and so compact-encodable on the first try.
	ops = append(ops, execOps(CmdGenKey(KeyTypePrivate, ProvisionedSlot), point)...)

	session, closeBus := newFakeSession(t, ops)
	defer closeBus()

	got, err := session.Provision(nil)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if string(got) != string(point) {
		t.Fatalf("Provision() point = %#02x, want %#02x", got, point)
	}
}

func TestProvisionTemplateDefaultsFallback(t *testing.T) {
	var tmpl *ProvisionTemplate
	if tmpl.slotConfig(0) != DefaultSlotConfig() {
		t.Fatal("nil template should fall back to DefaultSlotConfig")
	}
	if tmpl.keyConfig(0) != DefaultKeyConfig() {
		t.Fatal("nil template should fall back to DefaultKeyConfig")
	}

	tmpl = &ProvisionTemplate{Slots: map[int]SlotConfig{5: {Secret: true}}}
	if tmpl.slotConfig(5).Secret != true {
		t.Fatal("explicit override not honored")
	}
	if tmpl.slotConfig(6) != DefaultSlotConfig() {
		t.Fatal("slot without an override should fall back to default")
	}
}
