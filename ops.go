package atecc608

import "fmt"

// Info returns the 4 bytes identifying the chip.
func (s *Session) Info() ([]byte, error) {
	return s.Execute(CmdInfo())
}

// Serial returns the 9-byte chip serial number: the first 4 and bytes
// [8:13) of the first 32-byte word of Config zone block 0. The
// first two bytes are always 0x01, 0x23 and byte 8 is always 0xEE.
func (s *Session) Serial() ([]byte, error) {
	addr, err := NewConfigAddress(0, 0)
	if err != nil {
		return nil, err
	}
	word, err := s.Read(true, addr)
	if err != nil {
		return nil, err
	}
	if len(word) < 13 {
		return nil, fmt.Errorf("atecc608: short config word reading serial: %d bytes", len(word))
	}
	serial := make([]byte, 0, 9)
	serial = append(serial, word[0:4]...)
	serial = append(serial, word[8:13]...)
	return serial, nil
}

// Read issues a Read command, returning 4 or 32 bytes depending on
// is32.
func (s *Session) Read(is32 bool, address Address) ([]byte, error) {
	return s.Execute(CmdRead(is32, address))
}

// Write issues a Write command. data must be 4 or 32 bytes; the
// framer selects the matching wire encoding.
func (s *Session) Write(address Address, data []byte) error {
	if len(data) != 4 && len(data) != 32 {
		return fmt.Errorf("atecc608: write payload must be 4 or 32 bytes, got %d", len(data))
	}
	_, err := s.Execute(CmdWrite(address, data))
	return err
}

// GetSlotConfig reads the half of the shared 4-byte config word that
// belongs to slot and unpacks it.
func (s *Session) GetSlotConfig(slot uint8) (SlotConfig, error) {
	addr, err := SlotConfigAddress(slot)
	if err != nil {
		return SlotConfig{}, err
	}
	word, err := s.Read(false, addr)
	if err != nil {
		return SlotConfig{}, err
	}
	return ParseSlotConfig(pickHalf(word, slot)), nil
}

// SetSlotConfig packs cfg and writes it into the half of the shared
// 4-byte config word that belongs to slot, preserving the other half
// (read-modify-write, invariants).
func (s *Session) SetSlotConfig(slot uint8, cfg SlotConfig) error {
	addr, err := SlotConfigAddress(slot)
	if err != nil {
		return err
	}
	current, err := s.Read(false, addr)
	if err != nil {
		return err
	}
	updated := replaceHalf(current, slot, cfg.Pack())
	return s.Write(addr, updated)
}

// GetKeyConfig reads and unpacks the half of the shared 4-byte config
// word that belongs to slot.
func (s *Session) GetKeyConfig(slot uint8) (KeyConfig, error) {
	addr, err := KeyConfigAddress(slot)
	if err != nil {
		return KeyConfig{}, err
	}
	word, err := s.Read(false, addr)
	if err != nil {
		return KeyConfig{}, err
	}
	return ParseKeyConfig(pickHalf(word, slot)), nil
}

// SetKeyConfig packs cfg and writes it into the half of the shared
// 4-byte config word that belongs to slot, preserving the other half.
func (s *Session) SetKeyConfig(slot uint8, cfg KeyConfig) error {
	addr, err := KeyConfigAddress(slot)
	if err != nil {
		return err
	}
	current, err := s.Read(false, addr)
	if err != nil {
		return err
	}
	updated := replaceHalf(current, slot, cfg.Pack())
	return s.Write(addr, updated)
}

// pickHalf returns the 2-byte half of a 4-byte config word belonging
// to slot as a 16-bit big-endian value: even slots take the low half,
// odd slots the high half.
func pickHalf(word []byte, slot uint8) uint16 {
	if configHalf(slot) {
		return uint16(word[0])<<8 | uint16(word[1])
	}
	return uint16(word[2])<<8 | uint16(word[3])
}

// replaceHalf rewrites the half of a 4-byte config word belonging to
// slot with value, leaving the other half untouched.
func replaceHalf(word []byte, slot uint8, value uint16) []byte {
	out := append([]byte(nil), word...)
	hi, lo := byte(value>>8), byte(value)
	if configHalf(slot) {
		out[0], out[1] = hi, lo
	} else {
		out[2], out[3] = hi, lo
	}
	return out
}

// GetLocked reports whether zone (Config or Data) has been locked.
// Lock is a one-way latch; once true it stays true.
func (s *Session) GetLocked(zone Zone) (bool, error) {
	addr, err := LockStatusAddress()
	if err != nil {
		return false, err
	}
	word, err := s.Read(false, addr)
	if err != nil {
		return false, err
	}
	if len(word) < 4 {
		return false, fmt.Errorf("atecc608: short config word reading lock status: %d bytes", len(word))
	}
	switch zone {
	case ZoneData:
		return word[2] == 0, nil
	case ZoneConfig:
		return word[3] == 0, nil
	default:
		return false, fmt.Errorf("atecc608: zone %d has no lock state", zone)
	}
}

// SetLocked locks zone (Config or Data). This is irreversible.
func (s *Session) SetLocked(zone Zone) error {
	_, err := s.Execute(CmdLock(zone))
	return err
}

// GenKey executes GenKey for slot. KeyTypePublic returns the slot's
// current public point (64 bytes X||Y, no SEC1 tag); KeyTypePrivate
// generates a fresh key pair in the slot and returns the new public
// point.
func (s *Session) GenKey(keyType KeyType, slot uint8) ([]byte, error) {
	return s.Execute(CmdGenKey(keyType, slot))
}

// Nonce loads the chip's pass-through buffer. data must be 32 or 64
// bytes.
func (s *Session) Nonce(target DataBuffer, data []byte) error {
	if len(data) != 32 && len(data) != 64 {
		return fmt.Errorf("atecc608: nonce data must be 32 or 64 bytes, got %d", len(data))
	}
	_, err := s.Execute(CmdNonce(target, data))
	return err
}

// Sign loads digest32 into the message digest buffer and signs it
// with keySlot's private key, returning the 64-byte (r,s) signature.
func (s *Session) Sign(keySlot uint8, digest32 []byte) ([]byte, error) {
	if len(digest32) != 32 {
		return nil, fmt.Errorf("atecc608: digest must be 32 bytes, got %d", len(digest32))
	}
	if err := s.Nonce(MessageDigest, digest32); err != nil {
		return nil, err
	}
	return s.Execute(CmdSign(MessageDigest, keySlot))
}
