package atecc608

import "fmt"

// MaxGenKeyRetries bounds the retry loop in Provision's final step:
// the device's ECC generation can emit points that fail the
// y-compressibility invariant required by the compact encoding, at a
// retry probability of roughly 1/2 per draw.
const MaxGenKeyRetries = 5

// ProvisionedSlot is the 0..15 Data-zone slot Provision generates the
// chip's private key into.
const ProvisionedSlot = 0

// ProvisionTemplate overrides the default SlotConfig/KeyConfig used by
// Provision on a per-slot basis. A nil template means "use
// DefaultSlotConfig/DefaultKeyConfig for every slot".
type ProvisionTemplate struct {
	Slots map[int]SlotConfig
	Keys  map[int]KeyConfig
}

func (t *ProvisionTemplate) slotConfig(slot int) SlotConfig {
	if t != nil {
		if cfg, ok := t.Slots[slot]; ok {
			return cfg
		}
	}
	return DefaultSlotConfig()
}

func (t *ProvisionTemplate) keyConfig(slot int) KeyConfig {
	if t != nil {
		if cfg, ok := t.Keys[slot]; ok {
			return cfg
		}
	}
	return DefaultKeyConfig()
}

// Provision runs the one-time setup sequence:
//
//  1. write a SlotConfig and KeyConfig (from tmpl, or the
//     defaults) into every slot 0..15;
//  2. lock the Config zone, then the Data zone;
//  3. generate a private key into ProvisionedSlot, retrying up to
//     MaxGenKeyRetries times until the returned point is
//     compact-encodable.
//
// Locking is irreversible; Provision must not be called on a chip
// whose zones are already locked with a different configuration.
func (s *Session) Provision(tmpl *ProvisionTemplate) ([]byte, error) {
	for slot := 0; slot <= MaxSlot; slot++ {
		if err := s.SetSlotConfig(uint8(slot), tmpl.slotConfig(slot)); err != nil {
			return nil, fmt.Errorf("atecc608: provision slot_config(%d): %w", slot, err)
		}
	}
	for slot := 0; slot <= MaxSlot; slot++ {
		if err := s.SetKeyConfig(uint8(slot), tmpl.keyConfig(slot)); err != nil {
			return nil, fmt.Errorf("atecc608: provision key_config(%d): %w", slot, err)
		}
	}

	if err := s.SetLocked(ZoneConfig); err != nil {
		return nil, fmt.Errorf("atecc608: lock config zone: %w", err)
	}
	if err := s.SetLocked(ZoneData); err != nil {
		return nil, fmt.Errorf("atecc608: lock data zone: %w", err)
	}

	var point []byte
	var err error
	for attempt := 0; attempt < MaxGenKeyRetries; attempt++ {
		point, err = s.GenKey(KeyTypePrivate, ProvisionedSlot)
		if err != nil {
			return nil, fmt.Errorf("atecc608: genkey(private, %d): %w", ProvisionedSlot, err)
		}
		pub, perr := PointFromXY(point)
		if perr == nil {
			if _, cerr := EncodeCompactKey(pub); cerr == nil {
				return point, nil
			}
		}
	}
	return nil, fmt.Errorf("atecc608: slot %d did not yield a compact-encodable key after %d attempts", ProvisionedSlot, MaxGenKeyRetries)
}
