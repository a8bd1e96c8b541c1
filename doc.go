// armoryctl | https://github.com/f-secure-foundry/armoryctl
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package atecc608 implements a host-side driver and provisioning library
// for the Microchip ATECC608A/ATECC608B secure element over Linux I²C.
//
// It covers the command framer and response parser (CRC-16, status
// decoding, wake/sleep micro-protocol), the address encoding for the
// chip's Config/Data/OTP zones, the SlotConfig/KeyConfig/WriteConfig
// bitfields, and the key-lifecycle operations (GenKey, Sign, ECDH,
// provisioning) built on top of them.
//
// Links:
//
//	http://ww1.microchip.com/downloads/en/DeviceDoc/ATECC608A-CryptoAuthentication-Device-Summary-Data-Sheet-DS40001977B.pdf
package atecc608
