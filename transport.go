package atecc608

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/i2c"
)

// recvLenRetries is R₁: the total number of attempts to read the
// response length byte before giving up.
const recvLenRetries = 2

// recvRetryWait is the spacing between length-byte read attempts.
const recvRetryWait = 50 * time.Millisecond

// notReadyByte is the length-byte value (0xFF) the chip returns while
// it is still executing a command.
const notReadyByte = 0xFF

// Transport is the byte-level I²C surface the session layer builds
// on. It only ever calls i2c.Bus.Tx, the one primitive this driver
// needs from the Linux I²C character device; opening /dev/i2c-N,
// ioctls, and bus discovery are left entirely to the caller via
// periph.io/x/periph/conn/i2c/i2creg and periph.io/x/periph/host.
type Transport struct {
	dev i2c.Dev
}

// NewTransport wraps bus as a Transport addressing the chip at addr
// (default 0x60).
func NewTransport(bus i2c.Bus, addr uint16) *Transport {
	return &Transport{dev: i2c.Dev{Bus: bus, Addr: addr}}
}

// Send issues a single I²C write transfer of frame.
func (t *Transport) Send(frame []byte) error {
	if err := t.dev.Tx(frame, nil); err != nil {
		return &IoError{Op: "send", Err: err}
	}
	return nil
}

// Recv reads one response frame: first the length byte L, making up
// to recvLenRetries attempts with recvRetryWait spacing on transfer
// failure; L == 0xFF means the device is not ready yet and surfaces
// ErrTimeout. It then reads the remaining L-1 bytes as a second
// transfer so the rest of the frame is read contiguously.
func (t *Transport) Recv() ([]byte, error) {
	length := []byte{0}
	var lastErr error
	for attempt := 0; attempt < recvLenRetries; attempt++ {
		if err := t.dev.Tx(nil, length); err != nil {
			lastErr = err
			time.Sleep(recvRetryWait)
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, &IoError{Op: "recv length", Err: lastErr}
	}
	if length[0] == notReadyByte {
		return nil, ErrTimeout
	}

	rest := make([]byte, int(length[0])-1)
	if len(rest) > 0 {
		if err := t.dev.Tx(nil, rest); err != nil {
			return nil, &IoError{Op: "recv body", Err: err}
		}
	}

	frame := make([]byte, 0, len(rest)+1)
	frame = append(frame, length[0])
	frame = append(frame, rest...)
	return frame, nil
}

// Wake issues a device wake-up. Callers must sleep at least 1500µs
// (wakeDelay) before the next transfer.
func (t *Transport) Wake() error {
	if err := t.dev.Tx([]byte{0x00}, nil); err != nil {
		return &IoError{Op: "wake", Err: err}
	}
	return nil
}

// Sleep puts the device into low-power sleep mode.
func (t *Transport) Sleep() error {
	if err := t.dev.Tx([]byte{0x01}, nil); err != nil {
		return &IoError{Op: "sleep", Err: err}
	}
	return nil
}

// wakeDelay is the minimum time to wait after Wake before the next
// transfer.
const wakeDelay = 1500 * time.Microsecond

// String implements fmt.Stringer for diagnostics.
func (t *Transport) String() string {
	return fmt.Sprintf("atecc608.Transport(%s)", t.dev.String())
}
