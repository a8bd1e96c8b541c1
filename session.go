package atecc608

import "time"

// DefaultAttempts is the default command retry budget N.
const DefaultAttempts = 10

// Session is the single entry point for executing ATECC608 commands:
// a retry loop around wake → send → wait → receive → sleep. Session
// is not reentrant or safe for concurrent use — a session's commands
// observe strict sequential causality, and a multi-threaded caller
// must serialize externally (e.g. with a mutex), mirroring's
// resource model. Prefer a value-typed Session owned by the caller
// over a process-global singleton.
type Session struct {
	Transport *Transport
	Logger    Logger
	// Attempts overrides DefaultAttempts when non-zero.
	Attempts int
}

// NewSession constructs a Session over transport with the default
// attempt budget and logger.
func NewSession(transport *Transport) *Session {
	return &Session{Transport: transport, Logger: DefaultLogger, Attempts: DefaultAttempts}
}

func (s *Session) attempts() int {
	if s.Attempts > 0 {
		return s.Attempts
	}
	return DefaultAttempts
}

func (s *Session) logger() Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return nopLogger{}
}

// Execute runs cmd to completion per:
//
//  1. serialize the command;
//  2. wake, sleep wakeDelay;
//  3. send the frame, sleep the command's execution duration, receive
//     the response;
//  4. on transport failure, move to the next attempt with no
//     additional sleep (beyond Recv's own internal retry spacing);
//  5. on a parsed response: a Data response sleeps the device and
//     returns; a CrcError is returned immediately, never retried; a
//     recoverable EccError retries if attempts remain, otherwise it is
//     returned; a non-recoverable EccError (ParseError, ExecError) is
//     returned immediately.
//  6. ErrTimeout once all attempts are exhausted without a return.
//
// On every error path other than a successful Data response, the
// chip is left awake — the next command's Wake is still issued before
// it, so this wastes power but is otherwise benign.
func (s *Session) Execute(cmd Command) ([]byte, error) {
	frame := cmd.Encode()
	n := s.attempts()
	log := s.logger()

	for attempt := 0; attempt < n; attempt++ {
		if err := s.Transport.Wake(); err != nil {
			log.Printf("atecc608: wake failed on attempt %d: %v", attempt, err)
		}
		time.Sleep(wakeDelay)

		if err := s.Transport.Send(frame); err != nil {
			log.Printf("atecc608: send failed on attempt %d: %v", attempt, err)
			continue
		}
		time.Sleep(cmd.Duration())

		buf, err := s.Transport.Recv()
		if err != nil {
			log.Printf("atecc608: recv failed on attempt %d: %v", attempt, err)
			continue
		}

		resp, err := ParseResponse(buf)
		if err != nil {
			if crcErr, ok := err.(*CrcError); ok {
				return nil, crcErr
			}
			log.Printf("atecc608: malformed response on attempt %d: %v", attempt, err)
			continue
		}

		if resp.Err == nil {
			if err := s.Transport.Sleep(); err != nil {
				log.Printf("atecc608: sleep failed: %v", err)
			}
			return resp.Data, nil
		}

		if resp.Err.Recoverable() && attempt < n-1 {
			log.Printf("atecc608: recoverable error on attempt %d: %v", attempt, resp.Err)
			continue
		}
		return nil, resp.Err
	}
	return nil, ErrTimeout
}
