package link

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned by transports when a bounded read expires.
	ErrTimeout = errors.New("read timeout")
	// ErrUnexpectedByte indicates the peer replied with a wrong byte.
	ErrUnexpectedByte = errors.New("unexpected byte")
	// ErrTooManyCollisions indicates both sides kept asking for the floor.
	ErrTooManyCollisions = errors.New("too many collisions")
)

// Handshake stages.
const (
	StageConfirm    = "confirm"
	StageAck        = "ack"
	StageSecondAck  = "second-ack"
	StageCollisions = "collision"
)

// FramingError is a frame that was truncated or malformed. It never
// changes the session.
type FramingError struct {
	Raw []byte
	Err error
}

// Error implements error.
func (e *FramingError) Error() string {
	return fmt.Sprintf("framing error (% x): %v", e.Raw, e.Err)
}

// Unwrap returns the underlying error.
func (e *FramingError) Unwrap() error {
	return e.Err
}

// HandshakeError is a missing or wrong CONFIRM/ACK while the host holds
// the floor. It aborts the exchange and uninitializes the session.
type HandshakeError struct {
	Stage string
	Want  []byte
	Got   byte
	Err   error
}

// Error implements error.
func (e *HandshakeError) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrUnexpectedByte) {
		return fmt.Sprintf("handshake %s: want % x: %v", e.Stage, e.Want, e.Err)
	}
	return fmt.Sprintf("handshake %s: want % x, got %02x", e.Stage, e.Want, e.Got)
}

// Unwrap returns the underlying error.
func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// IsProtocolError reports whether err is a framing or handshake failure,
// as opposed to a failing transport.
func IsProtocolError(err error) bool {
	var fe *FramingError
	var he *HandshakeError
	return errors.As(err, &fe) || errors.As(err, &he)
}
