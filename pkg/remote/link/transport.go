package link

import (
	"context"
	"time"
)

// Transport is a byte-level half-duplex serial channel.
//
// Reads are bounded: when no byte arrives within the timeout the read
// returns an error matching ErrTimeout (errors.Is) together with any
// bytes received so far.
type Transport interface {
	// Write writes all bytes.
	Write(p []byte) (int, error)
	// ReadByteTimeout reads a single byte.
	ReadByteTimeout(timeout time.Duration) (byte, error)
	// ReadUntil reads until marker is received, including marker.
	ReadUntil(marker byte, timeout time.Duration) ([]byte, error)
	// Buffered returns the number of bytes ready to be read.
	Buffered() (int, error)
}

// PowerControl switches the remote's supply line.
type PowerControl interface {
	SetPower(on bool) error
}

// PowerCycle turns the remote off for offDuration and back on.
func PowerCycle(ctx context.Context, pc PowerControl, offDuration time.Duration) error {
	if err := pc.SetPower(false); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(offDuration):
	}
	return pc.SetPower(true)
}
