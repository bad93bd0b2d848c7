//go:build !linux
// +build !linux

package serial

import "time"

// Open is not supported on this platform.
func Open(conf Config) (*Port, error) {
	return nil, ErrUnsupported
}

// Close implements io.Closer.
func (p *Port) Close() error { return ErrUnsupported }

// Write implements link.Transport.
func (p *Port) Write(b []byte) (int, error) { return 0, ErrUnsupported }

// ReadByteTimeout implements link.Transport.
func (p *Port) ReadByteTimeout(timeout time.Duration) (byte, error) { return 0, ErrUnsupported }

// ReadUntil implements link.Transport.
func (p *Port) ReadUntil(marker byte, timeout time.Duration) ([]byte, error) {
	return nil, ErrUnsupported
}

// Buffered implements link.Transport.
func (p *Port) Buffered() (int, error) { return 0, ErrUnsupported }

// SetPower implements link.PowerControl.
func (p *Port) SetPower(on bool) error { return ErrUnsupported }
