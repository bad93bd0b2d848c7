// Package serial provides the serial line transport for the remote.
package serial

import (
	"errors"
	"fmt"
	"time"

	"github.com/robotalks/remotelink/pkg/remote/link"
)

var (
	// ErrUnsupported indicates serial ports are not supported on this OS.
	ErrUnsupported = errors.New("serial ports not supported on this platform")
	// ErrClosed indicates the port was closed.
	ErrClosed = errors.New("port closed")
)

// Config defines how the port is opened.
type Config struct {
	// Name is the device path, e.g. /dev/ttyUSB0.
	Name string
	// Baud is the line speed.
	Baud int
	// InvertRTS drives RTS low to switch the remote on. USB adapters
	// wired to the remote's supply need it.
	InvertRTS bool
}

// BaudError indicates an unsupported line speed.
type BaudError struct {
	Baud int
}

// Error implements error.
func (e *BaudError) Error() string {
	return fmt.Sprintf("unsupported baud rate %d", e.Baud)
}

// Port is an open serial port. It implements link.Transport and
// link.PowerControl.
type Port struct {
	name      string
	fd        int
	invertRTS bool
}

var (
	_ link.Transport    = (*Port)(nil)
	_ link.PowerControl = (*Port)(nil)
)

// Name returns the device path.
func (p *Port) Name() string {
	return p.name
}

func (p *Port) timeoutErr() error {
	return fmt.Errorf("%s: %w", p.name, link.ErrTimeout)
}

func deadlineAfter(timeout time.Duration) time.Time {
	return time.Now().Add(timeout)
}
