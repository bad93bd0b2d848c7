package keysink

import (
	"errors"
	"fmt"
	"io"

	"github.com/robotalks/remotelink/pkg/remote/buttons"
)

// Defaults for OpenUInput.
const (
	DefaultUInputPath = "/dev/uinput"
	DefaultDeviceName = "psp-remote"
)

var (
	// ErrUnsupported indicates uinput is not available on this OS.
	ErrUnsupported = errors.New("uinput not supported on this platform")
	// ErrUnmapped indicates a button without key code.
	ErrUnmapped = errors.New("button not mapped")
)

// keyboard is the part of uinput.Keyboard used by UInput.
type keyboard interface {
	KeyDown(key int) error
	KeyUp(key int) error
	io.Closer
}

// UInput is a virtual keyboard created through uinput.
type UInput struct {
	Keys KeyMap

	kb   keyboard
	name string
}

// Name returns the device name.
func (u *UInput) Name() string {
	return u.name
}

// Press implements buttons.KeySink.
func (u *UInput) Press(b buttons.Button) error {
	code, err := u.code(b)
	if err != nil {
		return err
	}
	return u.kb.KeyDown(code)
}

// Release implements buttons.KeySink.
func (u *UInput) Release(b buttons.Button) error {
	code, err := u.code(b)
	if err != nil {
		return err
	}
	return u.kb.KeyUp(code)
}

// Close destroys the device.
func (u *UInput) Close() error {
	return u.kb.Close()
}

func (u *UInput) code(b buttons.Button) (int, error) {
	code := u.Keys.Code(b)
	if code == 0 {
		return 0, fmt.Errorf("%s: %w", b, ErrUnmapped)
	}
	return int(code), nil
}
