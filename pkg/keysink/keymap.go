// Package keysink turns button transitions into host key events.
package keysink

import (
	"fmt"
	"io"
	"strings"

	"github.com/robotalks/remotelink/pkg/remote/buttons"
)

// Linux input key codes used by the remote.
const (
	KeyMute         uint16 = 113
	KeyVolumeDown   uint16 = 114
	KeyVolumeUp     uint16 = 115
	KeyNextSong     uint16 = 163
	KeyPlayPause    uint16 = 164
	KeyPreviousSong uint16 = 165
)

// KeyMap maps buttons to key codes.
type KeyMap [buttons.NumButtons]uint16

// DefaultKeyMap maps the remote to multimedia keys.
var DefaultKeyMap = KeyMap{
	buttons.PlayPause:  KeyPlayPause,
	buttons.Next:       KeyNextSong,
	buttons.Previous:   KeyPreviousSong,
	buttons.VolumeUp:   KeyVolumeUp,
	buttons.VolumeDown: KeyVolumeDown,
	buttons.Hold:       KeyMute,
}

// Code returns the key code of b, 0 if not mapped.
func (m *KeyMap) Code(b buttons.Button) uint16 {
	if !b.Valid() {
		return 0
	}
	return m[b]
}

// Codes returns all mapped key codes.
func (m *KeyMap) Codes() []uint16 {
	var codes []uint16
	for _, code := range m {
		if code != 0 {
			codes = append(codes, code)
		}
	}
	return codes
}

// Sink is a KeySink owning a resource.
type Sink interface {
	buttons.KeySink
	io.Closer
}

// Kinds of sinks supported by New.
const (
	KindUInput = "uinput"
	KindLog    = "log"
	KindNone   = "none"
)

// Kinds lists valid sink kinds.
var Kinds = []string{KindUInput, KindLog, KindNone}

// New creates a sink by kind using DefaultKeyMap.
func New(kind string) (Sink, error) {
	switch strings.ToLower(kind) {
	case KindUInput:
		return OpenUInput(DefaultUInputPath, DefaultDeviceName, DefaultKeyMap)
	case KindLog:
		return NewLogger(DefaultKeyMap), nil
	case KindNone, "":
		return nopSink{}, nil
	}
	return nil, fmt.Errorf("unknown key sink %q, expect one of %s", kind, strings.Join(Kinds, ", "))
}

type nopSink struct{}

func (nopSink) Press(buttons.Button) error   { return nil }
func (nopSink) Release(buttons.Button) error { return nil }
func (nopSink) Close() error                 { return nil }
