// Package buttons decodes button bitmasks reported by the remote into
// press and release calls on a key sink.
package buttons

import (
	"fmt"
	"strings"
)

// Mask is the 16-bit button payload of a button report.
type Mask uint16

// Button is a logical button on the remote.
type Button uint8

// Buttons on the remote.
const (
	PlayPause Button = iota
	Next
	Previous
	VolumeUp
	VolumeDown
	Hold

	// NumButtons is the number of logical buttons.
	NumButtons int = iota
)

type buttonInfo struct {
	name  string
	bit   Mask
	pulse bool
}

var buttonTable = [NumButtons]buttonInfo{
	PlayPause:  {name: "play-pause", bit: 0x0001},
	Next:       {name: "next", bit: 0x0004},
	Previous:   {name: "previous", bit: 0x0008},
	VolumeUp:   {name: "volume-up", bit: 0x0010},
	VolumeDown: {name: "volume-down", bit: 0x0020},
	// HOLD is a slide switch on the remote, but the host sees it as a
	// momentary key: every change of the bit is a single tap.
	Hold: {name: "hold", bit: 0x0080, pulse: true},
}

// All lists all buttons in bit order.
var All = [NumButtons]Button{PlayPause, Next, Previous, VolumeUp, VolumeDown, Hold}

// Valid reports whether b is a known button.
func (b Button) Valid() bool {
	return int(b) < NumButtons
}

// Bit is the bit of the button in a Mask.
func (b Button) Bit() Mask {
	if !b.Valid() {
		return 0
	}
	return buttonTable[b].bit
}

// Pulse reports whether any edge of the button maps to a single tap.
func (b Button) Pulse() bool {
	return b.Valid() && buttonTable[b].pulse
}

// String implements fmt.Stringer.
func (b Button) String() string {
	if !b.Valid() {
		return fmt.Sprintf("button(%d)", uint8(b))
	}
	return buttonTable[b].name
}

// ParseButton finds a button by name.
func ParseButton(name string) (Button, bool) {
	for _, b := range All {
		if buttonTable[b].name == name {
			return b, true
		}
	}
	return 0, false
}

// Has reports whether the button's bit is set.
func (m Mask) Has(b Button) bool {
	bit := b.Bit()
	return bit != 0 && m&bit != 0
}

// Buttons lists the buttons held in the mask.
func (m Mask) Buttons() []Button {
	var held []Button
	for _, b := range All {
		if m.Has(b) {
			held = append(held, b)
		}
	}
	return held
}

// String implements fmt.Stringer.
func (m Mask) String() string {
	held := m.Buttons()
	names := make([]string, len(held))
	for n, b := range held {
		names[n] = b.String()
	}
	return fmt.Sprintf("%016b[%s]", uint16(m), strings.Join(names, ","))
}
