package wire

import "fmt"

// Link control bytes.
const (
	ASK     byte = 0xf0
	CONFIRM byte = 0xf8
	START   byte = 0xfd
	END     byte = 0xfe
	ACK0    byte = 0xfa
	ACK1    byte = 0xfb
)

// BaudRate is the only line speed the remote supports.
const BaudRate = 4800

// Phase is the acknowledgement phase bit.
type Phase byte

// Phases.
const (
	Phase0 Phase = 0
	Phase1 Phase = 1
)

// Ack returns the acknowledgement byte for the phase.
func (p Phase) Ack() byte {
	if p&1 != 0 {
		return ACK1
	}
	return ACK0
}

// IsAck checks whether b is one of the acknowledgement bytes.
func IsAck(b byte) bool {
	return b == ACK0 || b == ACK1
}

// Command is a frame command.
type Command byte

// Known commands. CmdUnknown is never sent and is what CommandOf returns
// for bytes outside the table.
const (
	CmdUnknown   Command = 0
	CmdFirstAck  Command = 0x80
	CmdSecondAck Command = 0x83
	CmdButtons84 Command = 0x84
	CmdButtons85 Command = 0x85
	CmdPSP02     Command = 0x02
	CmdPSP03     Command = 0x03
)

var commandNames = [256]string{
	CmdFirstAck:  "first_ack",
	CmdSecondAck: "second_ack",
	CmdButtons84: "buttons_84",
	CmdButtons85: "buttons_85",
	CmdPSP02:     "psp_02",
	CmdPSP03:     "psp_03",
}

// CommandOf maps a raw command byte to a known Command.
func CommandOf(b byte) Command {
	if commandNames[b] == "" {
		return CmdUnknown
	}
	return Command(b)
}

// Known reports whether the command is in the table.
func (c Command) Known() bool {
	return commandNames[c] != ""
}

// Phase extracts the phase bit of a command byte.
func (c Command) Phase() Phase {
	return Phase(c & 1)
}

// IsButtons reports whether the command carries a button report.
func (c Command) IsButtons() bool {
	return c == CmdButtons84 || c == CmdButtons85
}

// String implements fmt.Stringer.
func (c Command) String() string {
	if name := commandNames[c]; name != "" {
		return name
	}
	return fmt.Sprintf("cmd(0x%02x)", byte(c))
}

// HeartbeatCommand selects the keep-alive command from the last
// acknowledgement received by the host: psp_02 follows ACK1, anything else
// (including no acknowledgement yet) selects psp_03.
func HeartbeatCommand(lastAck byte) Command {
	if lastAck == ACK1 {
		return CmdPSP02
	}
	return CmdPSP03
}
