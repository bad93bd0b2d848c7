package wire

import (
	"encoding/binary"
	"io"
)

// FrameSize is the length of an encoded frame.
const FrameSize = 5

// Frame is a decoded frame.
type Frame struct {
	Cmd     byte
	Payload uint16
}

// Command returns the known command of the frame, or CmdUnknown.
func (f Frame) Command() Command {
	return CommandOf(f.Cmd)
}

// Phase returns the phase bit carried by the command byte.
func (f Frame) Phase() Phase {
	return Command(f.Cmd).Phase()
}

// Bytes returns encoded bytes for sending.
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	b[0], b[1] = START, f.Cmd
	binary.LittleEndian.PutUint16(b[2:4], f.Payload)
	b[4] = END
	return b
}

// WriteTo writes encoded bytes.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// HeartbeatFrame is the keep-alive frame the host sends after the last
// acknowledgement lastAck: the command byte, a zero low byte, and the
// command byte repeated as the high byte.
func HeartbeatFrame(lastAck byte) Frame {
	cmd := byte(HeartbeatCommand(lastAck))
	return Frame{Cmd: cmd, Payload: uint16(cmd) << 8}
}

// SecondAckFrame is the extra frame the remote expects from the host
// after it sent second_ack.
func SecondAckFrame() Frame {
	return Frame{Cmd: byte(CmdPSP03), Payload: 0x0201}
}

// ParseFrame decodes a received frame. Bytes preceding the final
// FrameSize bytes are ignored, the frame itself must be delimited by
// START and END.
func ParseFrame(raw []byte) (Frame, error) {
	if len(raw) == 0 || raw[len(raw)-1] != END {
		return Frame{}, &FrameError{Reason: ErrNoEnd, Raw: raw}
	}
	if len(raw) < FrameSize {
		return Frame{}, &FrameError{Reason: ErrShortFrame, Raw: raw}
	}
	b := raw[len(raw)-FrameSize:]
	if b[0] != START {
		return Frame{}, &FrameError{Reason: ErrNoStart, Raw: raw}
	}
	return Frame{Cmd: b[1], Payload: binary.LittleEndian.Uint16(b[2:4])}, nil
}
