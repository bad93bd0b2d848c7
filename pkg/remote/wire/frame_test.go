package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameBytes(t *testing.T) {
	testCases := []struct {
		name   string
		frame  Frame
		expect []byte
	}{
		{"buttons", Frame{Cmd: 0x84, Payload: 0x0081}, []byte{START, 0x84, 0x81, 0x00, END}},
		{"heartbeat after ACK1", HeartbeatFrame(ACK1), []byte{START, 0x02, 0x00, 0x02, END}},
		{"heartbeat after ACK0", HeartbeatFrame(ACK0), []byte{START, 0x03, 0x00, 0x03, END}},
		{"heartbeat unset", HeartbeatFrame(0), []byte{START, 0x03, 0x00, 0x03, END}},
		{"second ack", SecondAckFrame(), []byte{START, 0x03, 0x01, 0x02, END}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.frame.Bytes())
			var buf bytes.Buffer
			n, err := tc.frame.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, int64(FrameSize), n)
			require.Equal(t, tc.expect, buf.Bytes())
		})
	}
}

func TestParseFrame(t *testing.T) {
	testCases := []struct {
		name   string
		raw    []byte
		frame  Frame
		reason error
	}{
		{"valid", []byte{START, 0x85, 0x10, 0x00, END}, Frame{Cmd: 0x85, Payload: 0x10}, nil},
		{"little endian", []byte{START, 0x84, 0x34, 0x12, END}, Frame{Cmd: 0x84, Payload: 0x1234}, nil},
		{"leading noise", []byte{0x00, 0x55, START, 0x80, 0, 0, END}, Frame{Cmd: 0x80}, nil},
		{"empty", nil, Frame{}, ErrNoEnd},
		{"truncated", []byte{START, 0x84, 0x01}, Frame{}, ErrNoEnd},
		{"short", []byte{START, 0x84, END}, Frame{}, ErrShortFrame},
		{"no start", []byte{0x00, 0x84, 0x01, 0x00, END}, Frame{}, ErrNoStart},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frame, err := ParseFrame(tc.raw)
			if tc.reason != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.reason), "unexpected %v", err)
				var fe *FrameError
				require.True(t, errors.As(err, &fe))
				require.Equal(t, tc.raw, fe.Raw)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.frame, frame)
		})
	}
}

func TestCommands(t *testing.T) {
	for _, c := range []Command{CmdFirstAck, CmdSecondAck, CmdButtons84, CmdButtons85, CmdPSP02, CmdPSP03} {
		require.Equal(t, c, CommandOf(byte(c)))
		require.True(t, c.Known())
	}
	require.Equal(t, CmdUnknown, CommandOf(0x86))
	require.Equal(t, CmdUnknown, CommandOf(0x00))
	require.False(t, CmdUnknown.Known())
	require.Equal(t, "cmd(0x86)", Command(0x86).String())
	require.Equal(t, "second_ack", CmdSecondAck.String())

	require.True(t, CmdButtons84.IsButtons())
	require.True(t, CmdButtons85.IsButtons())
	require.False(t, CmdFirstAck.IsButtons())

	require.Equal(t, Phase0, CmdButtons84.Phase())
	require.Equal(t, Phase1, CmdButtons85.Phase())
	require.Equal(t, ACK0, Phase0.Ack())
	require.Equal(t, ACK1, Phase1.Ack())
	require.True(t, IsAck(ACK0))
	require.True(t, IsAck(ACK1))
	require.False(t, IsAck(CONFIRM))
}
