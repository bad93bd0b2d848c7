package keysink

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/remotelink/pkg/remote/buttons"
)

func TestDefaultKeyMap(t *testing.T) {
	m := DefaultKeyMap
	require.Equal(t, uint16(164), m.Code(buttons.PlayPause))
	require.Equal(t, uint16(163), m.Code(buttons.Next))
	require.Equal(t, uint16(165), m.Code(buttons.Previous))
	require.Equal(t, uint16(115), m.Code(buttons.VolumeUp))
	require.Equal(t, uint16(114), m.Code(buttons.VolumeDown))
	require.Equal(t, uint16(113), m.Code(buttons.Hold))
	require.Equal(t, uint16(0), m.Code(buttons.Button(42)))
	require.Len(t, m.Codes(), buttons.NumButtons)
}

func TestNew(t *testing.T) {
	s, err := New("none")
	require.NoError(t, err)
	require.NoError(t, s.Press(buttons.Next))
	require.NoError(t, s.Release(buttons.Next))
	require.NoError(t, s.Close())

	s, err = New("LOG")
	require.NoError(t, err)
	require.IsType(t, &Logger{}, s)

	_, err = New("keyboard")
	require.Error(t, err)
}

func TestLogger(t *testing.T) {
	var lines []string
	l := NewLogger(DefaultKeyMap)
	l.Logf = func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	require.NoError(t, buttons.Decode(buttons.VolumeUp.Bit(), 0, l))
	require.NoError(t, buttons.Decode(0, buttons.Hold.Bit(), l))
	require.Equal(t, []string{
		"key 115 (volume-up) down",
		"key 113 (hold) down",
		"key 113 (hold) up",
	}, lines)
}

type keyEvent struct {
	code int
	down bool
}

type fakeKeyboard struct {
	events []keyEvent
	closed bool
}

func (k *fakeKeyboard) KeyDown(key int) error {
	k.events = append(k.events, keyEvent{code: key, down: true})
	return nil
}

func (k *fakeKeyboard) KeyUp(key int) error {
	k.events = append(k.events, keyEvent{code: key})
	return nil
}

func (k *fakeKeyboard) Close() error {
	k.closed = true
	return nil
}

func TestUInputEmit(t *testing.T) {
	kb := &fakeKeyboard{}
	u := &UInput{Keys: DefaultKeyMap, kb: kb, name: "test"}
	require.NoError(t, buttons.Decode(buttons.Next.Bit(), 0, u))
	require.NoError(t, buttons.Decode(0, buttons.Next.Bit(), u))
	require.NoError(t, buttons.Decode(0, buttons.Hold.Bit(), u))
	require.Equal(t, []keyEvent{
		{code: int(KeyNextSong), down: true},
		{code: int(KeyNextSong)},
		{code: int(KeyMute), down: true},
		{code: int(KeyMute)},
	}, kb.events)

	var keys KeyMap
	u.Keys = keys
	err := u.Press(buttons.Next)
	require.True(t, errors.Is(err, ErrUnmapped))
	require.Len(t, kb.events, 4)

	require.NoError(t, u.Close())
	require.True(t, kb.closed)
}
