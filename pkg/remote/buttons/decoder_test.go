package buttons

import (
	"errors"
	"fmt"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	calls   []string
	failOn  string
	failErr error
}

func (s *recordingSink) record(call string) error {
	s.calls = append(s.calls, call)
	if call == s.failOn {
		return s.failErr
	}
	return nil
}

func (s *recordingSink) Press(b Button) error   { return s.record("press " + b.String()) }
func (s *recordingSink) Release(b Button) error { return s.record("release " + b.String()) }

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		old, new Mask
		expect   []string
	}{
		{"press play", 0, 0b1, []string{"press play-pause"}},
		{"release play", 0b1, 0, []string{"release play-pause"}},
		{"hold on", 0, 0b10000000, []string{"press hold", "release hold"}},
		{"hold off", 0b10000000, 0, []string{"press hold", "release hold"}},
		{"unchanged", 0b110001, 0b110001, nil},
		{"zero", 0, 0, nil},
		{"swap volume", 0b010000, 0b100000, []string{"press volume-up", "release volume-down"}},
		{"unmapped bits ignored", 0, 0b1000000_00000010, nil},
		{"all", 0, 0b10111101, []string{
			"press play-pause", "press next", "press previous",
			"press volume-up", "press volume-down",
			"press hold", "release hold",
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var sink recordingSink
			require.NoError(t, Decode(tc.new, tc.old, &sink))
			require.Equal(t, tc.expect, sink.calls)

			// same input, same output.
			var again recordingSink
			require.NoError(t, Decode(tc.new, tc.old, &again))
			require.Equal(t, sink.calls, again.calls)
		})
	}
}

func TestDecodeAllPairs(t *testing.T) {
	var known Mask
	for _, b := range All {
		known |= b.Bit()
	}
	for old := 0; old < 256; old++ {
		for cur := 0; cur < 256; cur++ {
			var sink recordingSink
			require.NoError(t, Decode(Mask(cur), Mask(old), &sink))
			changed := (Mask(cur) ^ Mask(old)) & known
			expect := bits.OnesCount16(uint16(changed))
			if changed.Has(Hold) {
				// one pulse for HOLD, two calls.
				expect++
			}
			require.Len(t, sink.calls, expect, "old=%08b new=%08b", old, cur)
			events := Edges(Mask(cur), Mask(old))
			require.Len(t, events, bits.OnesCount16(uint16(changed)))
			for _, ev := range events {
				require.True(t, changed.Has(ev.Button))
				require.Equal(t, Mask(cur).Has(ev.Button), ev.Edge == Pressed)
			}
		}
	}
}

func TestDecodeSinkErrors(t *testing.T) {
	failure := errors.New("no such key")
	sink := &recordingSink{failOn: "press next", failErr: failure}
	err := Decode(0b10101, 0, sink)
	require.Error(t, err)
	require.True(t, errors.Is(err, failure))
	var se *SinkError
	require.True(t, errors.As(err, &se))
	require.Equal(t, Event{Button: Next, Edge: Pressed}, se.Event)
	// the remaining buttons are still delivered.
	require.Equal(t, []string{"press play-pause", "press next", "press volume-up"}, sink.calls)
}

func TestMux(t *testing.T) {
	var a, b recordingSink
	b.failOn, b.failErr = "release hold", fmt.Errorf("closed")
	mux := NewMux(&a, nil, &b)
	require.Len(t, mux.Sinks, 2)
	err := Decode(0, Hold.Bit(), mux)
	require.Error(t, err)
	require.Equal(t, []string{"press hold", "release hold"}, a.calls)
	require.Equal(t, []string{"press hold", "release hold"}, b.calls)
}

func TestButtons(t *testing.T) {
	for _, b := range All {
		p, ok := ParseButton(b.String())
		require.True(t, ok)
		require.Equal(t, b, p)
	}
	_, ok := ParseButton("eject")
	require.False(t, ok)
	require.True(t, Hold.Pulse())
	require.False(t, PlayPause.Pulse())
	require.False(t, Button(42).Valid())
	require.Equal(t, Mask(0), Button(42).Bit())
	require.Equal(t, []Button{PlayPause, Hold}, Mask(0x81).Buttons())
	require.Equal(t, "0000000010000001[play-pause,hold]", Mask(0x81).String())
}
