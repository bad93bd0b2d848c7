package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/msgs"
	"github.com/robotalks/remotelink/pkg/remote/buttons"
	"github.com/robotalks/remotelink/pkg/remote/link"
)

type recordingRegistrar struct {
	events []fx.Message
	status []fx.Message
	err    error
}

func (r *recordingRegistrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return r.err
}

func (r *recordingRegistrar) SetStatus(ctx context.Context, msg fx.Message) error {
	r.status = append(r.status, msg)
	return r.err
}

func TestPublisher(t *testing.T) {
	reg := &recordingRegistrar{}
	loop := fx.NewLoop()
	p := NewPublisher(reg, nil)
	now := time.Unix(100, 0)
	p.Now = func() time.Time { return now }
	loop.Add(p)

	require.NoError(t, buttons.Decode(buttons.Next.Bit()|buttons.Hold.Bit(), 0, p))
	p.LinkStateChanged(link.Session{Initialized: true, LastAck: 0xfb, LastButtons: 0x84, LastActivity: now})
	loop.RunOnce(context.Background())

	require.Equal(t, []fx.Message{
		&msgs.ButtonEvent{Button: "next", Edge: "pressed", Mask: 0x4, UnixNano: now.UnixNano()},
		&msgs.ButtonEvent{Button: "hold", Edge: "pressed", Mask: 0x4, UnixNano: now.UnixNano()},
		&msgs.ButtonEvent{Button: "hold", Edge: "released", Mask: 0x4, UnixNano: now.UnixNano()},
	}, reg.events)
	require.Equal(t, []fx.Message{
		&msgs.LinkStatus{Initialized: true, LastAck: 0xfb, Buttons: 0x84, LastActivity: now.UnixNano()},
	}, reg.status)

	require.NoError(t, buttons.Decode(0, buttons.Next.Bit(), p))
	loop.RunOnce(context.Background())
	require.Len(t, reg.events, 4)
	require.Equal(t, uint32(0), reg.events[3].(*msgs.ButtonEvent).Mask)
}

func TestPublisherErrorsDoNotBlock(t *testing.T) {
	reg := &recordingRegistrar{err: errors.New("offline")}
	loop := fx.NewLoop()
	p := NewPublisher(reg, loop)
	loop.Add(p)
	require.NoError(t, p.Press(buttons.VolumeUp))
	loop.RunOnce(context.Background())
	require.Len(t, reg.events, 1)
	// taken messages are not retried.
	loop.RunOnce(context.Background())
	require.Len(t, reg.events, 1)
}

func TestStatusOf(t *testing.T) {
	st := StatusOf(link.Session{})
	require.Equal(t, &msgs.LinkStatus{}, st)
}
