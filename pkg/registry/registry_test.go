package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/msgs"
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

func TestRef(t *testing.T) {
	ref := Ref{Type: "psp-remote", ID: "abc"}
	require.True(t, ref.IsValid())
	require.Equal(t, "psp-remote/abc", ref.Name())
	require.False(t, Ref{Type: "psp-remote"}.IsValid())
}

func TestMux(t *testing.T) {
	r1, r2 := &recordingRegistrar{}, &recordingRegistrar{err: errors.New("offline")}
	var mux Mux
	mux.Add(r1, r2)

	ev := &msgs.ButtonEvent{Button: "next"}
	err := mux.SendEvent(context.Background(), ev)
	require.EqualError(t, err, "offline")
	require.Equal(t, []fx.Message{ev}, r1.events)
	require.Equal(t, []fx.Message{ev}, r2.events)

	st := &msgs.LinkStatus{Initialized: true}
	r2.err = nil
	require.NoError(t, mux.SetStatus(context.Background(), st))
	require.Equal(t, []fx.Message{st}, r1.status)
}
