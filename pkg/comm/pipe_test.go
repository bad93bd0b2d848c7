package comm

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/msgs"
)

type chanReadWriter struct {
	ch chan []byte
}

func (c *chanReadWriter) ReadPacket() ([]byte, error) {
	pkt, ok := <-c.ch
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

func (c *chanReadWriter) WritePacket(pkt []byte) error {
	c.ch <- pkt
	return nil
}

func TestPipe(t *testing.T) {
	rw := &chanReadWriter{ch: make(chan []byte, 4)}
	p := NewPipe(rw)
	require.NoError(t, p.SendMsg(&msgs.ButtonEvent{Button: "next", Edge: "pressed"}))
	rw.ch <- []byte{0xff, 0xff}
	rw.ch <- mustEncode(t, &msgs.Typed{TypeId: 0x1234})
	require.NoError(t, p.SendMsg(&msgs.LinkStatus{Initialized: true}))
	close(rw.ch)

	var got []fx.Message
	var seqs []uint64
	p.Handler = HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		got = append(got, msg)
		seqs = append(seqs, typed.Sequence)
		return nil
	})
	require.NoError(t, p.Run(context.Background()))
	require.Equal(t, []fx.Message{
		&msgs.ButtonEvent{Button: "next", Edge: "pressed"},
		&msgs.LinkStatus{Initialized: true},
	}, got)
	require.Equal(t, []uint64{1, 2}, seqs)
}

type closingReadWriter struct {
	chanReadWriter
	closes int32
}

func (c *closingReadWriter) Close() error {
	if atomic.AddInt32(&c.closes, 1) > 1 {
		return errors.New("use of closed network connection")
	}
	close(c.ch)
	return nil
}

func TestPipeCloseWhileRunning(t *testing.T) {
	rw := &closingReadWriter{chanReadWriter: chanReadWriter{ch: make(chan []byte)}}
	p := NewPipe(rw)
	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	require.NoError(t, p.Close())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pipe not stopped")
	}
	require.NoError(t, p.Close())
	require.Equal(t, int32(1), atomic.LoadInt32(&rw.closes))
}

func mustEncode(t *testing.T, typed *msgs.Typed) []byte {
	data, err := typed.Encode()
	require.NoError(t, err)
	return data
}
