package mqtt

import (
	"context"
	"io"

	"github.com/robotalks/remotelink/pkg/registry"
)

// ReadWriter carries Typed packets on the msg topic of a bridge.
// The bridge side only writes; a watcher side receives while Run is active.
type ReadWriter struct {
	Queue   *Queue
	Ref     registry.Ref
	Receive bool

	packetCh chan []byte
	doneCh   chan struct{}
}

// NewBridgeReadWriter publishes events of the bridge.
func NewBridgeReadWriter(q *Queue, ref registry.Ref) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		Ref:      ref,
		packetCh: make(chan []byte, 16),
		doneCh:   make(chan struct{}),
	}
}

// NewWatcherReadWriter receives events of the bridge.
func NewWatcherReadWriter(q *Queue, ref registry.Ref) *ReadWriter {
	p := NewBridgeReadWriter(q, ref)
	p.Receive = true
	return p
}

// ReadPacket implements PacketReader. io.EOF is returned after Run stops.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.doneCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return Wait(p.Queue.Publish(p.Ref, TopicMsg, pkt))
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	defer close(p.doneCh)
	if p.Receive {
		sub := p.Queue.Sub(Select(p.Ref, TopicMsg), p.handleMsg)
		defer sub.Close()
	}
	<-ctx.Done()
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(msg *Message) {
	select {
	case p.packetCh <- msg.Payload:
	case <-p.doneCh:
	}
}
