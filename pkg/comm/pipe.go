package comm

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/msgs"
)

// TypedMsgHandler handles a received message.
type TypedMsgHandler interface {
	HandleTypedMsg(context.Context, fx.Message, *msgs.Typed) error
}

// HandleTypedMsgFunc is func form of TypedMsgHandler.
type HandleTypedMsgFunc func(context.Context, fx.Message, *msgs.Typed) error

// HandleTypedMsg implements TypedMsgHandler.
func (f HandleTypedMsgFunc) HandleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	return f(ctx, msg, typed)
}

// Pipe sends and receives Typed messages over a PacketReadWriter.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    TypedMsgHandler

	sendLock sync.Mutex
	sequence uint64

	closeOnce sync.Once
	closeErr  error
}

// NewPipe creates a Pipe with given PacketReadWriter.
func NewPipe(rw PacketReadWriter) *Pipe {
	return &Pipe{ReadWriter: rw}
}

// SendMsg wraps msg in a Typed with the next sequence number and sends it.
func (p *Pipe) SendMsg(msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	p.sequence++
	typed.Sequence = p.sequence
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. Packets of unknown types are skipped.
func (p *Pipe) Run(ctx context.Context) error {
	defer p.Close()
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		typed, err := msgs.DecodeTyped(pkt)
		if err != nil {
			glog.Warningf("bad packet: %v", err)
			continue
		}
		msg, err := typed.Decode()
		if err != nil {
			glog.V(1).Infof("skip packet: %v", err)
			continue
		}
		if h := p.Handler; h != nil {
			if err = h.HandleTypedMsg(ctx, msg, typed); err != nil {
				return err
			}
		}
	}
}

// Close implements Closer. The ReadWriter is closed once no matter
// whether Close or the end of Run gets there first.
func (p *Pipe) Close() error {
	p.closeOnce.Do(func() {
		if closer, ok := p.ReadWriter.(io.Closer); ok {
			p.closeErr = closer.Close()
		}
	})
	return p.closeErr
}

// AddToLoop implements LoopAdder.
func (p *Pipe) AddToLoop(loop *fx.Loop) {
	if adder, ok := p.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := p.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
}
