// Package events publishes key output and link state of the bridge.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/msgs"
	"github.com/robotalks/remotelink/pkg/registry"
	"github.com/robotalks/remotelink/pkg/remote/buttons"
	"github.com/robotalks/remotelink/pkg/remote/link"
)

// Publisher is a key sink and link state notifier. It never talks to the
// network itself: it posts messages to the loop and a post-processing
// controller hands them to the registrar.
type Publisher struct {
	Registrar registry.Registrar
	Loop      fx.LoopControl
	// Now is the clock, time.Now if nil.
	Now func() time.Time

	lock sync.Mutex
	held buttons.Mask
}

var (
	_ buttons.KeySink    = (*Publisher)(nil)
	_ link.StateNotifier = (*Publisher)(nil)
)

// NewPublisher creates a Publisher.
func NewPublisher(reg registry.Registrar, loop fx.LoopControl) *Publisher {
	return &Publisher{Registrar: reg, Loop: loop}
}

// Press implements buttons.KeySink.
func (p *Publisher) Press(b buttons.Button) error {
	p.post(p.keyEvent(b, buttons.Pressed))
	return nil
}

// Release implements buttons.KeySink.
func (p *Publisher) Release(b buttons.Button) error {
	p.post(p.keyEvent(b, buttons.Released))
	return nil
}

// LinkStateChanged implements link.StateNotifier.
func (p *Publisher) LinkStateChanged(s link.Session) {
	p.post(StatusOf(s))
}

// StatusOf converts a session into a LinkStatus message.
func StatusOf(s link.Session) *msgs.LinkStatus {
	st := &msgs.LinkStatus{
		Initialized: s.Initialized,
		LastAck:     uint32(s.LastAck),
		Buttons:     uint32(s.LastButtons),
	}
	if !s.LastActivity.IsZero() {
		st.LastActivity = s.LastActivity.UnixNano()
	}
	return st
}

func (p *Publisher) keyEvent(b buttons.Button, edge buttons.Edge) *msgs.ButtonEvent {
	p.lock.Lock()
	if !b.Pulse() {
		if edge == buttons.Pressed {
			p.held |= b.Bit()
		} else {
			p.held &^= b.Bit()
		}
	}
	held := p.held
	p.lock.Unlock()
	return &msgs.ButtonEvent{
		Button:   b.String(),
		Edge:     edge.String(),
		Mask:     uint32(held),
		UnixNano: p.now().UnixNano(),
	}
}

func (p *Publisher) post(msg fx.Message) {
	if p.Loop == nil {
		return
	}
	p.Loop.PostMessage(msg)
	p.Loop.TriggerNext()
}

func (p *Publisher) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Control implements Controller. It takes posted events and statuses
// and sends them to the registrar.
func (p *Publisher) Control(cc fx.ControlContext) error {
	var errs fx.AggregatedError
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *msgs.ButtonEvent:
			mctx.MessageTaken()
			errs.Add(p.send(cc.Context(), msg, false))
		case *msgs.LinkStatus:
			mctx.MessageTaken()
			errs.Add(p.send(cc.Context(), msg, true))
		}
	}))
	return errs.Aggregate()
}

func (p *Publisher) send(ctx context.Context, msg fx.Message, status bool) error {
	reg := p.Registrar
	if reg == nil {
		return nil
	}
	var err error
	if status {
		err = reg.SetStatus(ctx, msg)
	} else {
		err = reg.SendEvent(ctx, msg)
	}
	if err != nil {
		glog.V(1).Infof("publish %v: %v", msg, err)
		return err
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (p *Publisher) AddToLoop(loop *fx.Loop) {
	if p.Loop == nil {
		p.Loop = loop
	}
	loop.AddController(fx.PrLvPostProc, p)
}
