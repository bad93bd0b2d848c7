package link

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/remotelink/pkg/remote/buttons"
	"github.com/robotalks/remotelink/pkg/remote/wire"
)

// Defaults of Engine settings.
const (
	DefaultReadTimeout       = 300 * time.Millisecond
	DefaultKeepAliveInterval = time.Second
	DefaultPollInterval      = 10 * time.Millisecond
)

// maxCollisions bounds how often the host gives up the floor to the
// remote within a single exchange.
const maxCollisions = 4

// Outcome is what a single Poll did.
type Outcome int

// Poll outcomes.
const (
	// OutcomeIdle means nothing was due.
	OutcomeIdle Outcome = iota
	// OutcomeDiscarded means a stray byte outside a handshake was dropped.
	OutcomeDiscarded
	// OutcomeResponded means a frame sent by the remote was handled.
	OutcomeResponded
	// OutcomeKeepAlive means a keep-alive was exchanged.
	OutcomeKeepAlive
	// OutcomeFramingFailed means a frame was truncated or malformed.
	OutcomeFramingFailed
	// OutcomeHandshakeFailed means the remote broke the handshake and
	// the session is no longer initialized.
	OutcomeHandshakeFailed
)

var outcomeNames = map[Outcome]string{
	OutcomeIdle:            "idle",
	OutcomeDiscarded:       "discarded",
	OutcomeResponded:       "responded",
	OutcomeKeepAlive:       "keep-alive",
	OutcomeFramingFailed:   "framing-failed",
	OutcomeHandshakeFailed: "handshake-failed",
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Engine runs the remote link protocol over a Transport and forwards
// button transitions to a KeySink.
//
// The engine is single-threaded: Poll and Run must not be called
// concurrently. The session is only replaced at the end of a Poll so
// callers never observe a partially updated session.
type Engine struct {
	Transport Transport
	Sink      buttons.KeySink
	Notifier  StateNotifier

	ReadTimeout       time.Duration
	KeepAliveInterval time.Duration
	PollInterval      time.Duration
	// Now is the clock, time.Now if nil.
	Now func() time.Time

	session Session
}

// NewEngine creates an Engine with default settings.
func NewEngine(t Transport, sink buttons.KeySink) *Engine {
	return &Engine{
		Transport:         t,
		Sink:              sink,
		ReadTimeout:       DefaultReadTimeout,
		KeepAliveInterval: DefaultKeepAliveInterval,
		PollInterval:      DefaultPollInterval,
	}
}

// Name implements framework.Named.
func (e *Engine) Name() string {
	return "link"
}

// Session returns a snapshot of the session.
func (e *Engine) Session() Session {
	return e.session
}

// Run polls the link every PollInterval until ctx is done or the
// transport fails.
func (e *Engine) Run(ctx context.Context) error {
	interval := e.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if e.session.LastActivity.IsZero() {
		e.session.LastActivity = e.now()
	}
	// Every Reset below follows a receive from timer.C, so the timer
	// starts stopped and drained.
	timer := time.NewTimer(interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	for {
		start := e.now()
		if _, err := e.Poll(ctx); err != nil {
			return err
		}
		wait := interval - e.now().Sub(start)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Poll runs one scheduling step: it answers the remote if it is asking
// for the floor, otherwise it sends a keep-alive when one is due.
// Framing and handshake failures are reported by the Outcome; only
// transport failures are returned as errors.
func (e *Engine) Poll(ctx context.Context) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeIdle, err
	}
	n, err := e.Transport.Buffered()
	if err != nil {
		return OutcomeIdle, err
	}
	next := e.session
	var outcome Outcome
	if n > 0 {
		b, err := e.Transport.ReadByteTimeout(e.readTimeout())
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				return OutcomeIdle, nil
			}
			return OutcomeIdle, err
		}
		if b != wire.ASK {
			glog.V(2).Infof("discard stray byte %02x", b)
			return OutcomeDiscarded, nil
		}
		outcome, err = OutcomeResponded, e.respond(&next, 0)
		return e.finish(outcome, next, err)
	}

	if !next.Initialized || next.IdleFor(e.now()) < e.keepAliveInterval() {
		return OutcomeIdle, nil
	}
	outcome, err = OutcomeKeepAlive, e.keepAlive(&next, 0)
	if err == nil {
		next.LastActivity = e.now()
	}
	return e.finish(outcome, next, err)
}

// finish commits the session and classifies err.
func (e *Engine) finish(outcome Outcome, next Session, err error) (Outcome, error) {
	var fe *FramingError
	var he *HandshakeError
	switch {
	case err == nil:
	case errors.As(err, &he):
		glog.Warningf("link: %v", err)
		next.Initialized = false
		outcome, err = OutcomeHandshakeFailed, nil
	case errors.As(err, &fe):
		glog.Warningf("link: %v", err)
		outcome, err = OutcomeFramingFailed, nil
	}
	prev := e.session
	e.session = next
	if prev.Initialized != next.Initialized {
		glog.Infof("link initialized=%v", next.Initialized)
		if n := e.Notifier; n != nil {
			n.LinkStateChanged(next)
		}
	}
	return outcome, err
}

// respond handles a frame after the remote asked for the floor.
func (e *Engine) respond(s *Session, collisions int) error {
	if err := e.write(wire.CONFIRM); err != nil {
		return err
	}
	raw, err := e.Transport.ReadUntil(wire.END, e.readTimeout())
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return &FramingError{Raw: raw, Err: err}
		}
		return err
	}
	frame, err := wire.ParseFrame(raw)
	if err != nil {
		return &FramingError{Raw: raw, Err: err}
	}
	// the ack echoes the sender's own phase bit.
	if err := e.write(frame.Phase().Ack()); err != nil {
		return err
	}
	return e.dispatch(s, frame, collisions)
}

func (e *Engine) dispatch(s *Session, frame wire.Frame, collisions int) error {
	cmd := frame.Command()
	glog.V(2).Infof("recv %s phase=%d payload=%04x", wire.Command(frame.Cmd), frame.Phase(), frame.Payload)
	switch {
	case !cmd.Known():
		return nil
	case cmd == wire.CmdSecondAck:
		if err := e.secondAck(s); err != nil {
			return err
		}
	case cmd.IsButtons():
		mask := buttons.Mask(frame.Payload)
		if err := buttons.Decode(mask, s.LastButtons, e.sink()); err != nil {
			glog.Errorf("key output: %v", err)
		}
		s.LastButtons = mask
		if err := e.keepAlive(s, collisions+1); err != nil {
			return err
		}
		s.Initialized = true
	}
	s.LastActivity = e.now()
	return nil
}

// keepAlive sends a heartbeat frame as the initiator. If the remote asks
// for the floor at the same time, the host yields and responds instead.
func (e *Engine) keepAlive(s *Session, collisions int) error {
	if collisions > maxCollisions {
		return &HandshakeError{Stage: StageCollisions, Want: []byte{wire.CONFIRM}, Got: wire.ASK, Err: ErrTooManyCollisions}
	}
	if err := e.write(wire.ASK); err != nil {
		return err
	}
	b, err := e.Transport.ReadByteTimeout(e.readTimeout())
	if err != nil {
		return handshakeErr(StageConfirm, err, wire.CONFIRM)
	}
	if b == wire.ASK {
		glog.V(2).Info("collision, yield to remote")
		return e.respond(s, collisions)
	}
	if b != wire.CONFIRM {
		return &HandshakeError{Stage: StageConfirm, Want: []byte{wire.CONFIRM}, Got: b, Err: ErrUnexpectedByte}
	}
	return e.sendFrame(s, StageAck, wire.HeartbeatFrame(s.LastAck))
}

// secondAck is the extra host frame the remote expects after second_ack.
func (e *Engine) secondAck(s *Session) error {
	if err := e.write(wire.ASK); err != nil {
		return err
	}
	b, err := e.Transport.ReadByteTimeout(e.readTimeout())
	if err != nil {
		return handshakeErr(StageSecondAck, err, wire.CONFIRM)
	}
	if b != wire.CONFIRM {
		return &HandshakeError{Stage: StageSecondAck, Want: []byte{wire.CONFIRM}, Got: b, Err: ErrUnexpectedByte}
	}
	return e.sendFrame(s, StageSecondAck, wire.SecondAckFrame())
}

// sendFrame writes a frame after CONFIRM and records its acknowledgement.
func (e *Engine) sendFrame(s *Session, stage string, frame wire.Frame) error {
	if _, err := frame.WriteTo(e.Transport); err != nil {
		return err
	}
	glog.V(2).Infof("sent %s payload=%04x", wire.Command(frame.Cmd), frame.Payload)
	ack, err := e.Transport.ReadByteTimeout(e.readTimeout())
	if err != nil {
		return handshakeErr(stage, err, wire.ACK0, wire.ACK1)
	}
	if !wire.IsAck(ack) {
		return &HandshakeError{Stage: stage, Want: []byte{wire.ACK0, wire.ACK1}, Got: ack, Err: ErrUnexpectedByte}
	}
	s.LastAck = ack
	return nil
}

func handshakeErr(stage string, err error, want ...byte) error {
	if errors.Is(err, ErrTimeout) {
		return &HandshakeError{Stage: stage, Want: want, Err: err}
	}
	return err
}

func (e *Engine) write(b byte) error {
	_, err := e.Transport.Write([]byte{b})
	return err
}

func (e *Engine) sink() buttons.KeySink {
	if e.Sink == nil {
		return buttons.Discard
	}
	return e.Sink
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) readTimeout() time.Duration {
	if e.ReadTimeout <= 0 {
		return DefaultReadTimeout
	}
	return e.ReadTimeout
}

func (e *Engine) keepAliveInterval() time.Duration {
	if e.KeepAliveInterval <= 0 {
		return DefaultKeepAliveInterval
	}
	return e.KeepAliveInterval
}
