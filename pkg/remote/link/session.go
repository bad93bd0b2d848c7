package link

import (
	"time"

	"github.com/robotalks/remotelink/pkg/remote/buttons"
	"github.com/robotalks/remotelink/pkg/remote/wire"
)

// Session is the link state owned by an Engine.
type Session struct {
	// LastAck is the last acknowledgement byte received from the remote,
	// 0 until one was received.
	LastAck byte
	// LastButtons is the last decoded button report.
	LastButtons buttons.Mask
	// LastActivity is the time of the last successful exchange.
	LastActivity time.Time
	// Initialized is set by the first complete button report and
	// cleared by any handshake failure. Keep-alives are only sent while
	// it is set.
	Initialized bool
}

// HasAck reports whether an acknowledgement was received.
func (s Session) HasAck() bool {
	return wire.IsAck(s.LastAck)
}

// IdleFor returns the time since the last activity.
func (s Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}

// StateNotifier is called when Session.Initialized flips.
type StateNotifier interface {
	LinkStateChanged(Session)
}

// LinkStateChangedFunc is the func form of StateNotifier.
type LinkStateChangedFunc func(Session)

// LinkStateChanged implements StateNotifier.
func (f LinkStateChangedFunc) LinkStateChanged(s Session) {
	f(s)
}
