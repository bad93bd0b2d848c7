package buttons

import (
	"fmt"

	fx "github.com/robotalks/remotelink/pkg/framework"
)

// Edge is the direction of a button transition.
type Edge int

// Edges.
const (
	Pressed Edge = iota + 1
	Released
)

// String implements fmt.Stringer.
func (e Edge) String() string {
	switch e {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	}
	return fmt.Sprintf("edge(%d)", int(e))
}

// Event is a transition of one button between two reports.
type Event struct {
	Button Button
	Edge   Edge
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return e.Button.String() + " " + e.Edge.String()
}

// Edges computes the transitions from oldMask to newMask, one per
// button whose bit differs, in bit order.
func Edges(newMask, oldMask Mask) []Event {
	var events []Event
	for _, b := range All {
		switch now, was := newMask.Has(b), oldMask.Has(b); {
		case now && !was:
			events = append(events, Event{Button: b, Edge: Pressed})
		case !now && was:
			events = append(events, Event{Button: b, Edge: Released})
		}
	}
	return events
}

// Decode applies the transitions from oldMask to newMask to the sink.
// Pressed maps to Press and Released to Release, except for pulse
// buttons (HOLD) where either edge becomes Press followed by Release.
// A sink failure on one button does not stop the others; all failures
// are returned together.
func Decode(newMask, oldMask Mask, sink KeySink) error {
	var errs fx.AggregatedError
	for _, ev := range Edges(newMask, oldMask) {
		errs.Add(Apply(ev, sink))
	}
	return errs.Aggregate()
}

// Apply applies a single transition to the sink.
func Apply(ev Event, sink KeySink) error {
	if ev.Button.Pulse() {
		if err := sink.Press(ev.Button); err != nil {
			return &SinkError{Event: ev, Err: err}
		}
		if err := sink.Release(ev.Button); err != nil {
			return &SinkError{Event: ev, Err: err}
		}
		return nil
	}
	var err error
	switch ev.Edge {
	case Pressed:
		err = sink.Press(ev.Button)
	case Released:
		err = sink.Release(ev.Button)
	}
	if err != nil {
		return &SinkError{Event: ev, Err: err}
	}
	return nil
}

// SinkError is a key sink failure while applying an event.
type SinkError struct {
	Event Event
	Err   error
}

// Error implements error.
func (e *SinkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Event, e.Err)
}

// Unwrap returns the sink error.
func (e *SinkError) Unwrap() error {
	return e.Err
}
