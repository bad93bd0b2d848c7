package buttons

import (
	fx "github.com/robotalks/remotelink/pkg/framework"
)

// KeySink receives key output for logical buttons.
type KeySink interface {
	Press(Button) error
	Release(Button) error
}

// KeySinkFuncs adapts a pair of funcs to KeySink. Nil funcs are no-ops.
type KeySinkFuncs struct {
	PressFunc   func(Button) error
	ReleaseFunc func(Button) error
}

// Press implements KeySink.
func (f KeySinkFuncs) Press(b Button) error {
	if f.PressFunc == nil {
		return nil
	}
	return f.PressFunc(b)
}

// Release implements KeySink.
func (f KeySinkFuncs) Release(b Button) error {
	if f.ReleaseFunc == nil {
		return nil
	}
	return f.ReleaseFunc(b)
}

// Discard is a KeySink dropping all output.
var Discard KeySink = KeySinkFuncs{}

// Mux fans key output out to multiple sinks.
type Mux struct {
	Sinks []KeySink
}

// NewMux creates a Mux, skipping nil sinks.
func NewMux(sinks ...KeySink) *Mux {
	m := &Mux{}
	m.Add(sinks...)
	return m
}

// Add adds more sinks.
func (m *Mux) Add(sinks ...KeySink) {
	for _, s := range sinks {
		if s != nil {
			m.Sinks = append(m.Sinks, s)
		}
	}
}

// Press implements KeySink.
func (m *Mux) Press(b Button) error {
	var errs fx.AggregatedError
	for _, s := range m.Sinks {
		errs.Add(s.Press(b))
	}
	return errs.Aggregate()
}

// Release implements KeySink.
func (m *Mux) Release(b Button) error {
	var errs fx.AggregatedError
	for _, s := range m.Sinks {
		errs.Add(s.Release(b))
	}
	return errs.Aggregate()
}
