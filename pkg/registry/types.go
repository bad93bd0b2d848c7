// Package registry announces a remote bridge and delivers its events to
// subscribers.
package registry

import (
	"context"

	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/msgs"
)

// Registrar registers a bridge to a registry and publishes its events.
type Registrar interface {
	// SendEvent sends an event to subscribers.
	SendEvent(context.Context, fx.Message) error
	// SetStatus replaces the retained status of the bridge.
	SetStatus(context.Context, fx.Message) error
}

// Ref is a reference to a bridge.
type Ref struct {
	// Type is the bridge type.
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r Ref) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates Ref is valid.
func (r Ref) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// Meta provides metadata of a bridge.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Bridge      *msgs.BridgeMeta  `json:"bridge,omitempty"`
}

// Info provides information of a bridge.
type Info struct {
	Ref  Ref
	Meta Meta
}

// Mux publishes to multiple Registrars.
type Mux struct {
	Registrars []Registrar
}

// SendEvent implements Registrar.
func (r *Mux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range r.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// SetStatus implements Registrar.
func (r *Mux) SetStatus(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range r.Registrars {
		errs.Add(reg.SetStatus(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *Mux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		} else if runnable, ok := reg.(fx.Runnable); ok {
			l.AddRunnable(runnable)
		}
	}
}

// Add adds more registrars.
func (r *Mux) Add(regs ...Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}
