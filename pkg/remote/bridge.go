package remote

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/remotelink/pkg/events"
	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/keysink"
	"github.com/robotalks/remotelink/pkg/registry"
	"github.com/robotalks/remotelink/pkg/remote/buttons"
	"github.com/robotalks/remotelink/pkg/remote/link"
	"github.com/robotalks/remotelink/pkg/serial"
)

// Bridge owns the serial port, key output and the link engine.
type Bridge struct {
	Config    *Config
	Port      *serial.Port
	Keys      keysink.Sink
	Publisher *events.Publisher
	Engine    *link.Engine
}

// NewBridge opens the serial port and the key sink. Events are
// published to reg.
func (c *Config) NewBridge(reg registry.Registrar) (*Bridge, error) {
	keys, err := keysink.New(c.Keys)
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(c.SerialConfig())
	if err != nil {
		keys.Close()
		return nil, fmt.Errorf("open %s: %w", c.Device, err)
	}
	b := &Bridge{
		Config:    c,
		Port:      port,
		Keys:      keys,
		Publisher: events.NewPublisher(reg, nil),
	}
	sink := buttons.NewMux(keys, b.Publisher)
	if c.Verbose {
		sink.Add(keysink.NewLogger(keysink.DefaultKeyMap))
	}
	b.Engine = c.NewEngine(port, sink)
	b.Engine.Notifier = b.Publisher
	return b, nil
}

// Name implements Named.
func (b *Bridge) Name() string {
	return "bridge"
}

// AddToLoop implements LoopAdder.
func (b *Bridge) AddToLoop(loop *fx.Loop) {
	loop.Add(b.Publisher)
}

// Run implements Runnable. It power cycles the remote and runs the engine
// until ctx is done or the serial line fails.
func (b *Bridge) Run(ctx context.Context) error {
	defer b.Close()
	if b.Config.PowerCycle {
		glog.Infof("power cycling remote on %s", b.Port.Name())
		if err := link.PowerCycle(ctx, b.Port, b.Config.PowerOff); err != nil {
			return fmt.Errorf("power cycle: %w", err)
		}
	}
	// the remote starts the session, so a fresh line is silent.
	b.Publisher.LinkStateChanged(b.Engine.Session())
	err := b.Engine.Run(ctx)
	if err != nil && err != context.Canceled {
		glog.Errorf("link stopped: %v", err)
	}
	return err
}

// Close releases the port and key sink.
func (b *Bridge) Close() error {
	var errs fx.AggregatedError
	errs.Add(b.Port.Close())
	errs.Add(b.Keys.Close())
	return errs.Aggregate()
}
