// Package remote wires the link engine to a serial port and key sinks.
package remote

import (
	"flag"
	"os"
	"time"

	"github.com/robotalks/remotelink/pkg/keysink"
	"github.com/robotalks/remotelink/pkg/msgs"
	"github.com/robotalks/remotelink/pkg/remote/buttons"
	"github.com/robotalks/remotelink/pkg/remote/link"
	"github.com/robotalks/remotelink/pkg/remote/wire"
	"github.com/robotalks/remotelink/pkg/serial"
)

// Config defines the configurations of the bridge.
type Config struct {
	Device            string
	Baud              int
	ReadTimeout       time.Duration
	KeepAliveInterval time.Duration
	PollInterval      time.Duration
	PowerCycle        bool
	PowerOff          time.Duration
	RTSInverted       bool
	Keys              string
	Verbose           bool
}

// Defaults
const (
	DefaultDevice   = "/dev/ttyUSB0"
	DefaultPowerOff = 400 * time.Millisecond
)

var defaultConfig = Config{
	Device:            DefaultDevice,
	Baud:              wire.BaudRate,
	ReadTimeout:       link.DefaultReadTimeout,
	KeepAliveInterval: link.DefaultKeepAliveInterval,
	PollInterval:      link.DefaultPollInterval,
	PowerCycle:        true,
	PowerOff:          DefaultPowerOff,
	RTSInverted:       true,
	Keys:              keysink.KindUInput,
}

func init() {
	if val := os.Getenv("REMOTE_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Serial device connected to the remote.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial line speed.")
	flag.DurationVar(&defaultConfig.ReadTimeout, "read-timeout", defaultConfig.ReadTimeout, "Timeout of a single read from the remote.")
	flag.DurationVar(&defaultConfig.KeepAliveInterval, "keepalive", defaultConfig.KeepAliveInterval, "Idle time before a keep-alive is sent.")
	flag.DurationVar(&defaultConfig.PollInterval, "poll", defaultConfig.PollInterval, "Interval of polling the serial line.")
	flag.BoolVar(&defaultConfig.PowerCycle, "power-cycle", defaultConfig.PowerCycle, "Power cycle the remote through RTS on start.")
	flag.DurationVar(&defaultConfig.PowerOff, "power-off", defaultConfig.PowerOff, "How long the remote stays off when power cycled.")
	flag.BoolVar(&defaultConfig.RTSInverted, "rts-inverted", defaultConfig.RTSInverted, "RTS low powers the remote.")
	flag.StringVar(&defaultConfig.Keys, "keys", defaultConfig.Keys, "Key output: uinput, log or none.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Log commands and button transitions.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// SerialConfig returns the serial port settings.
func (c *Config) SerialConfig() serial.Config {
	return serial.Config{Name: c.Device, Baud: c.Baud, InvertRTS: c.RTSInverted}
}

// NewEngine creates the link engine using the config.
func (c *Config) NewEngine(t link.Transport, sink buttons.KeySink) *link.Engine {
	e := link.NewEngine(t, sink)
	if c.ReadTimeout > 0 {
		e.ReadTimeout = c.ReadTimeout
	}
	if c.KeepAliveInterval > 0 {
		e.KeepAliveInterval = c.KeepAliveInterval
	}
	if c.PollInterval > 0 {
		e.PollInterval = c.PollInterval
	}
	return e
}

// BridgeMeta describes the bridge for the registry.
func (c *Config) BridgeMeta() *msgs.BridgeMeta {
	meta := &msgs.BridgeMeta{Device: c.Device, Baud: c.Baud, KeySink: c.Keys}
	for _, b := range buttons.All {
		meta.Buttons = append(meta.Buttons, b.String())
	}
	return meta
}
