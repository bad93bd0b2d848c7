// Package env assembles the identity and registrars of a bridge.
package env

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/remotelink/pkg/comm/mqtt"
	"github.com/robotalks/remotelink/pkg/comm/websocket"
	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/registry"
)

// DefaultType is the registry type of the bridge.
const DefaultType = "psp-remote"

// Config provides common options to setup an env for the bridge.
type Config struct {
	Info registry.Info

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// WebsocketAddr is the listen address of the websocket server.
	WebsocketAddr string
}

var defaultConfig = Config{
	Info: registry.Info{
		Ref:  registry.Ref{Type: DefaultType},
		Meta: registry.Meta{Description: "PSP remote bridge"},
	},
}

func init() {
	if val := os.Getenv("REMOTE_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("REMOTE_WS_ADDR"); val != "" {
		defaultConfig.WebsocketAddr = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	if defaultConfig.Info.Ref.ID == "" {
		defaultConfig.Info.Ref.ID = MachineID()
	}
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Bridge type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Bridge ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket listen address, empty to disable")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env is the env of the bridge.
type Env struct {
	Config    *Config
	Registrar *registry.Mux
	Websocket *websocket.Server
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	env := &Env{
		Config:    c,
		Registrar: &registry.Mux{},
	}
	if c.MQTTBrokerURL != "" {
		if !c.Info.Ref.IsValid() {
			return nil, fmt.Errorf("bridge type and id must be specified")
		}
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %w", err)
		}
		env.Registrar.Add(reg)
	}
	if c.WebsocketAddr != "" {
		env.Websocket = websocket.NewServer(c.WebsocketAddr)
		env.Registrar.Add(env.Websocket)
	}
	if len(env.Registrar.Registrars) == 0 {
		glog.Info("no registrar configured, events are not published")
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		glog.Fatalln(err)
	}
	return env
}

// AddToLoop adds registrars to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
}
