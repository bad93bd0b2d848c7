package env

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/remotelink/pkg/registry"
)

func TestNewEnv(t *testing.T) {
	conf := &Config{
		Info:          registry.Info{Ref: registry.Ref{Type: DefaultType, ID: "abc"}},
		MQTTBrokerURL: "mqtt://localhost:1883/remote/",
		WebsocketAddr: "127.0.0.1:0",
	}
	env, err := conf.NewEnv()
	require.NoError(t, err)
	require.Len(t, env.Registrar.Registrars, 2)
	require.NotNil(t, env.Websocket)

	conf.MQTTBrokerURL = ""
	conf.WebsocketAddr = ""
	env, err = conf.NewEnv()
	require.NoError(t, err)
	require.Empty(t, env.Registrar.Registrars)
}

func TestNewEnvRequiresRef(t *testing.T) {
	conf := &Config{MQTTBrokerURL: "mqtt://localhost:1883/"}
	_, err := conf.NewEnv()
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, DefaultType, conf.Info.Ref.Type)
	require.False(t, Default() == conf)
}
