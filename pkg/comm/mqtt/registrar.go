package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"

	"github.com/robotalks/remotelink/pkg/comm"
	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/msgs"
	"github.com/robotalks/remotelink/pkg/registry"
)

// Registrar implements registry.Registrar using MQTT.
//
// The meta is retained on <type>/<id>/meta while connected and cleared by
// the will when the bridge disappears. Events go to <type>/<id>/msg and
// the latest status is retained on <type>/<id>/status.
type Registrar struct {
	Queue *Queue
	Info  registry.Info

	metaJSON []byte
	pipe     comm.Pipe
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info registry.Info) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	ClearOnDisconnect(opts, prefix, info.Ref, TopicMeta)
	if opts.ClientID == "" {
		opts.SetClientID("remote:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts, prefix),
		Info:     info,
		metaJSON: meta,
	}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	r.pipe.ReadWriter = NewBridgeReadWriter(r.Queue, info.Ref)
	return r, nil
}

// SendEvent implements registry.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.pipe.SendMsg(msg)
}

// SetStatus implements registry.Registrar.
func (r *Registrar) SetStatus(ctx context.Context, msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	return Wait(r.Queue.Retain(r.Info.Ref, TopicStatus, pkt))
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	if err := r.Queue.Connect(); err != nil {
		glog.Warningf("mqtt connect: %v", err)
	}
	<-ctx.Done()
	r.Queue.Clear(r.Info.Ref, TopicStatus)
	Wait(r.Queue.Clear(r.Info.Ref, TopicMeta))
	return r.Queue.Close()
}

func (r *Registrar) onConnected() {
	r.Queue.Retain(r.Info.Ref, TopicMeta, r.metaJSON)
}
