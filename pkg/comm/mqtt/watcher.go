package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/remotelink/pkg/msgs"
	"github.com/robotalks/remotelink/pkg/registry"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Watcher finds bridges on the broker and follows their events.
type Watcher struct {
	Queue           *Queue
	DiscoverTimeout time.Duration
}

// NewWatcher creates a Watcher and connects it to the broker.
func NewWatcher(brokerURL string) (*Watcher, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	return &Watcher{Queue: q, DiscoverTimeout: DefaultDiscoverTimeout}, nil
}

// Close implements io.Closer.
func (w *Watcher) Close() error {
	return w.Queue.Close()
}

// ParseInfo parses a retained meta message. A cleared meta means the
// bridge is gone and reports false.
func ParseInfo(msg *Message) (registry.Info, bool) {
	if msg.Kind != TopicMeta || msg.Cleared() {
		return registry.Info{}, false
	}
	info := registry.Info{Ref: msg.Ref}
	if err := json.Unmarshal(msg.Payload, &info.Meta); err != nil {
		glog.Warningf("%s: bad meta: %v", msg.Topic(), err)
	}
	return info, true
}

// Discover enumerates registered bridges.
func (w *Watcher) Discover(ctx context.Context) (res []registry.Info, err error) {
	resCh := make(chan registry.Info, 1)
	sub := w.Queue.Sub(Selector{Kind: TopicMeta}, func(msg *Message) {
		if info, ok := ParseInfo(msg); ok {
			select {
			case resCh <- info:
			case <-time.After(time.Second):
			}
		}
	})
	defer sub.Close()

	dur := w.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-timeout:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// Watch calls fn for every event of the bridge until the returned
// subscription is closed.
func (w *Watcher) Watch(ref registry.Ref, fn func(*msgs.Typed)) *Subscription {
	return w.Queue.Sub(Select(ref, TopicMsg), func(msg *Message) {
		typed, err := msgs.DecodeTyped(msg.Payload)
		if err != nil {
			glog.Warningf("%s: bad message: %v", msg.Topic(), err)
			return
		}
		fn(typed)
	})
}

// Status retrieves the retained link status of the bridge.
func (w *Watcher) Status(ctx context.Context, ref registry.Ref) (*msgs.LinkStatus, error) {
	ch := make(chan []byte, 1)
	sub := w.Queue.Sub(Select(ref, TopicStatus), func(msg *Message) {
		select {
		case ch <- msg.Payload:
		default:
		}
	})
	defer sub.Close()

	dur := w.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	select {
	case payload := <-ch:
		return DecodeStatus(payload)
	case <-time.After(dur):
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DecodeStatus decodes a status payload, nil if empty.
func DecodeStatus(payload []byte) (*msgs.LinkStatus, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		return nil, err
	}
	msg, err := typed.Decode()
	if err != nil {
		return nil, err
	}
	st, ok := msg.(*msgs.LinkStatus)
	if !ok {
		return nil, &msgs.ErrUnknownType{TypeID: typed.TypeId}
	}
	return st, nil
}
