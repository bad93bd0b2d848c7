package msgs

import (
	"time"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/remotelink/pkg/framework"
)

// ButtonEvent is emitted for every key output of the bridge.
type ButtonEvent struct {
	Button   string `protobuf:"bytes,1,opt,name=button,proto3" json:"button,omitempty"`
	Edge     string `protobuf:"bytes,2,opt,name=edge,proto3" json:"edge,omitempty"`
	Mask     uint32 `protobuf:"varint,3,opt,name=mask,proto3" json:"mask,omitempty"`
	UnixNano int64  `protobuf:"varint,4,opt,name=unix_nano,json=unixNano,proto3" json:"unix_nano,omitempty"`
}

// NewMessage implements Message.
func (m *ButtonEvent) NewMessage() fx.Message { return &ButtonEvent{} }

// TypeID implements SerializableMessage.
func (m *ButtonEvent) TypeID() uint32 { return ButtonEventTypeID }

// Serializable implements SerializableMessage.
func (m *ButtonEvent) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ButtonEvent) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ButtonEvent) Reset() { *m = ButtonEvent{} }

// String implements proto.Message.
func (m *ButtonEvent) String() string { return proto.CompactTextString(m) }

// Time returns the event time.
func (m *ButtonEvent) Time() time.Time { return time.Unix(0, m.UnixNano) }

// LinkStatus reflects the state of the serial link.
type LinkStatus struct {
	Initialized  bool   `protobuf:"varint,1,opt,name=initialized,proto3" json:"initialized,omitempty"`
	LastAck      uint32 `protobuf:"varint,2,opt,name=last_ack,json=lastAck,proto3" json:"last_ack,omitempty"`
	Buttons      uint32 `protobuf:"varint,3,opt,name=buttons,proto3" json:"buttons,omitempty"`
	LastActivity int64  `protobuf:"varint,4,opt,name=last_activity,json=lastActivity,proto3" json:"last_activity,omitempty"`
}

// NewMessage implements Message.
func (m *LinkStatus) NewMessage() fx.Message { return &LinkStatus{} }

// TypeID implements SerializableMessage.
func (m *LinkStatus) TypeID() uint32 { return LinkStatusTypeID }

// Serializable implements SerializableMessage.
func (m *LinkStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkStatus) Reset() { *m = LinkStatus{} }

// String implements proto.Message.
func (m *LinkStatus) String() string { return proto.CompactTextString(m) }

// BridgeMeta describes the bridge in the registry.
type BridgeMeta struct {
	Device  string   `json:"device,omitempty"`
	Baud    int      `json:"baud,omitempty"`
	KeySink string   `json:"key_sink,omitempty"`
	Buttons []string `json:"buttons,omitempty"`
}

// TypeID Groups
const (
	GroupRemote uint32 = 0x00010000
	GroupCustom uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	ButtonEventTypeID uint32 = GroupRemote | TypeIDKindEvent | 0x0000
	LinkStatusTypeID  uint32 = GroupRemote | TypeIDKindEvent | 0x0001
)
