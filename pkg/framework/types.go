package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Message is anything queued on a Loop for controllers to consume.
type Message interface {
	// NewMessage creates an empty message of the same kind.
	NewMessage() Message
}

// Controller is invoked once per Loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext is the view of a single Loop iteration.
type ControlContext interface {
	// Context retrieves the context.Context of the iteration.
	Context() context.Context
	// Time is the time the iteration started.
	Time() time.Time
	// PriorityLevel is the level of the controller being run.
	PriorityLevel() int
	// Messages is the store of messages collected when the
	// iteration started.
	Messages() MessageStore

	LoopControl
}

// LoopControl exposes access to the running Loop.
type LoopControl interface {
	// PostMessage enqueues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext schedules the next iteration immediately after
	// the current one instead of waiting for the interval.
	TriggerNext()
}

// MessageStore provides access to the messages of an iteration.
type MessageStore interface {
	// ProcessMessages walks all messages with the processor.
	ProcessMessages(MessageProcessor)
	// Len is the number of messages left in the store.
	Len() int
}

// MessageProcessor is used by MessageStore to process messages.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext is the context of the message being processed.
type MessageProcessingContext interface {
	// CurrentMessage gets the message being processed.
	CurrentMessage() Message
	// MessageTaken removes the message from the store.
	MessageTaken()
}

// PriorityLevels is the total number of priority levels.
const PriorityLevels int = 16

// Predefined priority levels.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense is where input devices are polled.
	PrLvSense = PrLvHigh
	// PrLvControl is where decisions are made.
	PrLvControl = PrLvNormal
	// PrLvPostProc is where results are published.
	PrLvPostProc = PrLvIdle - 1
)
