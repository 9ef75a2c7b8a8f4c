package meta

import "time"

// Event is a domain event recorded by an aggregate.
type Event interface {
	// EventName is the stable name handlers subscribe to.
	EventName() string
	// OccurredAt is the time the event was recorded.
	OccurredAt() time.Time
}

// EventBase carries the occurrence time shared by all domain events.
type EventBase struct {
	At time.Time `json:"occurredAt"`
}

// NewEventBase stamps an event with the current time.
func NewEventBase() EventBase {
	return EventBase{At: time.Now()}
}

func (e EventBase) OccurredAt() time.Time {
	return e.At
}

// EventSource is implemented by aggregates that buffer domain events.
type EventSource interface {
	PullEvents() []Event
}
