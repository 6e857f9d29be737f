package events

import (
	"context"
	"time"
)

// Event types published by the assistant.
const (
	TypeSessionCreated = "session.created"
	TypeLevelsChanged  = "levels.changed"
	TypeTurnCompleted  = "turn.completed"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "turn.completed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// SessionID returns the session the event belongs to, if any.
func SessionID(e Event) string {
	id, _ := e.Payload()["session_id"].(string)
	return id
}

// Publisher sends events to whatever bus is configured.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Handler processes one event.
type Handler func(ctx context.Context, event Event) error

func NewSessionCreated(sessionID, threadID string) BaseEvent {
	return BaseEvent{
		Type: TypeSessionCreated,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"thread_id":  threadID,
		},
		OccurredAt: time.Now(),
	}
}

func NewLevelsChanged(sessionID string, levels []string, announcement string) BaseEvent {
	return BaseEvent{
		Type: TypeLevelsChanged,
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"levels":       levels,
			"announcement": announcement,
		},
		OccurredAt: time.Now(),
	}
}

func NewTurnCompleted(sessionID, threadID, label, destination, status string, latency time.Duration) BaseEvent {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"thread_id":   threadID,
			"label":       label,
			"destination": destination,
			"status":      status,
			"latency_ms":  latency.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}
