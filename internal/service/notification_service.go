package service

import (
	"context"
	"fmt"

	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/internal/websocket"
	"parent-assistant-be/pkg/events"
)

// SessionDelivery pushes frames to the sockets of one session.
// Implemented by the WebSocket Hub.
type SessionDelivery interface {
	Send(sessionID string, msg websocket.Message)
}

// EventSubscriber is the part of the NATS subscriber the service needs.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler events.Handler) error
}

// NotificationService forwards session events to the session's sockets.
type NotificationService struct {
	subscriber EventSubscriber
	delivery   SessionDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub EventSubscriber, delivery SessionDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus. Without a subscriber the
// service only receives what is passed to Handle directly.
func (s *NotificationService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}

	// all instances share the durable consumer; the hub fans out over redis
	if err := s.subscriber.Subscribe(ctx, ">", "assistant-notifier", s.Handle); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NotificationService", "Notification service started", nil)
	return nil
}

func (s *NotificationService) Handle(ctx context.Context, event events.Event) error {
	sessionID := events.SessionID(event)
	if sessionID == "" {
		s.logger.Warn("NotificationService", fmt.Sprintf("Event %s has no session_id", event.EventType()), nil)
		return nil
	}

	switch event.EventType() {
	case events.TypeLevelsChanged, events.TypeTurnCompleted:
	default:
		// nobody is connected before the first levels are chosen
		return nil
	}

	s.logger.Debug("NotificationService", "Forwarding event", map[string]interface{}{
		"type":       event.EventType(),
		"session_id": sessionID,
	})

	s.delivery.Send(sessionID, websocket.Message{
		Type: "event",
		Data: map[string]interface{}{
			"event":       event.EventType(),
			"payload":     event.Payload(),
			"occurred_at": event.Timestamp(),
		},
	})
	return nil
}
