package service

import (
	"context"
	"encoding/json"

	"parent-assistant-be/internal/dto"
	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/pkg/events"
	"parent-assistant-be/pkg/rag/session"
)

// TranscriptObserver queues a transcript and publishes turn.completed for
// every finished turn. Failures never reach the parent; they are logged.
type TranscriptObserver struct {
	publisherService IPublisherService
	eventPublisher   events.Publisher
	logger           logger.ILogger
}

var _ session.TurnObserver = (*TranscriptObserver)(nil)

func NewTranscriptObserver(publisherService IPublisherService, eventPublisher events.Publisher, log logger.ILogger) *TranscriptObserver {
	return &TranscriptObserver{
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (o *TranscriptObserver) TurnCompleted(ctx context.Context, r session.TurnRecord) {
	if o.publisherService != nil {
		msgJson, err := json.Marshal(dto.TranscriptMessage{
			SessionId:     r.SessionID,
			ThreadId:      r.ThreadID,
			Query:         r.Query,
			Answer:        r.Answer,
			Label:         string(r.Label),
			Destination:   string(r.Destination),
			Status:        string(r.Status),
			Levels:        r.Levels,
			AddedLevels:   r.AddedLevels,
			ContextTitles: r.ContextTitles,
			LatencyMs:     r.Latency.Milliseconds(),
			CompletedAt:   r.CompletedAt,
		})
		if err == nil {
			err = o.publisherService.Publish(ctx, msgJson)
		}
		if err != nil {
			o.logger.Warn("TranscriptObserver", "Failed to queue transcript", map[string]interface{}{
				"session_id": r.SessionID,
				"error":      err.Error(),
			})
		}
	}

	if o.eventPublisher != nil {
		evt := events.NewTurnCompleted(r.SessionID, r.ThreadID, string(r.Label), string(r.Destination), string(r.Status), r.Latency)
		if err := o.eventPublisher.Publish(ctx, evt); err != nil {
			o.logger.Warn("TranscriptObserver", "Failed to publish turn.completed event", map[string]interface{}{
				"session_id": r.SessionID,
				"error":      err.Error(),
			})
		}
	}
}
