package service

import (
	"context"
	"encoding/json"

	"parent-assistant-be/internal/dto"
	"parent-assistant-be/internal/entity"
	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

// NewConsumerService stores every queued transcript. With a nil uowFactory
// (no database configured) transcripts are only logged.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TranscriptMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("TranscriptConsumer", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // malformed payloads would fail forever
		return
	}

	if cs.uowFactory == nil {
		cs.logger.Info("TranscriptConsumer", "Turn transcript", map[string]interface{}{
			"session_id": payload.SessionId,
			"label":      payload.Label,
			"status":     payload.Status,
			"latency_ms": payload.LatencyMs,
		})
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("TranscriptConsumer", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	transcript := toTranscriptEntity(&payload)
	if err := uow.ChatTranscriptRepository().Create(ctx, transcript); err != nil {
		cs.logger.Error("TranscriptConsumer", "Failed to store transcript", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("TranscriptConsumer", "Failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Debug("TranscriptConsumer", "Transcript stored", map[string]interface{}{
		"transcript_id": transcript.Id.String(),
		"session_id":    payload.SessionId,
	})
	msg.Ack()
}

func toTranscriptEntity(m *dto.TranscriptMessage) *entity.ChatTranscript {
	return &entity.ChatTranscript{
		Id:            uuid.New(),
		SessionId:     m.SessionId,
		ThreadId:      m.ThreadId,
		Query:         m.Query,
		Answer:        m.Answer,
		Label:         m.Label,
		Destination:   m.Destination,
		Status:        m.Status,
		Levels:        m.Levels,
		AddedLevels:   m.AddedLevels,
		ContextTitles: m.ContextTitles,
		LatencyMs:     m.LatencyMs,
		CreatedAt:     m.CompletedAt,
	}
}
