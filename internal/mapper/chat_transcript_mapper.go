package mapper

import (
	"encoding/json"

	"parent-assistant-be/internal/entity"
	"parent-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type ChatTranscriptMapper struct{}

func NewChatTranscriptMapper() *ChatTranscriptMapper {
	return &ChatTranscriptMapper{}
}

func (m *ChatTranscriptMapper) ToEntity(t *model.ChatTranscript) *entity.ChatTranscript {
	if t == nil {
		return nil
	}

	var titles []string
	if len(t.ContextTitles) > 0 {
		_ = json.Unmarshal(t.ContextTitles, &titles)
	}

	return &entity.ChatTranscript{
		Id:            t.Id,
		SessionId:     t.SessionId,
		ThreadId:      t.ThreadId,
		Query:         t.Query,
		Answer:        t.Answer,
		Label:         t.Label,
		Destination:   t.Destination,
		Status:        t.Status,
		Levels:        []string(t.Levels),
		AddedLevels:   []string(t.AddedLevels),
		ContextTitles: titles,
		LatencyMs:     t.LatencyMs,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *ChatTranscriptMapper) ToModel(t *entity.ChatTranscript) *model.ChatTranscript {
	if t == nil {
		return nil
	}

	var titles datatypes.JSON
	if len(t.ContextTitles) > 0 {
		if raw, err := json.Marshal(t.ContextTitles); err == nil {
			titles = datatypes.JSON(raw)
		}
	}

	return &model.ChatTranscript{
		Id:            t.Id,
		SessionId:     t.SessionId,
		ThreadId:      t.ThreadId,
		Query:         t.Query,
		Answer:        t.Answer,
		Label:         t.Label,
		Destination:   t.Destination,
		Status:        t.Status,
		Levels:        datatypes.JSONSlice[string](t.Levels),
		AddedLevels:   datatypes.JSONSlice[string](t.AddedLevels),
		ContextTitles: titles,
		LatencyMs:     t.LatencyMs,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *ChatTranscriptMapper) ToEntities(transcripts []*model.ChatTranscript) []*entity.ChatTranscript {
	entities := make([]*entity.ChatTranscript, len(transcripts))
	for i, t := range transcripts {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
