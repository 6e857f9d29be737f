package mapper

import (
	"time"

	"parent-assistant-be/internal/entity"
	"parent-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type KnowledgeChunkMapper struct{}

func NewKnowledgeChunkMapper() *KnowledgeChunkMapper {
	return &KnowledgeChunkMapper{}
}

func (m *KnowledgeChunkMapper) ToEntity(c *model.KnowledgeChunk) *entity.KnowledgeChunk {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeChunk{
		Id:            c.Id,
		Level:         c.Level,
		Title:         c.Title,
		Question:      c.Question,
		EmbeddingHint: c.EmbeddingHint,
		Content:       c.Content,
		SourceFile:    c.SourceFile,
		ChunkIndex:    c.ChunkIndex,
		Embedding:     c.Embedding.Slice(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *KnowledgeChunkMapper) ToModel(c *entity.KnowledgeChunk) *model.KnowledgeChunk {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.KnowledgeChunk{
		Id:            c.Id,
		Level:         c.Level,
		Title:         c.Title,
		Question:      c.Question,
		EmbeddingHint: c.EmbeddingHint,
		Content:       c.Content,
		SourceFile:    c.SourceFile,
		ChunkIndex:    c.ChunkIndex,
		Embedding:     pgvector.NewVector(c.Embedding),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *KnowledgeChunkMapper) ToEntities(chunks []*model.KnowledgeChunk) []*entity.KnowledgeChunk {
	entities := make([]*entity.KnowledgeChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *KnowledgeChunkMapper) ToModels(chunks []*entity.KnowledgeChunk) []*model.KnowledgeChunk {
	models := make([]*model.KnowledgeChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
