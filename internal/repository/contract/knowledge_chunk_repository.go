package contract

import (
	"context"

	"parent-assistant-be/internal/entity"
	"parent-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredKnowledgeChunk wraps KnowledgeChunk with its cosine distance to the query
type ScoredKnowledgeChunk struct {
	Chunk    *entity.KnowledgeChunk
	Distance float64 // 0.0 = identical, lower is closer
}

// KnowledgeIndex is the part of the chunk store the assistant needs at
// runtime. Both the pgvector repository and the in-process one implement it.
type KnowledgeIndex interface {
	CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	DeleteByLevel(ctx context.Context, level string) error
	CountByLevel(ctx context.Context) (map[string]int64, error)
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*ScoredKnowledgeChunk, error)
}

type KnowledgeChunkRepository interface {
	KnowledgeIndex
	Create(ctx context.Context, chunk *entity.KnowledgeChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
