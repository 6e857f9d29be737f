package contract

import (
	"context"

	"parent-assistant-be/internal/entity"
	"parent-assistant-be/internal/repository/specification"
)

type ChatTranscriptRepository interface {
	Create(ctx context.Context, transcript *entity.ChatTranscript) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTranscript, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
