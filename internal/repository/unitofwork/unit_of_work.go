package unitofwork

import (
	"context"

	"parent-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
	ChatTranscriptRepository() contract.ChatTranscriptRepository
}
