package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"parent-assistant-be/internal/dto"
	"parent-assistant-be/internal/entity"
	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/internal/repository/contract"
	"parent-assistant-be/internal/repository/unitofwork"
	"parent-assistant-be/pkg/embedding"
	"parent-assistant-be/pkg/rag/level"
	"parent-assistant-be/pkg/rag/search"

	"github.com/google/uuid"
)

type IKnowledgeService interface {
	search.VectorIndex

	// Seed loads chunks/<level>.json for every level found in dir, embeds
	// them and replaces the stored chunks of that level. It returns the
	// number of chunks stored per level.
	Seed(ctx context.Context, dir string) (map[string]int, error)

	Stats(ctx context.Context) (map[string]int64, error)
}

type knowledgeService struct {
	index      contract.KnowledgeIndex
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	logger     logger.ILogger
}

// NewKnowledgeService serves nearest-neighbour lookups from index. Seeding
// goes through a transaction when uowFactory is set and straight into
// index otherwise.
func NewKnowledgeService(
	index contract.KnowledgeIndex,
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		index:      index,
		uowFactory: uowFactory,
		embedder:   embedder,
		logger:     log,
	}
}

func (s *knowledgeService) Nearest(ctx context.Context, vector []float32, n int) ([]search.Candidate, error) {
	scored, err := s.index.SearchSimilar(ctx, vector, n)
	if err != nil {
		return nil, err
	}

	out := make([]search.Candidate, 0, len(scored))
	for _, sc := range scored {
		out = append(out, search.Candidate{
			Content: sc.Chunk.Content,
			Level:   sc.Chunk.Level,
			Title:   sc.Chunk.Title,
			Score:   sc.Distance,
		})
	}
	return out, nil
}

func (s *knowledgeService) Stats(ctx context.Context) (map[string]int64, error) {
	return s.index.CountByLevel(ctx)
}

func (s *knowledgeService) Seed(ctx context.Context, dir string) (map[string]int, error) {
	seeded := make(map[string]int)

	for _, lv := range level.All {
		path := filepath.Join(dir, string(lv)+".json")
		items, err := loadChunkFile(path)
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("KnowledgeService", "Chunk file not found, skipping", map[string]interface{}{"path": path})
			continue
		}
		if err != nil {
			return seeded, err
		}

		chunks, err := s.embedChunks(ctx, lv, path, items)
		if err != nil {
			return seeded, err
		}

		if err := s.replaceLevel(ctx, string(lv), chunks); err != nil {
			return seeded, fmt.Errorf("store %s chunks: %w", lv, err)
		}

		seeded[string(lv)] = len(chunks)
		s.logger.Info("KnowledgeService", "Level seeded", map[string]interface{}{
			"level":  string(lv),
			"chunks": len(chunks),
		})
	}

	return seeded, nil
}

func loadChunkFile(path string) ([]dto.KnowledgeChunkItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []dto.KnowledgeChunkItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return items, nil
}

func (s *knowledgeService) embedChunks(ctx context.Context, lv level.Level, path string, items []dto.KnowledgeChunkItem) ([]*entity.KnowledgeChunk, error) {
	source := filepath.Base(path)
	now := time.Now()

	chunks := make([]*entity.KnowledgeChunk, 0, len(items))
	for i, item := range items {
		chunk := &entity.KnowledgeChunk{
			Id:            uuid.New(),
			Level:         string(lv),
			Title:         item.Title,
			Question:      item.Question,
			EmbeddingHint: item.EmbeddingHint,
			Content:       item.Content,
			SourceFile:    source,
			ChunkIndex:    item.ChunkIndex,
			CreatedAt:     now,
		}
		if item.Source != "" {
			chunk.SourceFile = item.Source
		}
		// the file's own level wins over a mislabelled entry
		if item.Level != "" && item.Level != string(lv) {
			s.logger.Warn("KnowledgeService", "Chunk level differs from file level", map[string]interface{}{
				"file":  source,
				"index": i,
				"level": item.Level,
			})
		}

		text := chunk.EmbeddingText()
		if text == "" {
			continue
		}

		vec, err := s.embedder.Embed(ctx, text, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed %s chunk %d: %w", source, i, err)
		}
		chunk.Embedding = vec
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func (s *knowledgeService) replaceLevel(ctx context.Context, lv string, chunks []*entity.KnowledgeChunk) error {
	if s.uowFactory == nil {
		if err := s.index.DeleteByLevel(ctx, lv); err != nil {
			return err
		}
		return s.index.CreateBulk(ctx, chunks)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.KnowledgeChunkRepository().DeleteByLevel(ctx, lv); err != nil {
		return err
	}
	if len(chunks) > 0 {
		if err := uow.KnowledgeChunkRepository().CreateBulk(ctx, chunks); err != nil {
			return err
		}
	}
	return uow.Commit()
}
