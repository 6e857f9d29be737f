package search

import (
	"context"
	"fmt"
	"time"

	"parent-assistant-be/pkg/embedding"
)

// VectorIndex returns the n stored passages nearest to vector, closest first.
type VectorIndex interface {
	Nearest(ctx context.Context, vector []float32, n int) ([]Candidate, error)
}

// EmbeddingSearcher embeds the query and asks the index for neighbours.
type EmbeddingSearcher struct {
	embedder embedding.EmbeddingProvider
	index    VectorIndex
	timeout  time.Duration
}

var _ Searcher = (*EmbeddingSearcher)(nil)

func NewEmbeddingSearcher(embedder embedding.EmbeddingProvider, index VectorIndex, timeout time.Duration) *EmbeddingSearcher {
	return &EmbeddingSearcher{embedder: embedder, index: index, timeout: timeout}
}

func (s *EmbeddingSearcher) Search(ctx context.Context, query string, n int) ([]Candidate, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	vector, err := s.embedder.Embed(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := s.index.Nearest(ctx, vector, n)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return candidates, nil
}
