package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"parent-assistant-be/internal/entity"
	"parent-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
)

// KnowledgeRepository is a brute-force vector index held in process memory.
// It serves development setups without Postgres.
type KnowledgeRepository struct {
	mu     sync.RWMutex
	chunks []*entity.KnowledgeChunk
}

var _ contract.KnowledgeIndex = (*KnowledgeRepository)(nil)

func NewKnowledgeRepository() *KnowledgeRepository {
	return &KnowledgeRepository{}
}

func (r *KnowledgeRepository) CreateBulk(_ context.Context, chunks []*entity.KnowledgeChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, c := range chunks {
		if c.Id == uuid.Nil {
			c.Id = uuid.New()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		stored := *c
		stored.Embedding = append([]float32(nil), c.Embedding...)
		r.chunks = append(r.chunks, &stored)
	}
	return nil
}

func (r *KnowledgeRepository) DeleteByLevel(_ context.Context, level string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.chunks[:0]
	for _, c := range r.chunks {
		if c.Level != level {
			kept = append(kept, c)
		}
	}
	r.chunks = kept
	return nil
}

func (r *KnowledgeRepository) CountByLevel(_ context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, c := range r.chunks {
		counts[c.Level]++
	}
	return counts, nil
}

// SearchSimilar scores every chunk by cosine distance and returns the
// closest ones. Ties keep insertion order.
func (r *KnowledgeRepository) SearchSimilar(_ context.Context, embedding []float32, limit int) ([]*contract.ScoredKnowledgeChunk, error) {
	if limit <= 0 {
		limit = 8
	}

	r.mu.RLock()
	scored := make([]*contract.ScoredKnowledgeChunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		if len(c.Embedding) != len(embedding) {
			continue
		}
		copied := *c
		scored = append(scored, &contract.ScoredKnowledgeChunk{
			Chunk:    &copied,
			Distance: cosineDistance(embedding, c.Embedding),
		})
	}
	r.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func cosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
