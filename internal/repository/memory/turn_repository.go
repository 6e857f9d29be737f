package memory

import (
	"context"
	"sync"
	"time"

	"parent-assistant-be/pkg/rag/history"

	"github.com/patrickmn/go-cache"
)

// TurnRepository keeps turn logs in process memory. Threads idle longer
// than the TTL are purged.
type TurnRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewTurnRepository(ttl time.Duration) *TurnRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &TurnRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *TurnRepository) Append(_ context.Context, threadID string, turn history.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var turns []history.Turn
	if x, found := r.cache.Get(threadID); found {
		turns = x.([]history.Turn)
	}
	// copy on write so slices handed out by List stay stable
	next := make([]history.Turn, len(turns), len(turns)+1)
	copy(next, turns)
	next = append(next, turn)

	r.cache.Set(threadID, next, cache.DefaultExpiration)
	return nil
}

func (r *TurnRepository) List(_ context.Context, threadID string) ([]history.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(threadID)
	if !found {
		return []history.Turn{}, nil
	}
	turns := x.([]history.Turn)
	// touch to slide the expiry
	r.cache.Set(threadID, turns, cache.DefaultExpiration)

	out := make([]history.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (r *TurnRepository) Delete(_ context.Context, threadID string) error {
	r.cache.Delete(threadID)
	return nil
}
