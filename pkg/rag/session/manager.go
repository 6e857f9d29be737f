package session

import (
	"context"
	"time"

	"parent-assistant-be/pkg/rag/history"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const DefaultTTL = 2 * time.Hour

// Manager creates sessions and keeps them alive while they are in use.
// Idle sessions expire after the configured TTL.
type Manager struct {
	cache    *cache.Cache
	pipeline *Pipeline
	store    history.TurnStore
	ttl      time.Duration
}

// NewManager creates a new session manager
func NewManager(pipeline *Pipeline, store history.TurnStore, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := cache.New(ttl, 10*time.Minute)
	c.OnEvicted(func(id string, _ interface{}) {
		pipeline.Logger.Debug("SessionManager", "Session evicted", map[string]interface{}{
			"session_id": id,
		})
	})
	return &Manager{
		cache:    c,
		pipeline: pipeline,
		store:    store,
		ttl:      ttl,
	}
}

func (m *Manager) CreateSession() *Session {
	s := newSession(uuid.NewString(), m.pipeline, m.store)
	m.cache.Set(s.id, s, cache.DefaultExpiration)

	m.pipeline.Logger.Info("SessionManager", "Session created", map[string]interface{}{
		"session_id": s.id,
		"thread_id":  s.ThreadID(),
	})
	return s
}

// Get returns the session and refreshes its expiry.
func (m *Manager) Get(id string) (*Session, error) {
	x, found := m.cache.Get(id)
	if !found {
		return nil, ErrNotFound
	}
	s := x.(*Session)
	m.cache.Set(id, s, cache.DefaultExpiration)
	return s, nil
}

// Delete drops the session and its current thread.
func (m *Manager) Delete(ctx context.Context, id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	m.cache.Delete(id)
	if err := s.discard(ctx); err != nil {
		m.pipeline.Logger.Warn("SessionManager", "Dropping thread failed", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
	}
	return nil
}

func (m *Manager) Count() int {
	return m.cache.ItemCount()
}
