package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parent-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

// Turn is one immutable entry of a conversation thread.
type Turn struct {
	Role      string    `json:"role"` // llm.RoleUser | llm.RoleAssistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnStore persists append-only turn logs keyed by thread id.
type TurnStore interface {
	Append(ctx context.Context, threadID string, turn Turn) error
	List(ctx context.Context, threadID string) ([]Turn, error)
	Delete(ctx context.Context, threadID string) error
}

// Memory is the conversation log of one session, bound to its current thread.
type Memory struct {
	mu       sync.RWMutex
	store    TurnStore
	threadID string
	now      func() time.Time
}

func NewMemory(store TurnStore) *Memory {
	return &Memory{
		store:    store,
		threadID: uuid.NewString(),
		now:      time.Now,
	}
}

func (m *Memory) ThreadID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.threadID
}

// Append adds a turn to the current thread.
func (m *Memory) Append(ctx context.Context, role, content string) error {
	turn := Turn{Role: role, Content: content, Timestamp: m.now()}
	if err := m.store.Append(ctx, m.ThreadID(), turn); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// Read returns the last window turns in chronological order. window <= 0
// returns the whole log. The stored log is never modified.
func (m *Memory) Read(ctx context.Context, window int) ([]Turn, error) {
	turns, err := m.store.List(ctx, m.ThreadID())
	if err != nil {
		return nil, fmt.Errorf("read turns: %w", err)
	}
	return Window(turns, window), nil
}

// Reset abandons the current thread and starts a fresh one.
func (m *Memory) Reset(ctx context.Context) (string, error) {
	m.mu.Lock()
	old := m.threadID
	m.threadID = uuid.NewString()
	next := m.threadID
	m.mu.Unlock()

	if err := m.store.Delete(ctx, old); err != nil {
		return next, fmt.Errorf("drop thread %s: %w", old, err)
	}
	return next, nil
}

// Window copies the last n turns. n <= 0 copies everything.
func Window(turns []Turn, n int) []Turn {
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// ToMessages converts turns into provider messages.
func ToMessages(turns []Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := llm.RoleUser
		if t.Role == llm.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: t.Content})
	}
	return messages
}
