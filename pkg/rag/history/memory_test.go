package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"parent-assistant-be/internal/repository/memory"
	"parent-assistant-be/pkg/llm"
	"parent-assistant-be/pkg/rag/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory() *history.Memory {
	return history.NewMemory(memory.NewTurnRepository(time.Hour))
}

func TestMemory_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	m := newMemory()

	for i := 0; i < 6; i++ {
		require.NoError(t, m.Append(ctx, llm.RoleUser, fmt.Sprintf("q%d", i)))
		require.NoError(t, m.Append(ctx, llm.RoleAssistant, fmt.Sprintf("a%d", i)))
	}

	all, err := m.Read(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 12)
	assert.Equal(t, "q0", all[0].Content)

	last3, err := m.Read(ctx, 3)
	require.NoError(t, err)
	require.Len(t, last3, 3)
	assert.Equal(t, []string{"a4", "q5", "a5"}, []string{last3[0].Content, last3[1].Content, last3[2].Content})

	// windowing never truncates the stored log
	last3[0].Content = "mutated"
	again, err := m.Read(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, again, 12)
	assert.Equal(t, "a4", again[9].Content)
}

func TestMemory_ResetMintsNewThread(t *testing.T) {
	ctx := context.Background()
	m := newMemory()
	require.NoError(t, m.Append(ctx, llm.RoleUser, "Merhaba"))

	old := m.ThreadID()
	next, err := m.Reset(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, old, next)
	assert.Equal(t, next, m.ThreadID())

	turns, err := m.Read(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemory_ThreadsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTurnRepository(time.Hour)
	a := history.NewMemory(store)
	b := history.NewMemory(store)

	require.NoError(t, a.Append(ctx, llm.RoleUser, "a"))

	turns, err := b.Read(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestToMessages(t *testing.T) {
	msgs := history.ToMessages([]history.Turn{
		{Role: llm.RoleUser, Content: "q"},
		{Role: llm.RoleAssistant, Content: "a"},
	})
	assert.Equal(t, []llm.Message{{Role: llm.RoleUser, Content: "q"}, {Role: llm.RoleAssistant, Content: "a"}}, msgs)
}
