package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	e := NewTurnCompleted("s1", "t1", "question", "retrieve", "ok", 1500*time.Millisecond)
	assert.Equal(t, TypeTurnCompleted, e.EventType())
	assert.Equal(t, "s1", SessionID(e))
	assert.Equal(t, int64(1500), e.Payload()["latency_ms"])
	assert.False(t, e.Timestamp().IsZero())

	lc := NewLevelsChanged("s2", []string{"lise"}, "✅")
	assert.Equal(t, "s2", SessionID(lc))
	assert.Equal(t, []string{"lise"}, lc.Payload()["levels"])

	assert.Equal(t, "", SessionID(BaseEvent{Data: map[string]interface{}{}}))
}

func TestLocal_Publish(t *testing.T) {
	bus := NewLocal()
	var got []string
	bus.Subscribe(func(_ context.Context, e Event) error {
		got = append(got, e.EventType())
		return nil
	})
	bus.Subscribe(func(context.Context, Event) error {
		return errors.New("boom")
	})

	err := bus.Publish(context.Background(), NewSessionCreated("s", "t"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{TypeSessionCreated}, got)
}
