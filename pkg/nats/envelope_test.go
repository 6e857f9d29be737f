package nats

import (
	"testing"
	"time"

	"parent-assistant-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	e := events.NewLevelsChanged("s1", []string{"ortaokul", "lise"}, "✅ Kademe güncellendi")

	data, err := encode(e)
	require.NoError(t, err)

	got, err := decode(Subject(e.EventType()), data)
	require.NoError(t, err)
	assert.Equal(t, events.TypeLevelsChanged, got.EventType())
	assert.Equal(t, "s1", events.SessionID(got))
	assert.WithinDuration(t, e.Timestamp(), got.Timestamp(), time.Millisecond)
}

func TestDecode_TypeFromSubject(t *testing.T) {
	got, err := decode("assistant.turn.completed", []byte(`{"data":{"session_id":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, events.TypeTurnCompleted, got.EventType())
	assert.Equal(t, "x", events.SessionID(got))
	assert.False(t, got.Timestamp().IsZero())

	_, err = decode("assistant.x", []byte(`not json`))
	assert.Error(t, err)
}
