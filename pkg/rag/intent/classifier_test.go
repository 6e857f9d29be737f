package intent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/pkg/llm"
	"parent-assistant-be/pkg/llm/llmtest"
	"parent-assistant-be/pkg/rag/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelFake(raw string, err error) *llmtest.Fake {
	return &llmtest.Fake{
		Structured: func(_ []llm.Message, _ *llm.Schema) (string, error) {
			return raw, err
		},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want Label
		ok   bool
	}{
		{"casual", LabelCasual, true},
		{" FOLLOWUP ", LabelFollowup, true},
		{"price", LabelPrice, true},
		{"greeting", LabelCasual, true},
		{"education", LabelQuestion, true},
		{"weather", LabelQuestion, false},
		{"", LabelQuestion, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		err      error
		want     Label
		fallback bool
	}{
		{name: "event", raw: `{"label":"event","confidence":0.92,"reasoning":"haber"}`, want: LabelEvent},
		{name: "alias", raw: `{"label":"greeting","confidence":0.9}`, want: LabelCasual},
		{name: "out of vocabulary", raw: `{"label":"weather"}`, want: LabelQuestion, fallback: true},
		{name: "garbage", raw: "I think it is a question", want: LabelQuestion, fallback: true},
		{name: "provider error", err: errors.New("quota"), want: LabelQuestion, fallback: true},
		{name: "timeout", err: context.DeadlineExceeded, want: LabelQuestion, fallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(labelFake(tt.raw, tt.err), logger.NewNopLogger(), 3, 0)
			got := c.Classify(context.Background(), "Merhaba", nil)
			assert.Equal(t, tt.want, got.Label)
			if tt.fallback {
				assert.True(t, strings.HasPrefix(got.Reasoning, "fallback: "))
			}
		})
	}
}

func TestClassifier_WindowCappedAtThree(t *testing.T) {
	fake := labelFake(`{"label":"followup"}`, nil)
	c := NewClassifier(fake, logger.NewNopLogger(), 10, 0)

	var prior []history.Turn
	for i := 0; i < 6; i++ {
		prior = append(prior, history.Turn{Role: llm.RoleUser, Content: fmt.Sprintf("turn-%d", i)})
	}

	got := c.Classify(context.Background(), "Peki saat kaçta?", prior)
	assert.Equal(t, LabelFollowup, got.Label)

	calls := fake.StructuredCalls()
	require.Len(t, calls, 1)
	input := calls[0][len(calls[0])-1].Content
	assert.NotContains(t, input, "turn-2")
	assert.Contains(t, input, "turn-3")
	assert.Contains(t, input, "turn-5")
	assert.Contains(t, input, "KULLANICI SORGUSU: Peki saat kaçta?")
}

func TestClassifier_NoHistorySection(t *testing.T) {
	fake := labelFake(`{"label":"casual"}`, nil)
	c := NewClassifier(fake, logger.NewNopLogger(), 3, 0)
	c.Classify(context.Background(), "Merhaba", nil)

	input := fake.StructuredCalls()[0][1].Content
	assert.NotContains(t, input, "ÖNCEKİ MESAJLAR")
}
