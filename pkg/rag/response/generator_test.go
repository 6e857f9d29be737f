package response

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/pkg/llm"
	"parent-assistant-be/pkg/llm/llmtest"
	"parent-assistant-be/pkg/rag/history"
	"parent-assistant-be/pkg/rag/level"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(fake *llmtest.Fake) *Generator {
	return NewGenerator(fake, logger.NewNopLogger(), logger.NewNopLogger(), DefaultConfig())
}

func TestGenerator_MessageOrder(t *testing.T) {
	var turns []history.Turn
	for i := 0; i < 7; i++ {
		turns = append(turns,
			history.Turn{Role: llm.RoleUser, Content: fmt.Sprintf("q%d", i)},
			history.Turn{Role: llm.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}

	g := newGenerator(&llmtest.Fake{})
	msgs := g.Messages(Request{
		Query:   "Servis var mı?",
		Context: "**[LİSE] Servis**\nVar.",
		Levels:  level.NewSet(level.Lise),
		History: turns,
	})

	require.Len(t, msgs, 12)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Lise (9-12. Sınıf)")
	assert.NotContains(t, msgs[0].Content, "**[LİSE] Servis**")
	assert.Equal(t, "q2", msgs[1].Content)
	assert.Equal(t, "a6", msgs[10].Content)
	assert.Equal(t, llm.RoleUser, msgs[11].Role)
	assert.Contains(t, msgs[11].Content, "**[LİSE] Servis**")
	assert.Contains(t, msgs[11].Content, "Servis var mı?")
}

func TestGenerator_Compose(t *testing.T) {
	tests := []struct {
		name       string
		fake       *llmtest.Fake
		wantText   string
		wantStatus Status
	}{
		{
			name:       "plain text",
			fake:       &llmtest.Fake{Reply: &llm.Reply{Text: "Evet, servis vardır."}},
			wantText:   "Evet, servis vardır.",
			wantStatus: StatusOK,
		},
		{
			name: "content blocks",
			fake: &llmtest.Fake{Reply: &llm.Reply{Blocks: []llm.ContentBlock{
				{Type: "thinking", Text: "..."},
				{Type: llm.BlockTypeText, Text: "Blok cevabı"},
			}}},
			wantText:   "Blok cevabı",
			wantStatus: StatusOK,
		},
		{
			name:       "blank reply",
			fake:       &llmtest.Fake{Reply: &llm.Reply{Text: "  \n "}},
			wantText:   FallbackMessage,
			wantStatus: StatusFallback,
		},
		{
			name:       "no text block",
			fake:       &llmtest.Fake{Reply: &llm.Reply{Blocks: []llm.ContentBlock{{Type: "function_call", Text: "{}"}}}},
			wantText:   FallbackMessage,
			wantStatus: StatusFallback,
		},
		{
			name:       "invocation error",
			fake:       &llmtest.Fake{ChatErr: errors.New("deadline exceeded")},
			wantText:   ApologyMessage,
			wantStatus: StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newGenerator(tt.fake).Compose(context.Background(), Request{Query: "q", Levels: level.NewSet(level.Lise)})
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Len(t, tt.fake.ChatCalls(), 1)
		})
	}
}

func TestCannedMessages(t *testing.T) {
	price := PriceMessage(Contact{Phone: "0212 000 00 00", Email: "info@cozum.k12.tr"})
	assert.Contains(t, price, "📞 **Telefon:** 0212 000 00 00")
	assert.Contains(t, price, "📧 **E-posta:** info@cozum.k12.tr")
	assert.Contains(t, price, "🌐 **Website:** [okul website]")

	assert.Equal(t, "✨ Merhaba! Lise (9-12. Sınıf) kademesi hakkında size yardımcı olabilirim. Sorularınızı sorabilirsiniz.",
		WelcomeMessage(level.NewSet(level.Lise)))
	assert.Equal(t, "✅ Kademe güncellendi: Ortaokul (5-8. Sınıf), Lise (9-12. Sınıf)",
		LevelsUpdatedMessage(level.NewSet(level.Lise, level.Ortaokul)))
}
