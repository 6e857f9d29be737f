package prompt

import (
	"strings"
	"testing"

	"parent-assistant-be/pkg/rag/level"

	"github.com/stretchr/testify/assert"
)

func TestSystemBuilder_SectionOrder(t *testing.T) {
	got := NewSystemBuilder(level.NewSet(level.Lise, level.Ortaokul)).Build()

	order := []string{RolePrompt, ContextRules, StyleGuide, OutputFormat, "**Aktif Kademeler:** Ortaokul (5-8. Sınıf), Lise (9-12. Sınıf)", LatestQuestionRule}
	last := -1
	for _, section := range order {
		idx := strings.Index(got, section)
		assert.Greater(t, idx, last, "section out of order: %.30q", section)
		last = idx
	}
	assert.True(t, strings.HasSuffix(got, LatestQuestionRule))
}

func TestSystemBuilder_NoLevels(t *testing.T) {
	got := NewSystemBuilder(level.Set{}).Build()
	assert.Contains(t, got, "**Aktif Kademeler:** Tüm kademeler")
}

func TestUserTurn(t *testing.T) {
	assert.Equal(t, "**Bağlam:**\n**[LİSE] Servis**\nVar.\n\n**Soru:** Servis var mı?",
		UserTurn("**[LİSE] Servis**\nVar.", "Servis var mı?"))
	assert.Equal(t, "**Soru:** Merhaba", UserTurn("  ", "Merhaba"))
}
