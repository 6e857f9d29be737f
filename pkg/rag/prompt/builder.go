package prompt

import (
	"strings"

	"parent-assistant-be/pkg/rag/level"
)

// SystemBuilder assembles the system message of an answer request.
type SystemBuilder struct {
	levels level.Set
}

func NewSystemBuilder(levels level.Set) *SystemBuilder {
	return &SystemBuilder{levels: levels}
}

// Build joins role, rules, style, output format and the active levels line.
// Retrieved context is not part of it so that it never leaks into later turns.
func (b *SystemBuilder) Build() string {
	var prompt strings.Builder

	b.writeSection(&prompt, RolePrompt)
	b.writeSection(&prompt, ContextRules)
	b.writeSection(&prompt, StyleGuide)
	b.writeSection(&prompt, OutputFormat)
	b.writeActiveLevels(&prompt)
	prompt.WriteString(LatestQuestionRule)

	return prompt.String()
}

func (b *SystemBuilder) writeSection(prompt *strings.Builder, section string) {
	prompt.WriteString(section)
	prompt.WriteString("\n\n")
}

func (b *SystemBuilder) writeActiveLevels(prompt *strings.Builder) {
	prompt.WriteString("**Aktif Kademeler:** ")
	if b.levels.Empty() {
		prompt.WriteString("Tüm kademeler")
	} else {
		prompt.WriteString(b.levels.DisplayNames())
	}
	prompt.WriteString("\n\n")
}

// UserTurn wraps the current question with its context block.
func UserTurn(contextText, query string) string {
	var prompt strings.Builder
	if strings.TrimSpace(contextText) != "" {
		prompt.WriteString("**Bağlam:**\n")
		prompt.WriteString(contextText)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("**Soru:** ")
	prompt.WriteString(query)
	return prompt.String()
}
