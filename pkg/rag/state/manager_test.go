package state

import (
	"testing"

	"parent-assistant-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestManager_Transitions(t *testing.T) {
	m := NewManager(logger.NewNopLogger())

	p := m.Start("s1")
	assert.Equal(t, PhaseOnboarding, p)
	assert.False(t, CanChat(p))

	p = m.LevelsSelected("s1", p)
	assert.Equal(t, PhaseActive, p)
	assert.True(t, CanChat(p))

	assert.Equal(t, PhaseActive, m.LevelsSelected("s1", p))
	assert.Equal(t, PhaseActive, m.Cleared("s1", p, true))
	assert.Equal(t, PhaseOnboarding, m.Cleared("s1", p, false))
	assert.Equal(t, PhaseOnboarding, m.Cleared("s1", PhaseOnboarding, true))
}
