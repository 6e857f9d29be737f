package state

import (
	"parent-assistant-be/internal/pkg/logger"
)

// Phase is the lifecycle stage of a session.
type Phase string

const (
	PhaseNew        Phase = "new"
	PhaseOnboarding Phase = "onboarding"
	PhaseActive     Phase = "active"
)

// Manager handles session phase transitions
type Manager struct {
	logger logger.ILogger
}

// NewManager creates a new state manager
func NewManager(log logger.ILogger) *Manager {
	return &Manager{logger: log}
}

// Start moves a freshly constructed session into onboarding.
func (m *Manager) Start(sessionID string) Phase {
	return m.transition(sessionID, PhaseNew, PhaseOnboarding, "created")
}

// LevelsSelected activates the session once it has at least one level.
func (m *Manager) LevelsSelected(sessionID string, current Phase) Phase {
	if current == PhaseActive {
		return PhaseActive
	}
	return m.transition(sessionID, current, PhaseActive, "levels selected")
}

// Cleared handles a history reset. Without preserved levels the session
// goes back to onboarding.
func (m *Manager) Cleared(sessionID string, current Phase, preserveLevels bool) Phase {
	if preserveLevels && current == PhaseActive {
		return PhaseActive
	}
	return m.transition(sessionID, current, PhaseOnboarding, "history cleared")
}

// CanChat reports whether chat requests are accepted in phase p.
func CanChat(p Phase) bool {
	return p == PhaseActive
}

func (m *Manager) transition(sessionID string, from, to Phase, reason string) Phase {
	if from != to {
		m.logger.Info("SessionState", "Phase transition", map[string]interface{}{
			"session_id": sessionID,
			"from":       from,
			"to":         to,
			"reason":     reason,
		})
	}
	return to
}
