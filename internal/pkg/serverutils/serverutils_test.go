package serverutils

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"parent-assistant-be/pkg/rag/level"
	"parent-assistant-be/pkg/rag/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken(t *testing.T) {
	token, err := IssueSessionToken("secret", "s-1", time.Hour)
	require.NoError(t, err)

	id, err := ParseSessionToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "s-1", id)

	_, err = ParseSessionToken("other", token)
	assert.Error(t, err)

	expired, err := IssueSessionToken("secret", "s-1", -time.Minute)
	require.NoError(t, err)
	id, err = ParseSessionToken("secret", expired)
	require.NoError(t, err, "non-positive ttl issues a token without expiry")
	assert.Equal(t, "s-1", id)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("lookup: %w", session.ErrNotFound), fiber.StatusNotFound},
		{"onboarding", session.ErrOnboarding, fiber.StatusConflict},
		{"empty", session.ErrEmptyQuery, fiber.StatusBadRequest},
		{"bad level", fmt.Errorf("%w: x", level.ErrInvalidLevel), fiber.StatusBadRequest},
		{"validation", &ValidationError{Fields: []FieldError{{Field: "message"}}}, fiber.StatusBadRequest},
		{"fiber", fiber.NewError(fiber.StatusUnauthorized, "nope"), fiber.StatusUnauthorized},
		{"other", errors.New("db down"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := MapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.False(t, body.Success)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Message string   `json:"message" validate:"required"`
		Levels  []string `json:"levels" validate:"required,min=1"`
	}

	err := ValidateRequest(req{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "message", verr.Fields[0].Field)
	assert.Equal(t, "is required", verr.Fields[0].Message)
	assert.Equal(t, "levels", verr.Fields[1].Field)

	assert.NoError(t, ValidateRequest(req{Message: "x", Levels: []string{"lise"}}))
}
