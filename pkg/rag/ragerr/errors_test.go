package ragerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsUnwrap(t *testing.T) {
	var gen *GenerationInvocationError
	err := fmt.Errorf("compose: %w", &GenerationInvocationError{Err: context.DeadlineExceeded})
	assert.True(t, errors.As(err, &gen))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var ret *RetrievalError
	err = &RetrievalError{Query: "servis", Err: errors.New("db down")}
	assert.True(t, errors.As(err, &ret))
	assert.Contains(t, err.Error(), "servis")

	assert.Contains(t, (&ClassificationParseError{Raw: "weather"}).Error(), `"weather"`)
}
