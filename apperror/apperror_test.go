package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	err := NotFound("post")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrNotAuthorized))
}

func TestWrappedSentinelMatching(t *testing.T) {
	err := fmt.Errorf("handling request: %w", CapacityExceeded("connection limit reached"))
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
}

func TestValidationCarriesField(t *testing.T) {
	err := ValidationFailed("handle", "handle is required")
	assert.True(t, errors.Is(err, ErrValidation))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "handle", appErr.Field)
	assert.Contains(t, err.Error(), "handle is required")
}
