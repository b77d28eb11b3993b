package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("wrapped domain error is preserved", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", NewNotFound("ticket", map[string]any{"id": "T-1"}))
		de := ToDomainError(err)
		assert.Equal(t, "NOT_FOUND", de.Code)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
		assert.Equal(t, "ticket not found", de.Message)
	})

	t.Run("deadline", func(t *testing.T) {
		de := ToDomainError(fmt.Errorf("advice: %w", context.DeadlineExceeded))
		assert.Equal(t, CodeTimeout, de.Code)
		assert.Equal(t, http.StatusGatewayTimeout, de.HTTPStatus)
	})

	t.Run("unknown errors are internal", func(t *testing.T) {
		cause := errors.New("boom")
		de := ToDomainError(cause)
		assert.Equal(t, "INTERNAL_ERROR", de.Code)
		assert.ErrorIs(t, de, cause)
	})
}

func TestNewConfirmationRequired(t *testing.T) {
	de := ToDomainError(NewConfirmationRequired("delete column"))
	assert.Equal(t, "CONFIRMATION_REQUIRED", de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "delete column", de.Details["action"])
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("assign: %w", NewNotFound("team member", nil))
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}
