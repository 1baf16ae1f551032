package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("error string includes code and message", func(t *testing.T) {
		err := New(ErrCodeNotFound, "account not found")
		assert.Equal(t, "NOT_FOUND: account not found", err.Error())
	})

	t.Run("cause is included and unwrappable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(ErrCodeDatabase, "query failed", cause)

		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("works through fmt wrapping", func(t *testing.T) {
		inner := QuotaDenied()
		wrapped := fmt.Errorf("pipeline: %w", inner)

		assert.True(t, IsAppError(wrapped))
		assert.Equal(t, ErrCodeQuotaDenied, GetCode(wrapped))

		appErr, ok := AsAppError(wrapped)
		require.True(t, ok)
		assert.Equal(t, "No free calls left", appErr.Message)
	})

	t.Run("plain errors are not app errors", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsAppError(err))
		assert.Equal(t, ErrCodeInternal, GetCode(err))
	})
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, ErrCodeServiceNotFound, ServiceNotFound().Code)
	assert.Equal(t, "Service not found", ServiceNotFound().Message)

	cause := errors.New("dial tcp: timeout")
	unreachable := ProviderUnreachable(cause)
	assert.Equal(t, ErrCodeProviderUnreachable, unreachable.Code)
	assert.Contains(t, unreachable.Message, "Provider API call failed")

	provErr := ProviderError(503)
	assert.Equal(t, ErrCodeProviderError, provErr.Code)
	assert.Equal(t, "Provider error: HTTP 503", provErr.Message)

	assert.Equal(t, "account not found", NotFound("account").Message)
	assert.Equal(t, ErrCodeMissingRequired, MissingRequired("service").Code)
}
