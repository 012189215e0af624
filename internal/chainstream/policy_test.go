package chainstream

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	t.Run("transport failures are retryable", func(t *testing.T) {
		assert.True(t, retryable(errors.New("connection refused")))
	})

	t.Run("unexpected http statuses are retryable", func(t *testing.T) {
		assert.True(t, retryable(&HTTPStatusError{Status: 503}))
	})

	t.Run("wrapped transient failures stay retryable", func(t *testing.T) {
		err := fmt.Errorf("peer vp0:5000: %w", &HTTPStatusError{Status: 500})
		assert.True(t, retryable(err))
	})

	t.Run("not found is terminal", func(t *testing.T) {
		assert.False(t, retryable(ErrBlockNotFound))
		assert.False(t, retryable(fmt.Errorf("peer vp0:5000: %w", ErrBlockNotFound)))
	})

	t.Run("decode failures are never retryable", func(t *testing.T) {
		decodeErrs := []error{
			&MalformedPayloadError{Cause: errors.New("unexpected end of input")},
			&MissingFieldError{Field: "transactions"},
			&UnknownTxTypeError{Type: 3},
		}

		for _, err := range decodeErrs {
			assert.False(t, retryable(err), "expected %T to be unretryable", err)
			assert.False(t, retryable(fmt.Errorf("block 4: %w", err)))
		}
	})
}

func TestResolveFailure(t *testing.T) {
	t.Run("force mode skips", func(t *testing.T) {
		assert.Equal(t, ActionSkip, resolveFailure(true))
	})

	t.Run("default mode is fatal", func(t *testing.T) {
		assert.Equal(t, ActionFatal, resolveFailure(false))
	})
}
