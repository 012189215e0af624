package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetLogger resets the global logger state for testing
func resetLogger() {
	logger = nil
	initOnce = sync.Once{}
}

func TestInit(t *testing.T) {
	t.Run("successful initialization with default options", func(t *testing.T) {
		resetLogger()

		err := Init()
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("successful initialization with explicit level", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			resetLogger()

			err := Init(WithLevel(level))
			require.NoError(t, err, "level %q should be accepted", level)
			assert.NotNil(t, logger)
		}
	})

	t.Run("successful initialization with timestamps", func(t *testing.T) {
		resetLogger()

		err := Init(WithLevel("debug"), WithTimestamps())
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("error with invalid level", func(t *testing.T) {
		resetLogger()

		err := Init(WithLevel("invalid"))
		assert.Error(t, err)
		assert.Nil(t, logger)
	})

	t.Run("subsequent calls have no effect", func(t *testing.T) {
		resetLogger()

		require.NoError(t, Init(WithLevel("info")))
		first := logger

		require.NoError(t, Init(WithLevel("debug")))
		assert.Same(t, first, logger)
	})
}

func TestLogFunctions(t *testing.T) {
	resetLogger()
	require.NoError(t, Init(WithLevel("debug")))

	ctx := t.Context()

	assert.NotPanics(t, func() {
		Debug(ctx, "debug message", "key", "value")
		Info(ctx, "info message", "key", "value")
		Warn(ctx, "warn message", "key", "value")
		Error(ctx, "error message", "key", "value")
	})
}
