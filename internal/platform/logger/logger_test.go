package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
			logger, err := Setup(LoggerConfig{Level: level})
			require.NoError(t, err)
			assert.NotNil(t, logger)
		}
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger, err := Setup(LoggerConfig{Level: "verbose"})
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})
}

func TestContextPropagation(t *testing.T) {
	t.Parallel()

	attached := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		ctx := WithLogger(context.Background(), attached)
		assert.Same(t, attached, FromContext(ctx))
		assert.Same(t, attached, FromContextOrDefault(ctx, nil))
	})

	t.Run("missing logger falls back", func(t *testing.T) {
		t.Parallel()

		assert.NotNil(t, FromContext(context.Background()))

		fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
		assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	})
}
