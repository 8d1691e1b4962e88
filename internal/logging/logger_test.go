package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/jobflow/internal/logging"
)

func TestNewWriter(t *testing.T) {
	t.Run("Renames Error Key", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewWriter(&buf, slog.LevelInfo)
		logger.Error("trigger failed", "error", errors.New("boom"))

		assert.Contains(t, buf.String(), "err=boom")
		assert.NotContains(t, buf.String(), "error=")
	})

	t.Run("Honors Level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewWriter(&buf, slog.LevelWarn)
		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.Level(true, "error"))
	assert.Equal(t, slog.LevelInfo, logging.Level(false, " INFO "))
	assert.Equal(t, slog.LevelError, logging.Level(false, "error"))
	assert.Equal(t, slog.LevelWarn, logging.Level(false, ""))
	assert.Equal(t, slog.LevelWarn, logging.Level(false, "verbose"))
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		logging.NewNop().Error("nothing", "error", errors.New("x"))
	})
}
