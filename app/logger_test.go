package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("file", "a.txt").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "a.txt")
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestAppContextCleanupCancels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug")
	require.NoError(t, err)

	appCtx := NewAppContext(logger.WithContext(context.Background()))
	appCtx.PerformCleanup()
	appCtx.PerformCleanup()

	assert.ErrorIs(t, appCtx.Context.Err(), context.Canceled)
	assert.NotNil(t, appCtx.Stats)
}
