package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"projectId": "p-1"}).
		WithError(errors.New("boom")).
		Warn("ranking slow", map[string]interface{}{"candidates": 3})

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "ranking slow", entries[0].Message)
	assert.Equal(t, "p-1", ctx["projectId"])
	assert.Equal(t, "boom", ctx["error"])
	assert.EqualValues(t, 3, ctx["candidates"])
}

func TestNew_FallsBackOnFormat(t *testing.T) {
	assert.NotNil(t, New("info", "console"))
	assert.NotNil(t, New("debug", "json"))
	NewNoOpLogger().Info("discarded", nil)
}
