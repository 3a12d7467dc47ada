package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Mahesh1735/research-agent-core/utils"
)

func TestNewLevels(t *testing.T) {
	l, err := New("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New("", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud", false)
	assert.Error(t, err)
}

func TestRetryObserverLogsAttempts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := RetryObserver(zap.New(core))

	obs(utils.Attempt{Operation: "page_rank", Number: 1, Err: errors.New("timeout"), NextDelay: time.Second})
	obs(utils.Attempt{Operation: "page_rank", Number: 3, Err: errors.New("status 503"), Final: true})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "attempt failed", entries[0].Message)
	assert.Equal(t, "page_rank", entries[0].ContextMap()["operation"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "operation failed after retries, using default", entries[1].Message)
	assert.Equal(t, "status 503", entries[1].ContextMap()["error"])
}
