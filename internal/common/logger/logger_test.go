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

// ==========================
// Test Helpers
// ==========================

func observedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &zapWrapper{l: zap.New(core)}, logs
}

// ==========================
// Logger Tests
// ==========================

func TestLoggerLevels(t *testing.T) {
	log, logs := observedLogger()

	log.Debug("d", nil)
	log.Info("i", map[string]interface{}{"k": "v"})
	log.Warn("w", nil)
	log.Error("e", nil)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "v", entries[1].ContextMap()["k"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestWithFieldsAttachesToEveryEntry(t *testing.T) {
	log, logs := observedLogger()

	scoped := log.WithFields(map[string]interface{}{"writer": "variations"})
	scoped.Info("first", nil)
	scoped.Info("second", map[string]interface{}{"extra": 1})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "variations", entries[0].ContextMap()["writer"])
	assert.Equal(t, "variations", entries[1].ContextMap()["writer"])
	assert.EqualValues(t, 1, entries[1].ContextMap()["extra"])

	// The parent logger stays unscoped.
	log.Info("plain", nil)
	assert.NotContains(t, logs.All()[2].ContextMap(), "writer")
}

func TestWithErrorAttachesError(t *testing.T) {
	log, logs := observedLogger()

	log.WithError(errors.New("disk full")).Error("write failed", nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
}

func TestNewLevelSelection(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json")
			require.NotNil(t, l)
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want != zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
			}
		})
	}
}

func TestNoOpLoggerIsSilent(t *testing.T) {
	log := NewNoOpLogger()
	// Must not panic, even through the chaining methods.
	log.WithFields(map[string]interface{}{"k": "v"}).Info("ignored", nil)
	log.WithError(errors.New("ignored")).Error("ignored", nil)
}
