package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want *zapcore.Level
	}{
		{"debug", levelPtr(zapcore.DebugLevel)},
		{"info", levelPtr(zapcore.InfoLevel)},
		{"warn", levelPtr(zapcore.WarnLevel)},
		{"error", levelPtr(zapcore.ErrorLevel)},
		{"verbose", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseLevel(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestNewWithCoreCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core).With(String("component", "store"))

	log.Warn("bookmark not found", String("id", "abc"), Error(errors.New("boom")))
	log.Infof("listed %d bookmarks", 3)

	entries := logs.All()
	require.Len(t, entries, 2)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "bookmark not found", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "store", ctx["component"])
	assert.Equal(t, "abc", ctx["id"])
	assert.Equal(t, "boom", ctx["error"])

	assert.Equal(t, "listed 3 bookmarks", entries[1].Message)
}

func TestNewBuildsBothEncoders(t *testing.T) {
	for _, pretty := range []bool{true, false} {
		l := New("info", pretty)
		require.NotNil(t, l)
		_ = l.Sync()
	}
}

func TestNopDoesNotPanic(t *testing.T) {
	l := NewNop()
	l.Info("ignored", Int("n", 1), Bool("ok", true))
	l.With(Any("k", []string{"v"})).Debugf("ignored %s", "too")
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
