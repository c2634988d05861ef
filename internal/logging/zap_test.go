package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	wantMsgs := []string{"dbg", "inf", "wrn", "err"}
	for i, e := range entries {
		assert.Equal(t, wantLevels[i], e.Level)
		assert.Equal(t, wantMsgs[i], e.Message)
		assert.Len(t, e.Context, 1)
	}
}

func TestZapLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("entry_id", "e1")

	log.Info(context.Background(), "renamed", "name", "sunset")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "e1", fields["entry_id"])
	assert.Equal(t, "sunset", fields["name"])
}

func TestZapLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core))

	ctx := WithFields(context.Background(), "request_id", "r-1")
	log.Warn(ctx, "stale snapshot", "op", "insert")

	fields := logs.AllUntimed()[0].ContextMap()
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "insert", fields["op"])
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{"", "slog", "zap"} {
		l, closer, err := New(Options{Backend: backend, Level: "debug"})
		require.NoError(t, err, backend)
		require.NotNil(t, l)
		l.Info(context.Background(), "hello")
		assert.NoError(t, closer())
	}

	_, _, err := New(Options{Backend: "logrus"})
	assert.Error(t, err)

	_, _, err = New(Options{Backend: "slog", Level: "loud"})
	assert.Error(t, err)
}

func TestNew_WithFile(t *testing.T) {
	path := t.TempDir() + "/gallery.log"
	l, closer, err := New(Options{Backend: "zap", FilePath: path})
	require.NoError(t, err)
	l.Info(context.Background(), "to file")
	require.NoError(t, closer())
	assert.FileExists(t, path)
}
