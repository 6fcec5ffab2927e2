package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, Fields(ctx))

	ctx = WithFields(ctx, zap.String("request_id", "abc"))
	ctx = WithFields(ctx, zap.Uint64("todo_id", 7))
	assert.Len(t, Fields(ctx), 2)
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	fallback := zap.New(core)

	ctx := WithFields(context.Background(), zap.String("request_id", "abc"))
	assert.Nil(t, Logger(ctx))

	FromContext(ctx, fallback).Info("hello")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["request_id"])

	attachedCore, attachedLogs := observer.New(zapcore.InfoLevel)
	ctx = WithLogger(ctx, zap.New(attachedCore))
	FromContext(ctx, fallback).Info("again")

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, 1, attachedLogs.Len())
}
