package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shanehull/tripwatch/internal/logger"
)

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))
	ctx = logger.WithFields(ctx, zap.String("run_id", "abc"))

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "probe", zap.String("date", "2026-02-03"))
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "probe", entries[1].Message)
	assert.Equal(t, "abc", entries[1].ContextMap()["run_id"])
	assert.Equal(t, "2026-02-03", entries[1].ContextMap()["date"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestGetFallsBackToDefault(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)
	assert.NotNil(t, logger.Get(context.Background()))

	logger.Setup(logger.ProductionEnvironment)
	l := logger.Get(context.Background())
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
