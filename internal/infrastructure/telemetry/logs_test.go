package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewLoggerProvider(ctx, LogsConfig{ServiceName: "einvoice-test", CollectorEndpoint: "localhost:4317"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, provider.IsEnabled())
	assert.NoError(t, provider.ForceFlush(ctx))
	assert.NoError(t, provider.Shutdown(ctx))

	base := zap.NewExample()
	assert.Same(t, base, provider.Bridge(base, zapcore.InfoLevel), "disabled export leaves the logger alone")
}

func TestTeeLogger(t *testing.T) {
	primary, primaryLogs := observer.New(zapcore.InfoLevel)
	secondary, secondaryLogs := observer.New(zapcore.DebugLevel)

	logger := teeLogger(zap.New(primary), &levelFilterCore{Core: secondary, minLevel: zapcore.WarnLevel})
	logger.Info("invoice created", zap.String("invoice_id", "3"))
	logger.Debug("dropped")
	logger.Warn("qr code missing")

	entries := primaryLogs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "invoice created", entries[0].Message)
	assert.Contains(t, entries[0].Context, zap.String("invoice_id", "3"))

	exported := secondaryLogs.All()
	require.Len(t, exported, 1)
	assert.Equal(t, zapcore.WarnLevel, exported[0].Level)
}

func TestLevelFilterCore(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: observed, minLevel: zapcore.WarnLevel}

	assert.False(t, filtered.Enabled(zapcore.InfoLevel))
	assert.True(t, filtered.Enabled(zapcore.ErrorLevel))

	child := filtered.With([]zapcore.Field{zap.String("service", "einvoice")})
	lf, ok := child.(*levelFilterCore)
	require.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, lf.minLevel)

	logger := zap.New(child)
	logger.Info("skipped")
	logger.Error("kept")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Contains(t, entries[0].Context, zap.String("service", "einvoice"))
}
