package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig holds log export configuration
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	Insecure          bool
}

// LoggerProvider exports zap entries to the collector as OTLP log records
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	logger   *zap.Logger
	config   LogsConfig
}

// NewLoggerProvider starts the OTLP log pipeline. A disabled config yields a
// provider whose Bridge returns the logger unchanged.
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{logger: logger, config: cfg}
	if !cfg.Enabled {
		logger.Info("OTEL log export disabled")
		return lp, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	lp.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.provider)

	logger.Info("OTEL log export enabled", zap.String("collector_endpoint", cfg.CollectorEndpoint))
	return lp, nil
}

// Shutdown flushes pending records and stops the exporter
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}
	return shutdownProvider(ctx, "logger", lp.provider.Shutdown)
}

// IsEnabled reports whether records are exported
func (lp *LoggerProvider) IsEnabled() bool {
	return lp.config.Enabled && lp.provider != nil
}

// ForceFlush exports buffered records now
func (lp *LoggerProvider) ForceFlush(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}
	return lp.provider.ForceFlush(ctx)
}

// Bridge tees base into the collector for entries at or above minLevel.
// The returned logger keeps base's encoder, output, and options.
func (lp *LoggerProvider) Bridge(base *zap.Logger, minLevel zapcore.Level) *zap.Logger {
	if !lp.IsEnabled() {
		return base
	}
	exportCore := &levelFilterCore{
		Core:     otelzap.NewCore(lp.config.ServiceName, otelzap.WithLoggerProvider(lp.provider)),
		minLevel: minLevel,
	}
	return teeLogger(base, exportCore)
}

func teeLogger(base *zap.Logger, extra zapcore.Core) *zap.Logger {
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, extra)
	}))
}

// levelFilterCore drops entries below minLevel; the otelzap core accepts every level
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
