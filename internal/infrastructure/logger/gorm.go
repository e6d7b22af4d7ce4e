package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger sends GORM statements and messages to zap. Every entry carries
// the request and trace ids found on the statement's context.
type GormLogger struct {
	logger                    *zap.Logger
	logLevel                  gormlogger.LogLevel
	slowThreshold             time.Duration
	ignoreRecordNotFoundError bool
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// GormLoggerOption tunes a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold marks statements slower than d as slow. Zero disables the check.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slowThreshold = d }
}

// WithIgnoreRecordNotFoundError controls whether lookups that find nothing are logged as errors
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) { l.ignoreRecordNotFoundError = ignore }
}

func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:                    base.Named("gorm"),
		logLevel:                  level,
		slowThreshold:             defaultSlowThreshold,
		ignoreRecordNotFoundError: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Info, msg, args)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Warn, msg, args)
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Error, msg, args)
}

func (l *GormLogger) printf(ctx context.Context, level gormlogger.LogLevel, msg string, args []any) {
	if l.logLevel < level {
		return
	}
	text := fmt.Sprintf(msg, args...)
	log := Enrich(ctx, l.logger)
	switch level {
	case gormlogger.Error:
		log.Error(text)
	case gormlogger.Warn:
		log.Warn(text)
	default:
		log.Info(text)
	}
}

// Trace logs one executed statement. Failures log at error, slow statements
// at warn, and everything else at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	failed := err != nil && l.logLevel >= gormlogger.Error &&
		!(l.ignoreRecordNotFoundError && errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold && l.logLevel >= gormlogger.Warn
	if !failed && !slow && l.logLevel < gormlogger.Info {
		return
	}
	if err != nil && !failed && errors.Is(err, gormlogger.ErrRecordNotFound) {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	log := Enrich(ctx, l.logger)
	switch {
	case failed:
		log.Error("SQL Error", append(fields, zap.Error(err))...)
	case slow:
		log.Warn(fmt.Sprintf("SLOW SQL >= %v", l.slowThreshold), fields...)
	default:
		log.Debug("SQL Query", fields...)
	}
}

// MapGormLogLevel picks the GORM level for a service log level.
// debug and info log every statement; anything else keeps slow queries and errors.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
