package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include query variables in spans; dev only
	SlowQueryThresh time.Duration // default 200ms
	DBSystem        string        // default "postgresql"
}

// DefaultDBTracingConfig returns tracing disabled with variables hidden
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin wraps otelgorm and flags slow queries on the query span
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// RegisterOtelGorm installs otelgorm and the slow-query callbacks on db
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []struct {
		name string
		err  error
	}{
		{"create", cb.Create().Before("gorm:create").Register("otel_timing:before_create", markQueryStart)},
		{"query", cb.Query().Before("gorm:query").Register("otel_timing:before_query", markQueryStart)},
		{"update", cb.Update().Before("gorm:update").Register("otel_timing:before_update", markQueryStart)},
		{"delete", cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", markQueryStart)},
		{"row", cb.Row().Before("gorm:row").Register("otel_timing:before_row", markQueryStart)},
		{"raw", cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", markQueryStart)},
		{"create", cb.Create().After("gorm:create").Register("otel_slow_query:create", p.afterQuery)},
		{"query", cb.Query().After("gorm:query").Register("otel_slow_query:query", p.afterQuery)},
		{"update", cb.Update().After("gorm:update").Register("otel_slow_query:update", p.afterQuery)},
		{"delete", cb.Delete().After("gorm:delete").Register("otel_slow_query:delete", p.afterQuery)},
		{"row", cb.Row().After("gorm:row").Register("otel_slow_query:row", p.afterQuery)},
		{"raw", cb.Raw().After("gorm:raw").Register("otel_slow_query:raw", p.afterQuery)},
	}
	for _, r := range registrations {
		if r.err != nil {
			return fmt.Errorf("register %s tracing callback: %w", r.name, r.err)
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (p *DBTracingPlugin) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
		p.logger.Warn("Slow query",
			zap.String("table", db.Statement.Table),
			zap.Duration("elapsed", elapsed),
		)
	}
}
