package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTracedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTracedDB(t)
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
	assert.NoError(t, plugin.RegisterOtelGorm(db))
}

func TestDBTracingPlugin_RecordsQuerySpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	}()

	db := setupTracedDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "parent")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "line"}).Error)
	parent.End()

	var row tracedRow
	err := db.WithContext(ctx).Where("name = ?", "missing").First(&row).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.Greater(t, len(sr.Ended()), 1)
	for _, s := range sr.Ended() {
		assert.NotEqual(t, codes.Error, s.Status().Code, s.Name())
	}
}

func TestDBTracingPlugin_SlowQueryFlag(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond}, zap.NewNop())
	db := setupTracedDB(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))
	stmt := db.Session(&gorm.Session{NewDB: true})
	stmt.Statement.Context = ctx
	stmt.Statement.Table = "traced_rows"
	plugin.afterQuery(stmt)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	attrs := make(map[string]any)
	for _, a := range ended[0].Attributes() {
		attrs[string(a.Key)] = a.Value.AsInterface()
	}
	assert.Equal(t, true, attrs["db.slow_query"])
	assert.Equal(t, "traced_rows", attrs["db.sql.table"])
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "slow_query_warning", ended[0].Events()[0].Name)
}
