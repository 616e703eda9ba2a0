package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func setupTracingDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func recordSpans(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return tp, sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestNewDBTracingPlugin_Defaults(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	assert.Equal(t, "postgresql", p.config.DBSystem)

	def := DefaultDBTracingConfig()
	assert.False(t, def.Enabled)
	assert.False(t, def.LogFullSQL)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTracingDB(t)
	assert.NoError(t, NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).RegisterOtelGorm(db))
}

func TestDBTracingPlugin_EmitsQuerySpans(t *testing.T) {
	_, sr := recordSpans(t)
	db := setupTracingDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	ctx, parent := StartSpan(context.Background(), "test.parent")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	assert.Greater(t, len(sr.Ended()), 1)
}

func TestDBTracingPlugin_AfterQuery(t *testing.T) {
	tp, sr := recordSpans(t)
	db := setupTracingDB(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: 10 * time.Millisecond}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartKey{}, time.Now().Add(-time.Second))

	tx := db.Session(&gorm.Session{NewDB: true})
	tx.Statement.Context = ctx
	tx.Statement.Table = "accounts"
	tx.Statement.RowsAffected = 3
	tx.Error = errors.New("constraint violated")

	p.afterQuery(tx)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, int64(3), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "accounts", attrs["db.sql.table"].AsString())
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	require.NotEmpty(t, ended[0].Events())
}

func TestDBTracingPlugin_AfterQuery_RecordNotFoundIsNotAnError(t *testing.T) {
	tp, sr := recordSpans(t)
	db := setupTracingDB(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	tx := db.Session(&gorm.Session{NewDB: true})
	tx.Statement.Context = ctx
	tx.Error = gorm.ErrRecordNotFound

	p.afterQuery(tx)
	span.End()

	assert.NotEqual(t, codes.Error, sr.Ended()[0].Status().Code)
}
