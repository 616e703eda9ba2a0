package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)
	next, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Warn, next.logLevel)
}

func TestGormLogger_TraceCarriesContextFields(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Info)
	ctx := WithReferenceID(WithRequestID(context.Background(), "req-7"), "JD-MAN-042917")

	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, "SQL Query", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "SELECT 1", fields["sql"])
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "JD-MAN-042917", fields["reference_id"])
}

func TestGormLogger_TraceErrors(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Error)
	sql := func() (string, int64) { return "SELECT * FROM accounts", 0 }

	gl.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, recorded.Len())

	gl.Trace(context.Background(), time.Now(), sql, errors.New("connection reset"))
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "SQL Error", recorded.All()[0].Message)
}

func TestGormLogger_TraceSlow(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Warn, WithSlowThreshold(time.Millisecond))
	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT pg_sleep(1)", 0 }, nil)

	require.Equal(t, 1, recorded.Len())
	assert.Contains(t, recorded.All()[0].Message, "SLOW SQL")
}

func TestGormLogger_Silent(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Silent)
	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("x"))
	gl.Info(context.Background(), "info %d", 1)
	assert.Equal(t, 0, recorded.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}

func TestGormLogger_TruncatesLongStatements(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Info, WithMaxSQLLength(16))
	long := "UPDATE accounts SET area = 'North' WHERE id IN ('a','b','c','d')"
	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return long, 4 }, nil)

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "UPDATE accounts ...(truncated)", recorded.All()[0].ContextMap()["sql"])
}

func TestGormLogger_SkipsBelowLevel(t *testing.T) {
	called := false
	gl, recorded := newObservedGorm(gormlogger.Warn)
	gl.Trace(context.Background(), time.Now(), func() (string, int64) { called = true; return "SELECT 1", 1 }, nil)
	assert.Equal(t, 0, recorded.Len())
	assert.False(t, called)
}
