package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var _ gormlogger.Interface = (*GormLogger)(nil)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func query(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info,
		WithSlowThreshold(time.Second),
		WithIgnoreRecordNotFoundError(false),
		WithFullSQL(true),
	)
	assert.Equal(t, time.Second, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)
	assert.True(t, gl.logFullSQL)

	warn := gl.LogMode(gormlogger.Warn).(*GormLogger)
	assert.Equal(t, gormlogger.Warn, warn.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel, "LogMode returns a copy")
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		elapsed time.Duration
		err     error
		wantMsg string
	}{
		{"query at info", gormlogger.Info, 0, nil, "Query"},
		{"query below info is dropped", gormlogger.Warn, 0, nil, ""},
		{"slow query", gormlogger.Warn, time.Second, nil, "Slow query"},
		{"error", gormlogger.Error, 0, errors.New("duplicate key"), "Query failed"},
		{"record not found is ignored", gormlogger.Error, 0, gormlogger.ErrRecordNotFound, ""},
		{"silent", gormlogger.Silent, time.Second, errors.New("x"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGorm(tt.level)
			gl.Trace(context.Background(), time.Now().Add(-tt.elapsed), query("SELECT 1"), tt.err)

			if tt.wantMsg == "" {
				assert.Zero(t, recorded.Len())
				return
			}
			require.Equal(t, 1, recorded.Len())
			assert.Equal(t, tt.wantMsg, recorded.All()[0].Message)
		})
	}
}

func TestGormLogger_Trace_ContextFields(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Info)
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-1")
	ctx, _ = WithCompanyID(ctx, zap.NewNop(), "company-1")

	gl.Trace(ctx, time.Now(), query("SELECT * FROM invoices"), nil)

	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "company-1", fields["company_id"])
}

func TestGormLogger_Trace_TruncatesSQL(t *testing.T) {
	long := "SELECT " + strings.Repeat("x", 400)

	gl, recorded := newObservedGorm(gormlogger.Info)
	gl.Trace(context.Background(), time.Now(), query(long), nil)
	assert.Len(t, fieldMap(recorded.All()[0])["sql"], truncatedSQLLen+3)

	full, recorded := newObservedGorm(gormlogger.Info, WithFullSQL(true))
	full.Trace(context.Background(), time.Now(), query(long), nil)
	assert.Equal(t, long, fieldMap(recorded.All()[0])["sql"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"info":   gormlogger.Info,
		"debug":  gormlogger.Info,
		"":       gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(in), in)
	}
}
