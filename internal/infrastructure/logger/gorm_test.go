package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_TraceLogsErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, errors.New("connection refused"))

	entries := logs.FilterMessage("SQL Error").All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
}

func TestGormLogger_TraceIgnoresRecordNotFound(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM invoices", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Zero(t, logs.Len())
}

func TestGormLogger_TraceWarnsOnSlowQuery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	begin := time.Now().Add(-500 * time.Millisecond)
	gl.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM audit_logs", 100
	}, nil)

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}

func TestGormLogger_SilentLogsNothing(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("ignored"))

	assert.Zero(t, logs.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"bogus", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapGormLogLevel(tt.input), tt.input)
	}
}
