package logger

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"esgboard/internal/config"
)

func TestInitCreatesLogDirectory(t *testing.T) {
	dir := t.TempDir() + "/logs"
	log, err := Init(config.LoggingConfig{Directory: dir, MaxSize: 1, MaxBackups: 1, MaxAge: 1})
	require.NoError(t, err)
	log.Info("hello")
	_ = log.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestGormTraceLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormZapLogger(zap.New(core))
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record not found is not logged")

	l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)

	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "slow query", logs.All()[1].Message)

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 2, logs.Len())
}
