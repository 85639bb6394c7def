package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"esgboard/internal/config"
)

// Init builds the server logger: one rotating JSON file per level plus a
// colored console.
func Init(conf config.LoggingConfig) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	if err := os.MkdirAll(conf.Directory, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	cores := []zapcore.Core{newConsoleCore(zapcore.DebugLevel)}
	for _, level := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel} {
		cores = append(cores, newFileCore(conf, level, encoderConfig))
	}

	// Each core decides on its own whether to write an entry.
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// NewConsole returns a console-only logger for command line tools.
func NewConsole(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return zap.New(newConsoleCore(level))
}

// newFileCore creates a core that writes exactly one level to a rotating file.
func newFileCore(conf config.LoggingConfig, level zapcore.Level, encoderConfig zapcore.EncoderConfig) zapcore.Core {
	// e.g. logs/2025-07-30-info.log
	fileName := filepath.Join(conf.Directory, fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), level.String()))

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    conf.MaxSize,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAge,
		Compress:   conf.Compress,
	})

	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l == level
	})

	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, levelEnabler)
}

func newConsoleCore(min zapcore.Level) zapcore.Core {
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= min
	})

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.AddSync(os.Stderr),
		levelEnabler,
	)
}
