package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"price-quoter/src/models"
)

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality
type Logger struct {
	name   string
	sugar  *zap.SugaredLogger
	config *models.MConfig
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance. A nil config logs at INFO to stdout.
func NewLogger(config *models.MConfig, name string) *Logger {
	level := zapcore.InfoLevel
	var sinks []zapcore.WriteSyncer
	sinks = append(sinks, zapcore.AddSync(os.Stdout))

	if config != nil {
		level = parseLevel(config.LogLevel)
		if config.Log.File != "" {
			sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
				Filename:   config.Log.File,
				MaxSize:    config.Log.MaxSizeMB,
				MaxBackups: config.Log.MaxBackups,
				MaxAge:     config.Log.MaxAgeDays,
			}))
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		zap.NewAtomicLevelAt(level),
	)

	return &Logger{
		name:   name,
		sugar:  zap.New(core).Named(name).Sugar(),
		config: config,
	}
}

// -----------------------------------------------------------------------------

// NewNop returns a Logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{name: "nop", sugar: zap.NewNop().Sugar()}
}

// -----------------------------------------------------------------------------

// NewWithCore wraps an existing zap core, e.g. an observer in tests.
func NewWithCore(name string, core zapcore.Core) *Logger {
	return &Logger{name: name, sugar: zap.New(core).Named(name).Sugar()}
}

// -----------------------------------------------------------------------------

// Named returns a child logger for a sub component.
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		name:   l.name + "." + name,
		sugar:  l.sugar.Named(name),
		config: l.config,
	}
}

// -----------------------------------------------------------------------------

func parseLevel(s string) zapcore.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARNING", "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
	_ = l.sugar.Sync()
	os.Exit(1)
}

// -----------------------------------------------------------------------------

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
