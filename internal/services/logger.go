// File: internal/services/logger.go
package services

import (
    "os"
    "strings"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// Logger defines common logging interface for all services
type Logger interface {
    Info(msg string, keysAndValues ...interface{})
    Error(msg string, keysAndValues ...interface{})
    Debug(msg string, keysAndValues ...interface{})
    Warn(msg string, keysAndValues ...interface{})
}

// ZapLogger is a structured logger for production use, backed by zap.
type ZapLogger struct {
    sugar *zap.SugaredLogger
}

// NewZapLogger creates a production-ready logger for the named service.
func NewZapLogger(service string, structured bool, level zapcore.Level) *ZapLogger {
    var cfg zap.Config
    if structured {
        cfg = zap.NewProductionConfig()
    } else {
        cfg = zap.NewDevelopmentConfig()
    }
    cfg.Level = zap.NewAtomicLevelAt(level)
    logger, err := cfg.Build()
    if err != nil {
        // Build only fails on invalid config; fall back to a no-op core.
        logger = zap.NewNop()
    }
    return &ZapLogger{sugar: logger.Sugar().With("service", service)}
}

func (z *ZapLogger) Info(msg string, keysAndValues ...interface{}) {
    z.sugar.Infow(msg, keysAndValues...)
}

func (z *ZapLogger) Error(msg string, keysAndValues ...interface{}) {
    z.sugar.Errorw(msg, keysAndValues...)
}

func (z *ZapLogger) Debug(msg string, keysAndValues ...interface{}) {
    z.sugar.Debugw(msg, keysAndValues...)
}

func (z *ZapLogger) Warn(msg string, keysAndValues ...interface{}) {
    z.sugar.Warnw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries.
func (z *ZapLogger) Sync() {
    _ = z.sugar.Sync()
}

// NoOpLogger is a logger that does nothing (for testing)
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// NewLogger builds a Logger from GO_ENV and LOG_LEVEL.
func NewLogger(service string) Logger {
    env := os.Getenv("GO_ENV")
    if env == "test" {
        return &NoOpLogger{}
    }

    level := zapcore.InfoLevel
    switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
    case "DEBUG":
        level = zapcore.DebugLevel
    case "WARN":
        level = zapcore.WarnLevel
    case "ERROR":
        level = zapcore.ErrorLevel
    }

    // Structured JSON in production, human-readable in development.
    return NewZapLogger(service, env == "production", level)
}
