package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger writes human readable entries to stdout for local runs.
type ZapLogger struct {
	logger *zap.Logger
}

func initZapLogger(serviceName string) (Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return NewZapLogger(l.With(zap.String("service", serviceName))), nil
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l}
}

func (l *ZapLogger) Log(_ context.Context, entry LogEntry) {
	fields := make([]zap.Field, 0, len(entry.Attributes)+1)
	for key, value := range entry.Attributes {
		fields = append(fields, zap.Any(key, value))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
	}

	ce := l.logger.Check(zapLevel(entry.Level), entry.Message)
	if ce == nil {
		return
	}
	if !entry.Timestamp.IsZero() {
		ce.Time = entry.Timestamp
	}
	ce.Write(fields...)

	if entry.Level == LogLevelFatal {
		_ = l.logger.Sync()
		os.Exit(1)
	}
}

func (l *ZapLogger) Shutdown(context.Context) error {
	// stdout cannot be synced on some platforms
	_ = l.logger.Sync()
	return nil
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError, LogLevelFatal:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
