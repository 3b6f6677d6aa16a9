package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type operationKey struct{}

// WithOperation returns a context whose loggers tag entries with the shape
// ID of the operation being generated.
func WithOperation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operationKey{}, id)
}

// ZapLogger is a Logger backed by a zap.Logger. Warn entries are written at
// zap's warn level and Debug entries at its debug level.
type ZapLogger struct {
	logger *zap.Logger
}

var (
	_ Logger        = (*ZapLogger)(nil)
	_ ContextLogger = (*ZapLogger)(nil)
)

// NewZapLogger wraps logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

// NewDevelopmentLogger returns a ZapLogger writing human readable entries to
// stderr. Debug entries are dropped unless verbose is set.
func NewDevelopmentLogger(verbose bool) (*ZapLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger), nil
}

// Logf logs the formatted message at the level matching classification.
func (l *ZapLogger) Logf(classification Classification, format string, v ...any) {
	sugar := l.logger.Sugar()
	switch classification {
	case Warn:
		sugar.Warnf(format, v...)
	case Debug:
		sugar.Debugf(format, v...)
	default:
		sugar.Infof(format, v...)
	}
}

// WithContext returns a logger tagging entries with the operation stored in
// ctx by WithOperation.
func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	id, ok := ctx.Value(operationKey{}).(string)
	if !ok {
		return l
	}
	return &ZapLogger{logger: l.logger.With(zap.String("operation", id))}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
