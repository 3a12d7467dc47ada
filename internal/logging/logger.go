package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Mahesh1735/research-agent-core/utils"
)

// New builds the process logger. Debug switches to the human readable
// development encoder.
func New(level string, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	lvl := zapcore.InfoLevel
	if strings.TrimSpace(level) != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, err
		}
	}
	if debug && lvl > zapcore.DebugLevel {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// RetryObserver logs each attempt of a retry-wrapped operation.
func RetryObserver(logger *zap.Logger) utils.RetryObserver {
	return func(a utils.Attempt) {
		fields := []zap.Field{
			zap.String("operation", a.Operation),
			zap.Int("attempt", a.Number),
		}
		switch {
		case a.Final && a.Succeeded:
			logger.Debug("operation succeeded", fields...)
		case a.Final:
			logger.Warn("operation failed after retries, using default", append(fields, zap.Error(a.Err))...)
		default:
			logger.Warn("attempt failed", append(fields, zap.Error(a.Err), zap.Duration("retry_in", a.NextDelay))...)
		}
	}
}
