// Package logger holds the process-wide structured logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names.
const (
	FieldRequestID  = "request_id"
	FieldUserID     = "user_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldError      = "error"
)

// Logger is the global logger. It is a no-op until Initialize is called so
// packages can log safely from tests.
var Logger = zap.NewNop().Sugar()

// Initialize replaces the global logger. JSON output uses the production
// config; otherwise a colored console encoder is used.
func Initialize(json bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if json {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		l, err = cfg.Build()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
		l, err = cfg.Build()
	}
	if err != nil {
		return err
	}
	Logger = l.Sugar()
	return nil
}

// Named returns a child of the global logger.
func Named(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Logger.Sync()
}
