package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// global zap sugar, initialized once at import. Everything goes to stderr
// so that generated SQL on stdout stays machine-consumable.
var sugar *zap.SugaredLogger

func init() {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)
	sugar = zap.New(core).Sugar()
}

func Info(_ context.Context, args ...interface{}) {
	sugar.Info(args...)
}

func Infof(_ context.Context, format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

func Warn(_ context.Context, args ...interface{}) {
	sugar.Warn(args...)
}

func Warnf(_ context.Context, format string, args ...interface{}) {
	sugar.Warnf(format, args...)
}

func Error(_ context.Context, args ...interface{}) {
	sugar.Error(args...)
}

func Errorf(_ context.Context, format string, args ...interface{}) {
	sugar.Errorf(format, args...)
}

func Debugf(_ context.Context, format string, args ...interface{}) {
	sugar.Debugf(format, args...)
}

func Fatal(_ context.Context, args ...interface{}) {
	sugar.Fatal(args...)
}

// With returns a child logger carrying the given structured fields,
// used to tag a whole ingestion run with its run id.
func With(args ...interface{}) *zap.SugaredLogger {
	return sugar.With(args...)
}
