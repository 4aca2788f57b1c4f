// Package logger wraps zap behind package-level functions so call sites
// stay free of logger plumbing.
package logger

import (
	"os"

	"go.uber.org/zap"
)

var log *zap.SugaredLogger

func init() {
	var cfg zap.Config
	if os.Getenv("ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	log = l.Sugar()
}

func Debug(msg string, keysAndValues ...any) {
	log.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	log.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	log.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	log.Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	log.Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = log.Sync()
}
