// Package logger provides leveled logging for the whole process on top of zap.
// The level can be changed at runtime via SetLevel.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	atom = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base *zap.SugaredLogger
)

func init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = atom
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	base = l.Sugar()
}

// ParseLevel parses a textual log level ("debug", "info", "warn", "error", ...).
func ParseLevel(s string) (zapcore.Level, error) {
	return zapcore.ParseLevel(s)
}

// SetLevel changes the process-wide log level.
func SetLevel(l zapcore.Level) {
	atom.SetLevel(l)
}

// Named returns a child logger with the given name, for packages that want to
// carry their own handle instead of the package-level functions.
func Named(name string) *zap.SugaredLogger {
	return base.Named(name)
}

func Debugf(format string, args ...any) { base.Debugf(format, args...) }

func Infof(format string, args ...any) { base.Infof(format, args...) }

func Warnf(format string, args ...any) { base.Warnf(format, args...) }

func Errorf(format string, args ...any) { base.Errorf(format, args...) }

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = base.Sync()
}
