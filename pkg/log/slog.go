package log

import (
	"context"
	"log/slog"
	"sync"
)

type slogLogger struct {
	l *slog.Logger
}

// FromSlog adapts a *slog.Logger to Logger. A nil l uses slog.Default() at
// each call, so a later SetupLogger is picked up.
func FromSlog(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) logger() *slog.Logger {
	if s.l == nil {
		return slog.Default()
	}
	return s.l
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.logger().Debug(msg, errFirst(fields)...) }
func (s *slogLogger) Info(msg string, fields ...any)  { s.logger().Info(msg, errFirst(fields)...) }
func (s *slogLogger) Warn(msg string, fields ...any)  { s.logger().Warn(msg, errFirst(fields)...) }
func (s *slogLogger) Error(msg string, fields ...any) { s.logger().Error(msg, errFirst(fields)...) }

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.logger().With(fields...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.logger().Enabled(ctx, slog.Level(level))
}

// errFirst turns a leading bare error into ErrAttr so ErrFmtHandler sees it.
func errFirst(fields []any) []any {
	if len(fields) == 0 {
		return fields
	}
	err, ok := fields[0].(error)
	if !ok {
		return fields
	}
	out := make([]any, 0, len(fields))
	out = append(out, ErrAttr(err))
	return append(out, fields[1:]...)
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// SetLogger replaces the logger returned by GetLogger. Passing nil restores
// the slog.Default() backed logger.
func SetLogger(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// GetLogger returns the process logger.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return FromSlog(nil)
	}
	return globalLogger
}

// GetLoggerWithName returns the process logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}
