// Package log provides the structured logging interface used across ccfraud.
//
// The interface is a minimal, slog-compatible surface so that configuration
// loading and the CLI can log through either log/slog (JSON, Cloud Logging
// field names) or zerolog without depending on a concrete backend.
//
// Key features:
//   - slog-compatible interface and levels
//   - Pipeline-specific attribute keys (config path, model name, seed, validation counts)
//   - Stack traces from cockroachdb/errors attached to error records
//   - Test-friendly in-memory logger
//
// Example usage:
//
//	logger := log.GetLoggerWithName("configfile").With(
//		log.ConfigPathKey, "configs/lgbm.yaml",
//	)
//	logger.Info("config loaded",
//		log.ModelNameKey, cfg.Model().Name(),
//		log.RandomSeedKey, cfg.Model().RandomState(),
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key-value pairs. The With method returns a child
// logger whose fields are included in every subsequent record.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	//
	// Example:
	//   logger.Info("config loaded",
	//       log.ModelNameKey, "fraud-lgbm",
	//       log.EnvOverridesKey, 2,
	//   )
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error value it is logged under ErrAttrKey and,
	// when it carries a cockroachdb/errors stack, the stack is attached.
	//
	// Example:
	//   logger.Error("config rejected",
	//       err,
	//       log.ConfigPathKey, path,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
