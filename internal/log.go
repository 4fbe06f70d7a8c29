package internal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// Logger provides leveled logging
type Logger struct {
	level LogLevel
	zlog  zerolog.Logger
}

// NewLogger creates a JSON logger writing to stderr at the specified level
func NewLogger(level LogLevel) *Logger {
	return NewLoggerTo(os.Stderr, level, "json")
}

// NewLoggerTo creates a logger writing to out. format is "json" or "console".
func NewLoggerTo(out io.Writer, level LogLevel, format string) *Logger {
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return &Logger{
		level: level,
		zlog:  zerolog.New(out).With().Timestamp().Logger(),
	}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL and LOG_FORMAT environment variables
func NewDefaultLogger() *Logger {
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if format == "" {
		format = "console"
	}
	return NewLoggerTo(os.Stderr, ParseLogLevel(os.Getenv("LOG_LEVEL")), format)
}

// ParseLogLevel maps ERROR/WARN/INFO/DEBUG/TRACE to a level, defaulting to INFO
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "ERROR":
		return LogLevelError
	case "WARN":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	case "TRACE":
		return LogLevelTrace
	default:
		return LogLevelInfo
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		l.zlog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		l.zlog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		l.zlog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.zlog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LogLevelTrace {
		l.zlog.Trace().Msg(fmt.Sprintf(format, args...))
	}
}

// With returns a child logger carrying a structured field on every entry
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{
		level: l.level,
		zlog:  l.zlog.With().Interface(key, value).Logger(),
	}
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()

// SetDefaultLogger replaces the global logger, e.g. after configuration is loaded
func SetDefaultLogger(l *Logger) {
	if l != nil {
		DefaultLogger = l
	}
}
