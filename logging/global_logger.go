package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
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

// Field is a key/value pair attached to every line a derived logger writes
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LoggerInterface is what packages depend on instead of *Logger
type LoggerInterface interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	With(fields ...Field) LoggerInterface
	Level() LogLevel
}

// Logger provides leveled logging with optional structured fields
type Logger struct {
	level  LogLevel
	logger *log.Logger
	fields []Field
	closer io.Closer
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// Log rotation defaults for file output
const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 28
)

// NewLogger creates a logger writing to logFile, or to stderr when logFile is empty.
// File output is rotated.
func NewLogger(levelStr string, logFile string) *Logger {
	if logFile == "" {
		return NewLoggerWithWriter(levelStr, os.Stderr)
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	l := NewLoggerWithWriter(levelStr, rotator)
	l.closer = rotator
	return l
}

// NewLoggerWithWriter creates a logger writing to w
func NewLoggerWithWriter(levelStr string, w io.Writer) *Logger {
	return &Logger{
		level:  ParseLogLevel(levelStr),
		logger: log.New(w, "", log.LstdFlags),
	}
}

// ParseLogLevel parses a log level string; unknown values fall back to info
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) output(level LogLevel, msg string) {
	if l.level > level {
		return
	}
	if len(l.fields) == 0 {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}

	var b strings.Builder
	b.WriteString(msg)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	l.logger.Printf("[%s] %s", level, b.String())
}

// Level returns the minimum level the logger writes
func (l *Logger) Level() LogLevel {
	return l.level
}

// With returns a logger that appends fields to every line
func (l *Logger) With(fields ...Field) LoggerInterface {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{
		level:  l.level,
		logger: l.logger,
		fields: merged,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) { l.output(LevelDebug, msg) }

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level <= LevelDebug {
		l.output(LevelDebug, fmt.Sprintf(format, args...))
	}
}

// Info logs an info message
func (l *Logger) Info(msg string) { l.output(LevelInfo, msg) }

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level <= LevelInfo {
		l.output(LevelInfo, fmt.Sprintf(format, args...))
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) { l.output(LevelWarn, msg) }

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.level <= LevelWarn {
		l.output(LevelWarn, fmt.Sprintf(format, args...))
	}
}

// Error logs an error message
func (l *Logger) Error(msg string) { l.output(LevelError, msg) }

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.level <= LevelError {
		l.output(LevelError, fmt.Sprintf(format, args...))
	}
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// InitLogger installs the global logger. Debug mode forces the debug level.
// Calling it again replaces the previous logger.
func InitLogger(logLevel, logFile string, debug bool) {
	if debug {
		logLevel = "debug"
	}
	SetGlobalLogger(NewLogger(logLevel, logFile))
}

// SetGlobalLogger replaces the global logger and closes the previous one
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()

	if prev != nil && prev != l {
		_ = prev.Close()
	}
}

// GetLogger returns the global logger, falling back to warn level on stderr
func GetLogger() LoggerInterface {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewLoggerWithWriter("warn", os.Stderr)
	}
	return globalLogger
}

// Global convenience functions for logging
func LogInfo(msg string) {
	GetLogger().Info(msg)
}

func LogInfof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

func LogDebug(msg string) {
	GetLogger().Debug(msg)
}

func LogDebugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

func LogWarn(msg string) {
	GetLogger().Warn(msg)
}

func LogWarnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

func LogError(msg string) {
	GetLogger().Error(msg)
}

func LogErrorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}
