package util

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// LogFormat represents the output format
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Output represents a log output destination
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger provides structured logging functionality
type Logger struct {
	level   LogLevel
	outputs []Output
	fields  map[string]interface{}
	mu      sync.RWMutex
}

// NewLogger creates a new logger with optional console output for debug mode
func NewLogger(levelStr string, logFile string, debugToConsole bool) *Logger {
	logger := &Logger{
		level:   parseLogLevel(levelStr),
		outputs: make([]Output, 0),
		fields:  make(map[string]interface{}),
	}

	if debugToConsole {
		logger.AddOutput(NewConsoleOutput(os.Stderr, FormatText))
	}

	if logFile != "" {
		fileOutput, err := NewFileOutput(logFile, FormatText)
		if err == nil {
			logger.AddOutput(fileOutput)
		} else if !debugToConsole {
			// Last resort so diagnostics are not lost entirely
			logger.AddOutput(NewConsoleOutput(os.Stderr, FormatText))
		}
	}

	return logger
}

// parseLogLevel parses a log level string
func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
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

// levelToString converts LogLevel to string
func levelToString(level LogLevel) string {
	switch level {
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

// AddOutput adds a log output destination
func (l *Logger) AddOutput(output Output) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = append(l.outputs, output)
}

// SetLevel updates the minimum level written to outputs
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// With returns a logger that attaches the given fields to every entry
func (l *Logger) With(fields ...Field) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}

	return &Logger{
		level:   l.level,
		outputs: l.outputs,
		fields:  merged,
	}
}

func (l *Logger) log(level LogLevel, msg string, fields ...Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     levelToString(level),
		Message:   msg,
	}

	if len(l.fields) > 0 || len(fields) > 0 {
		entry.Fields = make(map[string]interface{}, len(l.fields)+len(fields))
		for k, v := range l.fields {
			entry.Fields[k] = v
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	for _, output := range l.outputs {
		// Output errors are swallowed; logging must never take the tool down
		_ = output.Write(entry)
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// Global logger. Initialized once per process; the convenience functions
// below are no-ops until InitLogger runs, covering the few call sites the
// commands actually use.

var (
	globalLogger *Logger
	loggerOnce   sync.Once
)

// InitLogger initializes the global logger instance with debug mode support
func InitLogger(logLevel, logFile string, debugToConsole bool) {
	loggerOnce.Do(func() {
		globalLogger = NewLogger(logLevel, logFile, debugToConsole)
	})
}

func globalLog(level LogLevel, msg string) {
	if globalLogger != nil {
		globalLogger.log(level, msg)
	}
}

func globalLogf(level LogLevel, format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.log(level, fmt.Sprintf(format, args...))
	}
}

func LogDebugf(format string, args ...interface{}) { globalLogf(LevelDebug, format, args...) }
func LogInfof(format string, args ...interface{})  { globalLogf(LevelInfo, format, args...) }
func LogWarnf(format string, args ...interface{})  { globalLogf(LevelWarn, format, args...) }
func LogError(msg string)                          { globalLog(LevelError, msg) }
func LogErrorf(format string, args ...interface{}) { globalLogf(LevelError, format, args...) }

// Close closes all outputs
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, output := range l.outputs {
		if err := output.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
