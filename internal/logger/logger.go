// Package logger writes structured JSON log lines and tracks in-process sync metrics.
//
// Each line carries a timestamp, level, message, optional fields and an optional
// error string:
//
//	{"timestamp":"2024-04-14T12:00:00Z","level":"INFO","message":"month synced","fields":{"month":4,"extracted":87}}
//
// Child loggers created with With carry their fields into every line, which is
// how a sync run attaches its run id:
//
//	log := logger.Default().With(logger.Fields{"run_id": runID})
//	log.Info("fetching schedule", logger.Fields{"url": url})
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a case-insensitive level name to a Level
func ParseLevel(s string) (Level, error) {
	switch lvl := Level(strings.ToUpper(strings.TrimSpace(s))); lvl {
	case "":
		return LevelInfo, nil
	case "WARNING":
		return LevelWarn, nil
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return lvl, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry is one JSON log line
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Logger provides structured logging. A Logger is safe for concurrent use;
// loggers derived with With share the parent's output.
type Logger struct {
	minLevel Level
	out      *output
	fields   Fields
}

type output struct {
	mu sync.Mutex
	w  io.Writer
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(LevelInfo, os.Stdout)
)

// New creates a logger that discards messages below level
func New(level Level, w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		minLevel: level,
		out:      &output{w: w},
	}
}

// Discard returns a logger that writes nothing
func Discard() *Logger {
	return New(LevelError, io.Discard)
}

// SetDefault replaces the package-level logger
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default returns the package-level logger
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{
		minLevel: l.minLevel,
		out:      l.out,
		fields:   merge(l.fields, fields),
	}
}

func merge(base, extra Fields) Fields {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	out := make(Fields, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    merge(l.fields, fields),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)

	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if marshalErr != nil {
		fmt.Fprintf(l.out.w, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}
	l.out.w.Write(append(data, '\n'))
}

// Debug logs detailed diagnostic information
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs general operational information
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a problem that does not stop the current operation
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs a failure together with its cause
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using the default logger

func Debug(message string, fields Fields) { Default().Debug(message, fields) }

func Info(message string, fields Fields) { Default().Info(message, fields) }

func Warn(message string, fields Fields) { Default().Warn(message, fields) }

func Error(message string, fields Fields, err error) { Default().Error(message, fields, err) }
