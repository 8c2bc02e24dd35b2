/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package logger is a small leveled logger writing pretty or JSON lines to stderr.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents the severity level of log messages
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a flag value to a Level. Unknown values fall back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// Logger writes entries at or above the configured level.
type Logger struct {
	config Config
	mu     sync.Mutex
	out    io.Writer
	now    func() time.Time
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// New builds a logger without touching the package default.
func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{config: config, out: out, now: time.Now}
}

// Initialize sets up the default logger
func Initialize(config Config) error {
	if config.Level < TraceLevel || config.Level > ErrorLevel {
		return fmt.Errorf("invalid log level %d", config.Level)
	}
	l := New(config)
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	return nil
}

func current() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Field represents a structured field in a log entry
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field rendered as a string
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// LogEntry represents a log entry
type LogEntry struct {
	Time      time.Time              `json:"time"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	File      string                 `json:"file,omitempty"`
	Line      int                    `json:"line,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.config.Level
}

// Log writes a log message
func (l *Logger) Log(level Level, message string, fields ...Field) {
	l.log(2, level, message, fields...)
}

func (l *Logger) log(skip int, level Level, message string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Time:      l.now(),
		Level:     level.String(),
		Message:   message,
		Component: l.config.Component,
	}
	if len(fields) > 0 {
		entry.Fields = make(map[string]interface{}, len(fields))
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}
	if level <= DebugLevel {
		if _, file, line, ok := runtime.Caller(skip); ok {
			entry.File = file
			entry.Line = line
		}
	}

	var line string
	if l.config.JSON {
		b, err := json.Marshal(entry)
		if err != nil {
			line = fmt.Sprintf(`{"level":"ERROR","message":"log encode failed: %s"}`, err)
		} else {
			line = string(b)
		}
	} else {
		line = l.formatPretty(entry, level)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line+"\n")
}

var levelColors = map[Level]color.Attribute{
	TraceLevel: color.FgWhite,
	DebugLevel: color.FgCyan,
	InfoLevel:  color.FgGreen,
	WarnLevel:  color.FgYellow,
	ErrorLevel: color.FgRed,
}

func (l *Logger) formatPretty(entry LogEntry, level Level) string {
	var b strings.Builder
	b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))

	tag := entry.Level
	if l.config.UseColor {
		c := color.New(levelColors[level])
		c.EnableColor()
		tag = c.Sprint(tag)
	}
	fmt.Fprintf(&b, " [%s]", tag)

	if entry.Component != "" {
		fmt.Fprintf(&b, " %s:", entry.Component)
	}
	fmt.Fprintf(&b, " %s", entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, entry.Fields[k])
		}
		b.WriteString("}")
	}

	if entry.File != "" {
		fmt.Fprintf(&b, " (%s:%d)", entry.File, entry.Line)
	}
	return b.String()
}

func logDefault(level Level, message string, fields ...Field) {
	if l := current(); l != nil {
		l.log(3, level, message, fields...)
		return
	}
	if level >= InfoLevel {
		fmt.Fprintf(os.Stderr, "[%s] sitecheck: %s\n", level, message)
	}
}

// Trace logs at TRACE on the default logger.
func Trace(message string, fields ...Field) { logDefault(TraceLevel, message, fields...) }

// Debug logs at DEBUG on the default logger.
func Debug(message string, fields ...Field) { logDefault(DebugLevel, message, fields...) }

// Info logs at INFO on the default logger.
func Info(message string, fields ...Field) { logDefault(InfoLevel, message, fields...) }

// Warn logs at WARN on the default logger.
func Warn(message string, fields ...Field) { logDefault(WarnLevel, message, fields...) }

// Error logs at ERROR on the default logger.
func Error(message string, fields ...Field) { logDefault(ErrorLevel, message, fields...) }

// SetOutput redirects the default logger.
func SetOutput(w io.Writer) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.out = w
		l.mu.Unlock()
	}
}
