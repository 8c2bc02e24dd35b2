/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLogger(buf *bytes.Buffer, cfg Config) *Logger {
	cfg.Output = buf
	l := New(cfg)
	l.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   TraceLevel,
		"DEBUG":   DebugLevel,
		" info ":  InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
		"":        InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestInitializeRejectsInvalidLevel(t *testing.T) {
	err := Initialize(Config{Level: Level(42)})
	require.Error(t, err)
}

func TestPrettyFormattingSortsFields(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Config{Level: InfoLevel, Component: "sitecheck"})

	l.Log(InfoLevel, "checked files", String("site", "dist"), Int("count", 3), Bool("passed", true))

	line := strings.TrimSpace(buf.String())
	assert.Equal(t, "2025-01-01 12:00:00 [INFO] sitecheck: checked files {count=3, passed=true, site=dist}", line)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Config{Level: WarnLevel})

	l.Log(InfoLevel, "hidden")
	l.Log(DebugLevel, "hidden too")
	l.Log(ErrorLevel, "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.False(t, l.Enabled(InfoLevel))
	assert.True(t, l.Enabled(ErrorLevel))
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Config{Level: InfoLevel, JSON: true, Component: "sitecheck"})

	l.Log(WarnLevel, "manifest unreadable", Err(errors.New("boom")))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry.Level)
	assert.Equal(t, "manifest unreadable", entry.Message)
	assert.Equal(t, "sitecheck", entry.Component)
	assert.Equal(t, "boom", entry.Fields["error"])
	assert.Empty(t, entry.File, "caller info is only attached at debug and below")
}

func TestDebugIncludesCaller(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Config{Level: TraceLevel, JSON: true})

	l.Log(DebugLevel, "where")

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.True(t, strings.HasSuffix(entry.File, "logger_test.go"), "file = %s", entry.File)
	assert.Positive(t, entry.Line)
}

func TestDefaultLoggerAndSetOutput(t *testing.T) {
	require.NoError(t, Initialize(Config{Level: DebugLevel, Component: "test"}))
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("debug line", Duration("took", 1500*time.Millisecond))
	Trace("trace line")

	out := buf.String()
	assert.Contains(t, out, "debug line {took=1.5s}")
	assert.NotContains(t, out, "trace line")
	assert.Contains(t, out, "logger_test.go")
}

func TestColorWrapsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Config{Level: InfoLevel, UseColor: true})

	l.Log(ErrorLevel, "red")

	assert.Contains(t, buf.String(), "\x1b[31mERROR\x1b[0m")
}
