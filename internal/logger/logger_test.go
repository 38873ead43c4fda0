package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerEmitsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)

	l.Info("api", "hello")
	l.LogOrder("CREATE", "ord-1", "2 rows")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "INFO", first.Level)
	assert.Equal(t, "API", first.Category)
	assert.Equal(t, "hello", first.Message)
	assert.Equal(t, "logger_test.go", first.File)

	var second LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "ORDER", second.Category)
	assert.Equal(t, "[CREATE] ord-1 - 2 rows", second.Message)
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Error("X", "ignored")
		l.Close()
	})

	var nilLogger *Logger
	assert.NotPanics(t, func() { nilLogger.Info("X", "ignored") })
}

func TestFormatTerminalOutputIncludesCaller(t *testing.T) {
	out := formatTerminalOutput(LogEntry{
		Timestamp: "2026-10-17T10:11:12.000Z",
		Level:     "WARN",
		Category:  "AUTH",
		Message:   "denied",
		File:      "gate.go",
		Line:      42,
	})
	assert.Contains(t, out, "10:11:12")
	assert.Contains(t, out, "denied")
	assert.Contains(t, out, "gate.go:42")
}
