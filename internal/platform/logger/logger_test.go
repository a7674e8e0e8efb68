// Package logger_test contains tests for the logger package
package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/phrazzld/taskserver/internal/config"
	"github.com/phrazzld/taskserver/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseLogLines decodes every JSON log line in output.
func parseLogLines(t *testing.T, output string) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "log line should be JSON: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	// Redirect stdout so the JSON output does not clutter test logs
	origStdout := os.Stdout
	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	os.Stdout = devNull
	defer func() {
		os.Stdout = origStdout
		_ = devNull.Close()
	}()

	l, err := logger.Setup(config.ServerConfig{LogLevel: "info", WorkerCount: 1})

	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default(), "Setup should install the logger as the slog default")
}

func TestNew_LevelFiltering(t *testing.T) {
	testCases := []struct {
		name       string
		level      string
		wantDebug  bool
		wantInfo   bool
		wantWarn   bool
		wantErrors bool
	}{
		{name: "debug level", level: "debug", wantDebug: true, wantInfo: true, wantWarn: true, wantErrors: true},
		{name: "info level", level: "info", wantInfo: true, wantWarn: true, wantErrors: true},
		{name: "warn level", level: "warn", wantWarn: true, wantErrors: true},
		{name: "error level", level: "error", wantErrors: true},
		{name: "case insensitive - DEBUG", level: "DEBUG", wantDebug: true, wantInfo: true, wantWarn: true, wantErrors: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := logger.New(&buf, tc.level)

			l.Debug("debug test message")
			l.Info("info test message")
			l.Warn("warn test message")
			l.Error("error test message")

			output := buf.String()
			assert.Equal(t, tc.wantDebug, strings.Contains(output, "debug test message"))
			assert.Equal(t, tc.wantInfo, strings.Contains(output, "info test message"))
			assert.Equal(t, tc.wantWarn, strings.Contains(output, "warn test message"))
			assert.Equal(t, tc.wantErrors, strings.Contains(output, "error test message"))
		})
	}
}

// TestNew_InvalidLevel tests that an invalid level defaults to info and
// records a warning naming the configured value.
func TestNew_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, "invalid_level")

	l.Debug("debug test message")
	l.Info("info test message")

	entries := parseLogLines(t, buf.String())
	require.Len(t, entries, 2, "warning plus the info message; debug is filtered")

	warning := entries[0]
	assert.Equal(t, "WARN", warning["level"])
	assert.Equal(t, "invalid log level configured, using default level", warning["msg"])
	assert.Equal(t, "invalid_level", warning["configured_level"])
	assert.Equal(t, "INFO", warning["default_level"])
	assert.Equal(t, "info test message", entries[1]["msg"])
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input  string
		want   slog.Level
		wantOK bool
	}{
		{input: "debug", want: slog.LevelDebug, wantOK: true},
		{input: "Info", want: slog.LevelInfo, wantOK: true},
		{input: "warning", want: slog.LevelWarn, wantOK: true},
		{input: " error ", want: slog.LevelError, wantOK: true},
		{input: "fatal", want: logger.DefaultLevel, wantOK: false},
		{input: "", want: logger.DefaultLevel, wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, ok := logger.ParseLevel(tc.input)
			assert.Equal(t, tc.want, level)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}
