package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseLevel(tc.in), "level %q", tc.in)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func(l *slog.Logger)
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func(l *slog.Logger) { l.Info("test info message") },
			contains: []string{"test info message", "level=INFO"},
		},
		{
			name:     "debug log with debug level",
			level:    "debug",
			logFn:    func(l *slog.Logger) { l.Debug("test debug message", "step", "audit") },
			contains: []string{"test debug message", "level=DEBUG", "step=audit"},
		},
		{
			name:     "debug log with info level",
			level:    "info",
			logFn:    func(l *slog.Logger) { l.Debug("test debug message") },
			excludes: []string{"test debug message"},
		},
		{
			name:     "warn log with error level",
			level:    "error",
			logFn:    func(l *slog.Logger) { l.Warn("test warn message") },
			excludes: []string{"test warn message"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tc.logFn(New(tc.level, buf))

			output := buf.String()
			for _, s := range tc.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tc.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestSetTestOutput(t *testing.T) {
	captured := &bytes.Buffer{}
	ignored := &bytes.Buffer{}

	SetTestOutput(captured)
	New("info", ignored).Info("redirected")
	UnsetTestOutput()

	assert.Contains(t, captured.String(), "redirected")
	assert.Empty(t, ignored.String())

	New("info", ignored).Info("direct")
	assert.Contains(t, ignored.String(), "direct")
}
