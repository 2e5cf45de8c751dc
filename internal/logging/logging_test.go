package logging

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wiktoryk/IDE/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{" Warning ", LogLevelWarn},
		{"error", LogLevelError},
		{"verbose", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), "ParseLogLevel(%q)", tt.in)
	}

	assert.True(t, ValidLevel("error"))
	assert.False(t, ValidLevel("verbose"))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
	assert.Equal(t, slog.LevelWarn, LogLevelWarn.Slog())
}

func TestNewWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggingConfig{Level: "info"}, &buf)
	defer l.Close()

	l.Debug("hidden")
	l.WithComponent("engine").Info("visible", "pos", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "component=engine")
	assert.Contains(t, out, "pos=3")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	l.Debug("edit", "len", 2)
	assert.Contains(t, buf.String(), `"msg":"edit"`)
	assert.Contains(t, buf.String(), `"len":2`)
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggingConfig{Level: "error"}, &buf)

	l.Info("before")
	l.SetLevel(LogLevelDebug)
	l.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
	assert.Equal(t, slog.LevelDebug, l.Level())
}

func TestRecentWarnings(t *testing.T) {
	l := New(config.LoggingConfig{Level: "debug"}, nil)

	l.Info("ignored")
	l.Warn("first")
	l.WithComponent("x").Error("second")

	recent := l.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "first", recent[0].Message)
	assert.Equal(t, slog.LevelError, recent[1].Level)

	warn, errs := l.Counts()
	assert.Equal(t, 1, warn)
	assert.Equal(t, 1, errs)
}

func TestRecentWraps(t *testing.T) {
	l := New(config.LoggingConfig{Level: "warn"}, nil)
	for i := 0; i < recentSize+5; i++ {
		l.Warn(fmt.Sprintf("w%d", i))
	}

	recent := l.Recent()
	require.Len(t, recent, recentSize)
	assert.Equal(t, "w5", recent[0].Message)
	assert.Equal(t, fmt.Sprintf("w%d", recentSize+4), recent[recentSize-1].Message)
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ide.log")
	l := New(config.LoggingConfig{Level: "info", File: path, MaxSizeMB: 1}, nil)

	l.Info("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
