package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseLevel covers the accepted configuration strings and the fallback.
func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, LevelError, ParseLevel("ERROR"))
	require.Equal(t, LevelWarn, ParseLevel("WARN"))
	require.Equal(t, LevelWarn, ParseLevel("WARNING"))
	require.Equal(t, LevelInfo, ParseLevel("INFO"))
	require.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, LevelInfo, ParseLevel("bogus"))
}

// TestLogLevelString pins the level names used in log lines.
func TestLogLevelString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "DEBUG", LevelDebug.String())
}

// TestLoggerLevelFiltering verifies messages below the configured level are
// suppressed while errors always pass through.
func TestLoggerLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(true)
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	l.Warning("warn message")
	l.Error("error message")

	out := buf.String()
	require.NotContains(t, out, "debug message")
	require.NotContains(t, out, "info message")
	require.Contains(t, out, "warn message")
	require.Contains(t, out, "error message")
}

// TestLoggerPrintf verifies the timestamped line format.
func TestLoggerPrintf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(true)
	l.SetOutput(&buf)

	l.Printf("installing %s", "7zip")

	line := strings.TrimSpace(buf.String())
	require.Contains(t, line, "installing 7zip")
	require.True(t, strings.HasPrefix(line, "["), "expected leading timestamp, got %q", line)
}

// TestSessionLogger verifies file initialization under a temp directory.
func TestSessionLogger(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, err := newSessionLogger(dir, LevelDebug)
	require.NoError(t, err)
	require.NotNil(t, l.logFile)

	l.Info("session started")
	require.NoError(t, l.logFile.Close())
}
