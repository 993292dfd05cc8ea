// pkg/logging/logging.go - leveled console and file logging for PatchKit.

package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents the severity of the log message.
type LogLevel int

const (
	// Define log levels.
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the string representation of the LogLevel.
func (ll LogLevel) String() string {
	switch ll {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a configuration string such as "INFO" into a LogLevel.
// Unknown values fall back to LevelInfo.
func ParseLevel(s string) LogLevel {
	switch s {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGreen  = "\033[32m"
)

// Logger writes timestamped leveled messages to the console and,
// when initialized with a session directory, to a run log file.
type Logger struct {
	mu       sync.RWMutex
	logger   *log.Logger
	logLevel LogLevel
	logFile  *os.File
}

// singleton instance for the package-level helpers
var (
	instance *Logger
	once     sync.Once
)

// New creates a console-only Logger instance.
func New(verbose bool) *Logger {
	enableColors()

	output := os.Stdout
	if !verbose {
		output = os.Stderr
	}
	l := log.New(output, "", 0)
	return &Logger{
		logger:   l,
		logLevel: LevelInfo,
		logFile:  nil,
	}
}

// Init initializes the package-level logger with a session log file under
// baseDir (e.g. C:\ProgramData\PatchKit\logs\2025-08-31-101500.log).
// It must be called before the package-level logging functions are used.
func Init(baseDir, level string) error {
	var initErr error
	once.Do(func() {
		instance, initErr = newSessionLogger(baseDir, ParseLevel(level))
	})
	return initErr
}

func newSessionLogger(baseDir string, level LogLevel) (*Logger, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", baseDir, err)
	}

	name := time.Now().Format("2006-01-02-150405") + ".log"
	f, err := os.OpenFile(filepath.Join(baseDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log file: %w", err)
	}

	enableColors()
	return &Logger{
		logger:   log.New(io.MultiWriter(os.Stdout, f), "", 0),
		logLevel: level,
		logFile:  f,
	}, nil
}

// SetLevel adjusts the minimum severity the logger emits.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logLevel = level
}

// SetOutput changes the output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

// CloseLogger closes the session log file if one is open.
func CloseLogger() {
	if instance == nil {
		return
	}
	instance.mu.Lock()
	defer instance.mu.Unlock()

	if instance.logFile != nil {
		if err := instance.logFile.Close(); err != nil {
			fmt.Printf("Failed to close session log file: %v\n", err)
		}
		instance.logFile = nil
	}
}

// colorPrintf prints a colored message.
func (l *Logger) colorPrintf(color, format string, v ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ts := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, v...)
	l.logger.Printf("%s[%s] %s%s", color, ts, msg, colorReset)
}

// Printf prints a regular message.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ts := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] %s", ts, msg)
}

// Info prints an informational message.
func (l *Logger) Info(format string, v ...interface{}) {
	if l.level() < LevelInfo {
		return
	}
	l.Printf(format, v...)
}

// Success prints a success message in green. Success messages are always
// emitted regardless of the configured level.
func (l *Logger) Success(format string, v ...interface{}) {
	l.colorPrintf(colorGreen, format, v...)
}

// Error prints an error message in red.
func (l *Logger) Error(format string, v ...interface{}) {
	l.colorPrintf(colorRed, format, v...)
}

// Warning prints a warning message in yellow.
func (l *Logger) Warning(format string, v ...interface{}) {
	if l.level() < LevelWarn {
		return
	}
	l.colorPrintf(colorYellow, format, v...)
}

// Debug prints a debug message in blue.
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level() < LevelDebug {
		return
	}
	l.colorPrintf(colorBlue, format, v...)
}

// Fatal prints an error message in red and exits.
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.Error(format, v...)
	os.Exit(1)
}

func (l *Logger) level() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logLevel
}

// Package-level convenience functions mirroring the instance methods.

// Info logs informational messages.
func Info(format string, v ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: INFO "+format+"\n", v...)
		return
	}
	instance.Info(format, v...)
}

// Debug logs debug messages.
func Debug(format string, v ...interface{}) {
	if instance == nil {
		return
	}
	instance.Debug(format, v...)
}

// Warn logs warning messages.
func Warn(format string, v ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: WARN "+format+"\n", v...)
		return
	}
	instance.Warning(format, v...)
}

// Error logs error messages.
func Error(format string, v ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: ERROR "+format+"\n", v...)
		return
	}
	instance.Error(format, v...)
}
