// Package logger holds the process-wide zerolog logger.
//
// Console output always goes to stderr so the stdio MCP transport on stdout
// stays clean. File output is optional and rotated by lumberjack.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger instance
	Log = zerolog.Nop()

	// fileWriter is the file output for logging (with rotation)
	fileWriter *lumberjack.Logger

	// logContext holds the workspace attached to every entry (optional).
	logContext   string
	logContextMu sync.RWMutex
)

// SetWorkspace attaches a workspace field to all subsequent log entries.
// Pass an empty string to clear.
func SetWorkspace(workspace string) {
	logContextMu.Lock()
	defer logContextMu.Unlock()
	logContext = workspace
}

func addContext(event *zerolog.Event) *zerolog.Event {
	logContextMu.RLock()
	ws := logContext
	logContextMu.RUnlock()
	if ws != "" {
		event = event.Str("workspace", ws)
	}
	return event
}

// FileConfig holds configuration for file-based logging.
// It mirrors config.LoggingConfig to avoid an import cycle.
type FileConfig struct {
	Enabled    bool
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

func (c *FileConfig) maxSizeMB() int {
	if c.MaxSizeMB <= 0 {
		return 10
	}
	return c.MaxSizeMB
}

func (c *FileConfig) maxAgeDays() int {
	if c.MaxAgeDays <= 0 {
		return 7
	}
	return c.MaxAgeDays
}

func (c *FileConfig) maxBackups() int {
	if c.MaxBackups <= 0 {
		return 3
	}
	return c.MaxBackups
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

// Init initializes console-only logging on stderr.
func Init(debug bool) {
	Log = zerolog.New(consoleWriter()).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
}

// InitWithFile initializes the logger with optional file output under logsDir.
// If logsDir is empty or cfg disables file logging this behaves like Init.
func InitWithFile(debug bool, logsDir string, cfg *FileConfig) error {
	_ = CloseFileWriter()
	if logsDir == "" || cfg == nil || !cfg.Enabled {
		Init(debug)
		return nil
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("logger: create logs dir: %w", err)
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, "projroot.log"),
		MaxSize:    cfg.maxSizeMB(),
		MaxAge:     cfg.maxAgeDays(),
		MaxBackups: cfg.maxBackups(),
		LocalTime:  true,
	}

	// Console is human-readable, file is JSON.
	multi := io.MultiWriter(consoleWriter(), fileWriter)
	Log = zerolog.New(multi).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
	return nil
}

// CloseFileWriter closes the file writer if it exists.
func CloseFileWriter() error {
	if fileWriter != nil {
		err := fileWriter.Close()
		fileWriter = nil
		return err
	}
	return nil
}

// FilePath returns the current log file path, or "" when file logging is off.
func FilePath() string {
	if fileWriter != nil {
		return fileWriter.Filename
	}
	return ""
}

// Debug starts a debug-level entry.
func Debug() *zerolog.Event { return addContext(Log.Debug()) }

// Info starts an info-level entry.
func Info() *zerolog.Event { return addContext(Log.Info()) }

// Warn starts a warn-level entry.
func Warn() *zerolog.Event { return addContext(Log.Warn()) }

// Error starts an error-level entry.
func Error() *zerolog.Event { return addContext(Log.Error()) }
