// Package actionlog journals client commands to a size-rotated file.
package actionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel defines the logging verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ActionType names a journaled command.
type ActionType string

const (
	ActionCreate    ActionType = "CREATE"
	ActionDrawPixel ActionType = "DRAW-PIXEL"
	ActionDrawLine  ActionType = "DRAW-LINE"
	ActionDrawText  ActionType = "DRAW-TEXT"
	ActionRaise     ActionType = "RAISE"
	ActionReload    ActionType = "RELOAD"
	ActionReject    ActionType = "REJECT"
)

// actionLevel returns the log level for an action type. Draws are frequent
// and only journaled at debug.
func actionLevel(action ActionType) LogLevel {
	switch action {
	case ActionDrawPixel, ActionDrawLine, ActionDrawText:
		return LevelDebug
	case ActionReject:
		return LevelWarn
	default:
		return LevelInfo
	}
}

// LogConfig holds configuration for the journal.
type LogConfig struct {
	Enabled   bool
	Level     LogLevel
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Logger appends one line per action with file rotation. A nil or disabled
// Logger discards everything.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	config      LogConfig
	maxBytes    int64
	currentSize int64
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LogConfig) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{config: cfg}, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &Logger{
		file:        f,
		config:      cfg,
		maxBytes:    int64(cfg.MaxSizeMB) * 1024 * 1024,
		currentSize: stat.Size(),
	}, nil
}

// Log records an action. window is omitted when negative.
func (l *Logger) Log(action ActionType, window int64, details map[string]any) {
	if l == nil || !l.config.Enabled {
		return
	}
	if actionLevel(action) < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	if l.maxBytes > 0 && l.currentSize >= l.maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	n, err := l.file.WriteString(formatEntry(time.Now(), action, window, details))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

func formatEntry(now time.Time, action ActionType, window int64, details map[string]any) string {
	var sb strings.Builder
	sb.WriteString(now.Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(action))
	sb.WriteString("]")

	if window >= 0 {
		fmt.Fprintf(&sb, " window=%d", window)
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch val := details[k].(type) {
		case string:
			fmt.Fprintf(&sb, " %s=%q", k, val)
		default:
			fmt.Fprintf(&sb, " %s=%v", k, val)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// Close closes the logger and releases resources.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate shifts commands.log to commands.log.1, .1 to .2 and so on, keeping
// MaxFiles rotated files.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	basePath := l.config.FilePath
	for i := l.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == l.config.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
		}
	}

	if l.config.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else if err := os.Remove(basePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate log file: %w", err)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	l.file = f
	l.currentSize = 0
	return nil
}

// ParseLogLevel converts a string to LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Truncate returns a preview of a string, truncating if necessary.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
