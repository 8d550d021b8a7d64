package actionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openLogger(t *testing.T, level LogLevel) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "commands.log")
	l, err := NewLogger(LogConfig{Enabled: true, Level: level, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestFormatEntry_SortedDetails(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	got := formatEntry(now, ActionCreate, 4, map[string]any{"width": 10, "title": "clock", "height": 5})
	want := "2024-03-01 12:30:00 [CREATE] window=4 height=5 title=\"clock\" width=10\n"
	if got != want {
		t.Fatalf("formatEntry = %q, want %q", got, want)
	}
	if got := formatEntry(now, ActionReload, -1, nil); got != "2024-03-01 12:30:00 [RELOAD]\n" {
		t.Fatalf("formatEntry without window = %q", got)
	}
}

func TestLog_LevelFiltering(t *testing.T) {
	l, path := openLogger(t, LevelInfo)
	l.Log(ActionDrawPixel, 1, map[string]any{"x": 1})
	l.Log(ActionRaise, 1, nil)

	out := readLog(t, path)
	if strings.Contains(out, "DRAW-PIXEL") {
		t.Fatalf("debug action written at info level: %q", out)
	}
	if !strings.Contains(out, "[RAISE] window=1") {
		t.Fatalf("raise missing: %q", out)
	}
}

func TestLog_FilePermissions(t *testing.T) {
	_, path := openLogger(t, LevelDebug)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("expected 0600, got %o", perm)
	}
}

func TestLog_Rotation(t *testing.T) {
	l, path := openLogger(t, LevelDebug)
	l.maxBytes = 10

	l.Log(ActionCreate, 0, nil)
	l.Log(ActionCreate, 1, nil)
	l.Log(ActionCreate, 2, nil)
	l.Log(ActionCreate, 3, nil)

	if out := readLog(t, path); !strings.Contains(out, "window=3") || strings.Contains(out, "window=2") {
		t.Fatalf("current file = %q", out)
	}
	if out := readLog(t, path+".1"); !strings.Contains(out, "window=2") {
		t.Fatalf(".1 = %q", out)
	}
	if out := readLog(t, path+".2"); !strings.Contains(out, "window=1") {
		t.Fatalf(".2 = %q", out)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected only 2 rotated files, stat .3 err=%v", err)
	}
}

func TestLogger_DisabledAndNil(t *testing.T) {
	l, err := NewLogger(LogConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Log(ActionCreate, 1, nil)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var nilLogger *Logger
	nilLogger.Log(ActionCreate, 1, nil)
	if err := nilLogger.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"warn":    LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("hi", 5); got != "hi" {
		t.Fatalf("Truncate short = %q", got)
	}
}
