package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/quadwm/internal/compositor"
	"github.com/1broseidon/quadwm/internal/ipc"
	"github.com/1broseidon/quadwm/internal/runtimepath"
)

func shortDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "qwmd")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func startDaemon(t *testing.T, cfg string) (*Daemon, string) {
	t.Helper()
	dir := shortDir(t)
	t.Setenv("XDG_RUNTIME_DIR", dir)
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, cfg+"socket_path: "+filepath.Join(dir, "d.sock")+"\n")

	d, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Start(); err != nil {
		d.Close()
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(d.Close)
	return d, path
}

func TestDaemon_StartServesIPC(t *testing.T) {
	d, _ := startDaemon(t, "display:\n  width: 64\n  height: 48\n")

	client := ipc.NewClientWithSocket(d.SocketPath())
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Width != 64 || status.Height != 48 || status.Backend != "memory" {
		t.Fatalf("unexpected status %+v", status)
	}

	pidPath, err := runtimepath.PIDPath()
	if err != nil {
		t.Fatalf("PIDPath: %v", err)
	}
	data, err := os.ReadFile(pidPath)
	if err != nil {
		t.Fatalf("pid file: %v", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		t.Fatal("pid file is empty")
	}
}

func TestDaemon_ReloadAppliesPolicyAndLimits(t *testing.T) {
	d, path := startDaemon(t, "rebuild: topology\n")
	sock := d.SocketPath()

	writeFile(t, path, "rebuild: always\nlimits:\n  max_windows: 1\nsocket_path: "+sock+"\n")
	client := ipc.NewClientWithSocket(sock)
	if err := client.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := d.Compositor().Stats().Policy; got != compositor.RebuildAlways {
		t.Fatalf("policy = %q after reload", got)
	}
	if _, err := client.CreateWindow(ipc.CreateWindowPayload{Width: 1, Height: 1}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := client.CreateWindow(ipc.CreateWindowPayload{Width: 1, Height: 1}); err == nil {
		t.Fatal("expected the reloaded window limit to apply")
	}
}

func TestDaemon_ReloadRejectsInvalidConfig(t *testing.T) {
	d, path := startDaemon(t, "")
	writeFile(t, path, "rebuild: never\n")
	if err := d.Reload(); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
	if got := d.Config().Rebuild; got != "topology" {
		t.Fatalf("active config changed by failed reload: %q", got)
	}
}

func TestConfigWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "log_level: info\n")

	changed := make(chan struct{}, 4)
	w := &ConfigWatcher{
		Path:     path,
		Debounce: 20 * time.Millisecond,
		OnChange: func() { changed <- struct{}{} },
		Logger:   slog.New(slog.DiscardHandler),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	}()

	// Give the watcher time to register before writing.
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-changed:
			return
		case <-tick.C:
			writeFile(t, path, "log_level: debug\n")
		case <-deadline:
			t.Fatal("watcher never fired")
		}
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	changed := make(chan struct{}, 4)
	w := &ConfigWatcher{
		Path:     path,
		Debounce: 10 * time.Millisecond,
		OnChange: func() { changed <- struct{}{} },
		Logger:   slog.New(slog.DiscardHandler),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "other.yaml"), "x: 1\n")

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	select {
	case <-changed:
		t.Fatal("watcher fired for an unrelated file")
	default:
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
