package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestSocketEnvOverride(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	want := filepath.Join(t.TempDir(), "fb0.sock")
	t.Setenv(SocketEnv, want)

	socket, err := SocketPath()
	if err != nil || socket != want {
		t.Fatalf("SocketPath() = %q, %v, want %q", socket, err, want)
	}
	pid, err := PIDPath()
	if err != nil || pid != want+".pid" {
		t.Fatalf("PIDPath() = %q, %v, want %q", pid, err, want+".pid")
	}
}

func TestPrivateDir(t *testing.T) {
	base := t.TempDir()

	fresh := filepath.Join(base, "fresh")
	if _, err := privateDir(fresh); err != nil {
		t.Fatalf("privateDir(fresh): %v", err)
	}
	if info, err := os.Stat(fresh); err != nil || info.Mode().Perm() != 0700 {
		t.Fatalf("fresh dir mode = %v, %v, want 0700", info.Mode().Perm(), err)
	}

	loose := filepath.Join(base, "loose")
	if err := os.Mkdir(loose, 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(loose, 0777); err != nil {
		t.Fatal(err)
	}
	if _, err := privateDir(loose); err != nil {
		t.Fatalf("privateDir(loose): %v", err)
	}
	if info, _ := os.Stat(loose); info.Mode().Perm() != 0700 {
		t.Fatalf("loose dir mode = %v, want 0700", info.Mode().Perm())
	}

	link := filepath.Join(base, "link")
	if err := os.Symlink(fresh, link); err != nil {
		t.Fatal(err)
	}
	if _, err := privateDir(link); err == nil {
		t.Fatal("privateDir should refuse a symlink")
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/quadwm-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPathAndPIDPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv(SocketEnv, "")

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if !strings.HasSuffix(socket, "/quadwm.sock") {
		t.Fatalf("SocketPath() = %q, missing suffix", socket)
	}

	pid, err := PIDPath()
	if err != nil {
		t.Fatalf("PIDPath() error: %v", err)
	}
	if !strings.HasSuffix(pid, "/quadwm.pid") {
		t.Fatalf("PIDPath() = %q, missing suffix", pid)
	}
}
