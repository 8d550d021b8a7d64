// Package runtimepath locates the daemon socket and pid file.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// SocketEnv overrides the socket path, for running more than one daemon
// (one per display backend) side by side.
const SocketEnv = "QUADWM_SOCKET"

// Dir returns the directory holding the socket and pid file:
// $XDG_RUNTIME_DIR, else /run/user/<uid>, else a private
// /tmp/quadwm-runtime-<uid>.
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	return privateDir(fmt.Sprintf("/tmp/quadwm-runtime-%d", uid))
}

// privateDir creates path with mode 0700, or tightens an existing one. The
// socket is only 0600, so anyone able to write the directory could swap it
// out; a symlink or plain file at path is refused.
func privateDir(path string) (string, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	info, err := os.Lstat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat runtime dir: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("runtime dir %s is not a directory", path)
	}
	if info.Mode().Perm()&0077 != 0 {
		if err := os.Chmod(path, 0700); err != nil {
			return "", fmt.Errorf("failed to restrict runtime dir: %w", err)
		}
	}
	return path, nil
}

// SocketPath returns $QUADWM_SOCKET, else quadwm.sock in Dir.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "quadwm.sock"), nil
}

// PIDPath returns the pid file next to the default socket. With
// $QUADWM_SOCKET set it sits beside that socket instead, so two daemons
// never share one.
func PIDPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p + ".pid", nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "quadwm.pid"), nil
}
