// Package runtimepath locates the per-user directory and socket the daemon
// and its clients share.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	socketEnv  = "FLOATWIN_SOCKET"
	socketName = "floatwin.sock"
)

// Dir returns the runtime directory for the current user: $XDG_RUNTIME_DIR
// when set, else /run/user/<uid> when it exists, else a private directory
// under /tmp that is created on demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid := strconv.Itoa(os.Getuid())
	if dir := filepath.Join("/run/user", uid); isDir(dir) {
		return dir, nil
	}
	dir := filepath.Join(os.TempDir(), "floatwin-runtime-"+uid)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns where the daemon listens. FLOATWIN_SOCKET overrides
// it so one daemon per window can run side by side.
func SocketPath() (string, error) {
	if p := os.Getenv(socketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
