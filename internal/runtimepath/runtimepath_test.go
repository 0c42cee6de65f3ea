package runtimepath

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestDir(t *testing.T) {
	t.Run("xdg runtime dir wins", func(t *testing.T) {
		td := t.TempDir()
		t.Setenv("XDG_RUNTIME_DIR", td)
		got, err := Dir()
		if err != nil {
			t.Fatalf("Dir: %v", err)
		}
		if got != td {
			t.Fatalf("Dir = %q, want %q", got, td)
		}
	})

	t.Run("falls back without xdg", func(t *testing.T) {
		t.Setenv("XDG_RUNTIME_DIR", "")
		got, err := Dir()
		if err != nil {
			t.Fatalf("Dir: %v", err)
		}
		uid := strconv.Itoa(os.Getuid())
		run := filepath.Join("/run/user", uid)
		tmp := filepath.Join(os.TempDir(), "floatwin-runtime-"+uid)
		if got != run && got != tmp {
			t.Fatalf("Dir = %q, want %q or %q", got, run, tmp)
		}
		if info, err := os.Stat(got); err != nil || !info.IsDir() {
			t.Fatalf("Dir %q is not a directory: %v", got, err)
		}
	})
}

func TestSocketPath(t *testing.T) {
	tests := []struct {
		name     string
		override string
		want     func(dir string) string
	}{
		{
			name: "runtime dir",
			want: func(dir string) string { return filepath.Join(dir, "floatwin.sock") },
		},
		{
			name:     "env override",
			override: "/tmp/custom.sock",
			want:     func(string) string { return "/tmp/custom.sock" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("XDG_RUNTIME_DIR", dir)
			t.Setenv("FLOATWIN_SOCKET", tt.override)
			got, err := SocketPath()
			if err != nil {
				t.Fatalf("SocketPath: %v", err)
			}
			if want := tt.want(dir); got != want {
				t.Fatalf("SocketPath = %q, want %q", got, want)
			}
		})
	}
}
