//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Connection exposes the X11 connection for chrome windows and hotkeys.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	if wid == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return WindowID(wid), nil
}

// FindWindow returns the first normal window whose title contains title.
func (b *LinuxBackend) FindWindow(title string) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	wid, err := conn.FindWindowByTitle(title)
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

func (b *LinuxBackend) WindowExists(windowID WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.WindowExists(xproto.Window(windowID))
}

func (b *LinuxBackend) WindowTitle(windowID WindowID) string {
	conn, err := b.connection()
	if err != nil {
		return ""
	}
	return conn.WindowTitle(xproto.Window(windowID))
}

// WindowBounds returns the window rectangle in root coordinates.
func (b *LinuxBackend) WindowBounds(windowID WindowID) (geometry.Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return geometry.Rect{}, err
	}
	return conn.WindowGeometry(xproto.Window(windowID))
}

// ScreenBounds returns the usable area of the monitor holding the window.
func (b *LinuxBackend) ScreenBounds(windowID WindowID) (geometry.Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return geometry.Rect{}, err
	}
	return conn.ScreenBounds(xproto.Window(windowID))
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds geometry.Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(windowID), bounds)
}

// Minimize minimizes a window via WM_CHANGE_STATE.
func (b *LinuxBackend) Minimize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Minimize(xproto.Window(windowID))
}

// Close requests graceful window close via WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.CloseWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) Maximize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Maximize(xproto.Window(windowID))
}

// Restore clears the maximized state. A window the WM does not consider
// maximized is left alone.
func (b *LinuxBackend) Restore(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if !conn.IsMaximized(xproto.Window(windowID)) {
		return nil
	}
	return conn.Unmaximize(xproto.Window(windowID))
}

// SetOpacity writes the clamped percentage as _NET_WM_WINDOW_OPACITY.
func (b *LinuxBackend) SetOpacity(windowID WindowID, percent int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetOpacity(xproto.Window(windowID), actions.OpacityCardinal(percent))
}

func (b *LinuxBackend) Opacity(windowID WindowID) (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return actions.OpacityPercent(conn.Opacity(xproto.Window(windowID))), nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
