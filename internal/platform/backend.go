package platform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/floatwin/internal/geometry"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

func (id WindowID) String() string {
	return fmt.Sprintf("0x%x", uint32(id))
}

// ParseWindowID accepts decimal or 0x-prefixed hexadecimal ids, the two
// forms xwininfo and xdotool print.
func ParseWindowID(s string) (WindowID, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return WindowID(v), nil
}

// Backend abstracts window-system operations on one host window.
type Backend interface {
	ActiveWindow() (WindowID, error)
	FindWindow(title string) (WindowID, error)
	WindowExists(windowID WindowID) bool
	WindowTitle(windowID WindowID) string

	WindowBounds(windowID WindowID) (geometry.Rect, error)
	ScreenBounds(windowID WindowID) (geometry.Rect, error)
	MoveResize(windowID WindowID, bounds geometry.Rect) error

	Minimize(windowID WindowID) error
	Close(windowID WindowID) error
	Maximize(windowID WindowID) error
	Restore(windowID WindowID) error

	// Opacity is a percentage in [actions.MinOpacity, actions.MaxOpacity].
	SetOpacity(windowID WindowID, percent int) error
	Opacity(windowID WindowID) (int, error)
}
