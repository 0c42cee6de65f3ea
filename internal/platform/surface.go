package platform

import (
	"fmt"

	"github.com/1broseidon/floatwin/internal/geometry"
)

// WindowSurface adapts one backend window to geometry.Surface. It also
// satisfies actions.Host.
type WindowSurface struct {
	backend Backend
	id      WindowID
}

var _ geometry.Surface = (*WindowSurface)(nil)

func NewWindowSurface(backend Backend, id WindowID) *WindowSurface {
	return &WindowSurface{backend: backend, id: id}
}

// ID returns the host window.
func (s *WindowSurface) ID() WindowID {
	return s.id
}

func (s *WindowSurface) ApplyGeometry(r geometry.Rect) error {
	if err := s.backend.MoveResize(s.id, r); err != nil {
		return fmt.Errorf("window %s: %w", s.id, err)
	}
	return nil
}

func (s *WindowSurface) ScreenBounds() (geometry.Rect, error) {
	return s.backend.ScreenBounds(s.id)
}

func (s *WindowSurface) Bounds() (geometry.Rect, error) {
	return s.backend.WindowBounds(s.id)
}

func (s *WindowSurface) Close() error {
	return s.backend.Close(s.id)
}

func (s *WindowSurface) Minimize() error {
	return s.backend.Minimize(s.id)
}

func (s *WindowSurface) Maximize() error {
	return s.backend.Maximize(s.id)
}

func (s *WindowSurface) Restore() error {
	return s.backend.Restore(s.id)
}

func (s *WindowSurface) SetOpacity(percent int) error {
	return s.backend.SetOpacity(s.id, percent)
}

func (s *WindowSurface) Opacity() (int, error) {
	return s.backend.Opacity(s.id)
}

// Exists reports whether the host window is still alive.
func (s *WindowSurface) Exists() bool {
	return s.backend.WindowExists(s.id)
}
