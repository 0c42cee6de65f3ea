package geometry

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultMinVisible is the number of pixels per axis that must stay on screen.
const DefaultMinVisible = 48

// Surface is the host window the overlay manipulates.
type Surface interface {
	ApplyGeometry(r Rect) error
	ScreenBounds() (Rect, error)
	Close() error
	Minimize() error
	Maximize() error
}

// Limits constrains committed geometry. Zero max values mean "no maximum".
type Limits struct {
	MinWidth   int
	MinHeight  int
	MaxWidth   int
	MaxHeight  int
	MinVisible int
}

// ClampSize raises w/h to the minimums and lowers them to the maximums.
// Minimums win when the two conflict.
func (l Limits) ClampSize(w, h int) (int, int) {
	if l.MaxWidth > 0 && w > l.MaxWidth {
		w = l.MaxWidth
	}
	if l.MaxHeight > 0 && h > l.MaxHeight {
		h = l.MaxHeight
	}
	minW, minH := l.MinWidth, l.MinHeight
	if minW < 1 {
		minW = 1
	}
	if minH < 1 {
		minH = 1
	}
	if w < minW {
		w = minW
	}
	if h < minH {
		h = minH
	}
	return w, h
}

// Clamp returns r resized to the limits and moved so that at least
// MinVisible pixels on each axis overlap screen.
func (l Limits) Clamp(r, screen Rect) Rect {
	r.Width, r.Height = l.ClampSize(r.Width, r.Height)
	if screen.Empty() {
		return r
	}

	visX := l.minVisible(r.Width, screen.Width)
	visY := l.minVisible(r.Height, screen.Height)

	r.X = clampInt(r.X, screen.X-r.Width+visX, screen.Right()-visX)
	r.Y = clampInt(r.Y, screen.Y-r.Height+visY, screen.Bottom()-visY)
	return r
}

func (l Limits) minVisible(size, screenSize int) int {
	v := l.MinVisible
	if v <= 0 {
		v = DefaultMinVisible
	}
	if v > size {
		v = size
	}
	if v > screenSize {
		v = screenSize
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Model owns the committed rectangle of the manipulated window. It is
// mutated only through Commit and is not safe for concurrent use.
type Model struct {
	surface Surface
	limits  Limits
	current Rect
	logger  *zap.Logger

	// OnCommit, if set, is called after every successful commit.
	OnCommit func(r Rect)
}

// NewModel creates a model seeded with the window's present geometry.
// The initial rect is recorded as-is; it is only clamped on the next commit.
func NewModel(surface Surface, initial Rect, limits Limits, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		surface: surface,
		limits:  limits,
		current: initial,
		logger:  logger,
	}
}

// Current returns the committed rectangle.
func (m *Model) Current() Rect {
	return m.current
}

// Limits returns the constraints applied on commit.
func (m *Model) Limits() Limits {
	return m.limits
}

// Sync records a rect the window manager applied outside the engine, e.g.
// after a keyboard move. The host is not called and OnCommit does not fire.
func (m *Model) Sync(r Rect) {
	m.current = r
}

// Screen returns the host screen bounds.
func (m *Model) Screen() (Rect, error) {
	return m.surface.ScreenBounds()
}

// Commit clamps r to the limits and the screen, asks the host to apply it
// and records it. If the host rejects the geometry the previous rect is
// kept and the error is returned; there is no retry.
func (m *Model) Commit(r Rect) (Rect, error) {
	screen, err := m.surface.ScreenBounds()
	if err != nil {
		// Size limits still apply without a screen.
		m.logger.Debug("screen bounds unavailable, clamping size only", zap.Error(err))
		screen = Rect{}
	}

	clamped := m.limits.Clamp(r, screen)
	if clamped != r {
		m.logger.Debug("geometry clamped",
			zap.Stringer("requested", r),
			zap.Stringer("clamped", clamped))
	}

	if err := m.surface.ApplyGeometry(clamped); err != nil {
		return m.current, fmt.Errorf("apply geometry %s: %w", clamped, err)
	}

	m.current = clamped
	if m.OnCommit != nil {
		m.OnCommit(clamped)
	}
	return clamped, nil
}
