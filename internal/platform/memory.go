package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/geometry"
)

// MemoryBackend is an in-process window system with a single screen. The
// replay command and headless tests run the engine against it.
type MemoryBackend struct {
	mu      sync.Mutex
	screen  geometry.Rect
	windows map[WindowID]*memoryWindow
	active  WindowID
	next    WindowID

	// Log records every host operation in order, e.g. "move 0x1 0,0 500x2000".
	Log []string
}

type memoryWindow struct {
	title string
	// bounds is the client area; frame surrounds it.
	bounds    geometry.Rect
	frame     geometry.Insets
	restore   geometry.Rect
	maximized bool
	minimized bool
	opacity   int
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates a backend whose screen is screen.
func NewMemoryBackend(screen geometry.Rect) *MemoryBackend {
	return &MemoryBackend{
		screen:  screen,
		windows: make(map[WindowID]*memoryWindow),
		next:    1,
	}
}

// AddWindow creates a window and makes it active.
func (m *MemoryBackend) AddWindow(title string, bounds geometry.Rect) WindowID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.windows[id] = &memoryWindow{title: title, bounds: bounds, opacity: actions.MaxOpacity}
	m.active = id
	return id
}

// SetScreen changes the screen bounds, as a monitor hotplug or rotation would.
func (m *MemoryBackend) SetScreen(screen geometry.Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.screen = screen
}

// SetFrameExtents decorates the window with a frame of in, the way a
// reparenting window manager does. The client area stays put, so
// WindowBounds grows by in.
func (m *MemoryBackend) SetFrameExtents(id WindowID, in geometry.Insets) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		w.frame = in
	}
}

// ClientBounds returns the window's client area, without its frame.
func (m *MemoryBackend) ClientBounds(id WindowID) (geometry.Rect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.window(id)
	if err != nil {
		return geometry.Rect{}, err
	}
	return w.bounds, nil
}

// Minimized reports whether the window was iconified.
func (m *MemoryBackend) Minimized(id WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	return ok && w.minimized
}

func (m *MemoryBackend) ActiveWindow() (WindowID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[m.active]; !ok {
		return 0, fmt.Errorf("no active window")
	}
	return m.active, nil
}

func (m *MemoryBackend) FindWindow(title string) (WindowID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := WindowID(1); id < m.next; id++ {
		if w, ok := m.windows[id]; ok && w.title == title {
			return id, nil
		}
	}
	return 0, fmt.Errorf("no window found with title %q", title)
}

func (m *MemoryBackend) WindowExists(id WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.windows[id]
	return ok
}

func (m *MemoryBackend) WindowTitle(id WindowID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		return w.title
	}
	return ""
}

func (m *MemoryBackend) WindowBounds(id WindowID) (geometry.Rect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.window(id)
	if err != nil {
		return geometry.Rect{}, err
	}
	return w.bounds.Outset(w.frame), nil
}

func (m *MemoryBackend) ScreenBounds(id WindowID) (geometry.Rect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.window(id); err != nil {
		return geometry.Rect{}, err
	}
	return m.screen, nil
}

func (m *MemoryBackend) MoveResize(id WindowID, bounds geometry.Rect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.window(id)
	if err != nil {
		return err
	}
	w.bounds = bounds.Inset(w.frame)
	w.maximized = false
	m.record("move %s %s", id, bounds)
	return nil
}

func (m *MemoryBackend) Minimize(id WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.window(id)
	if err != nil {
		return err
	}
	w.minimized = true
	m.record("minimize %s", id)
	return nil
}

func (m *MemoryBackend) Close(id WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.window(id); err != nil {
		return err
	}
	delete(m.windows, id)
	m.record("close %s", id)
	return nil
}

func (m *MemoryBackend) Maximize(id WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.window(id)
	if err != nil {
		return err
	}
	if !w.maximized {
		w.restore = w.bounds
		w.maximized = true
	}
	w.bounds = m.screen.Inset(w.frame)
	m.record("maximize %s", id)
	return nil
}

func (m *MemoryBackend) Restore(id WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.window(id)
	if err != nil {
		return err
	}
	if w.maximized {
		w.bounds = w.restore
		w.maximized = false
	}
	w.minimized = false
	m.record("restore %s", id)
	return nil
}

func (m *MemoryBackend) SetOpacity(id WindowID, percent int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.window(id)
	if err != nil {
		return err
	}
	w.opacity = actions.ClampOpacity(percent)
	m.record("opacity %s %d", id, w.opacity)
	return nil
}

func (m *MemoryBackend) Opacity(id WindowID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.window(id)
	if err != nil {
		return 0, err
	}
	return w.opacity, nil
}

func (m *MemoryBackend) window(id WindowID) (*memoryWindow, error) {
	w, ok := m.windows[id]
	if !ok {
		return nil, fmt.Errorf("window %s not found", id)
	}
	return w, nil
}

func (m *MemoryBackend) record(format string, args ...any) {
	m.Log = append(m.Log, fmt.Sprintf(format, args...))
}

// Entries returns a copy of Log, safe to call while another goroutine
// drives the backend.
func (m *MemoryBackend) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Log...)
}
