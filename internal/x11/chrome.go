package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/gesture"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// PointerFunc receives the pointer events of a panel in root coordinates.
type PointerFunc func(kind gesture.EventKind, pos geometry.Point)

// Panel is a single override-redirect window: a handle, a bar or one side
// of a border. It bypasses the window manager and stays above the host.
type Panel struct {
	conn      *Connection
	Window    xproto.Window
	color     uint32
	mapped    bool
	inputOnly bool
}

// NewPanel creates an unmapped panel filled with color.
func (c *Connection) NewPanel(color uint32) (*Panel, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}

	// Value list order follows the mask bit order: CwBackPixel before
	// CwOverrideRedirect.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		[]uint32{color, 1},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create panel: %w", err)
	}

	return &Panel{conn: c, Window: wid, color: color}, nil
}

// NewInputPanel creates an unmapped, invisible panel that only receives
// pointer input. It catches presses over whatever lies beneath it.
func (c *Connection) NewInputPanel() (*Panel, error) {
	conn := c.XUtil.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	err = xproto.CreateWindowChecked(
		conn,
		0,
		wid,
		c.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOnly,
		0,
		xproto.CwOverrideRedirect,
		[]uint32{1},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create input panel: %w", err)
	}
	return &Panel{conn: c, Window: wid, inputOnly: true}, nil
}

// Place moves the panel over r, raises it and maps it. An empty r hides it.
func (p *Panel) Place(r geometry.Rect) {
	if r.Empty() {
		p.Hide()
		return
	}
	conn := p.conn.XUtil.Conn()
	xproto.ConfigureWindow(
		conn,
		p.Window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(r.X)),
			uint32(int32(r.Y)),
			uint32(r.Width),
			uint32(r.Height),
			xproto.StackModeAbove,
		},
	)
	if !p.mapped {
		xproto.MapWindow(conn, p.Window)
		p.mapped = true
	}
	if !p.inputOnly {
		xproto.ClearArea(conn, false, p.Window, 0, 0, 0, 0)
	}
}

// SetColor changes the fill colour.
func (p *Panel) SetColor(color uint32) {
	if p.inputOnly || color == p.color {
		return
	}
	p.color = color
	conn := p.conn.XUtil.Conn()
	xproto.ChangeWindowAttributes(conn, p.Window, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, p.Window, 0, 0, 0, 0)
}

// Hide unmaps the panel without destroying it.
func (p *Panel) Hide() {
	if !p.mapped {
		return
	}
	xproto.UnmapWindow(p.conn.XUtil.Conn(), p.Window)
	p.mapped = false
}

// Visible reports whether the panel is mapped.
func (p *Panel) Visible() bool {
	return p.mapped
}

// BindPointer turns button-1 presses on the panel into down, move and up
// events. The pointer is grabbed for the duration of the press.
func (p *Panel) BindPointer(fn PointerFunc) {
	begin := func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) (bool, xproto.Cursor) {
		fn(gesture.EventDown, geometry.Point{X: rootX, Y: rootY})
		return true, 0
	}
	step := func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) {
		fn(gesture.EventMove, geometry.Point{X: rootX, Y: rootY})
	}
	end := func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) {
		fn(gesture.EventUp, geometry.Point{X: rootX, Y: rootY})
	}
	mousebind.Drag(p.conn.XUtil, p.Window, p.Window, "1", true, begin, step, end)
}

// Destroy detaches callbacks and destroys the window.
func (p *Panel) Destroy() {
	if p.Window == 0 {
		return
	}
	mousebind.Detach(p.conn.XUtil, p.Window)
	xevent.Detach(p.conn.XUtil, p.Window)
	xproto.DestroyWindow(p.conn.XUtil.Conn(), p.Window)
	p.Window = 0
	p.mapped = false
}

// Border is a rectangular frame made of four panels. It serves both as the
// window border and as the outline shown during an outline resize.
type Border struct {
	sides     [4]*Panel
	thickness int
}

var _ gesture.Outline = (*Border)(nil)

// NewBorder creates the four side panels of a border.
func (c *Connection) NewBorder(color uint32, thickness int) (*Border, error) {
	b := &Border{thickness: thickness}
	for i := range b.sides {
		p, err := c.NewPanel(color)
		if err != nil {
			b.Destroy()
			return nil, err
		}
		b.sides[i] = p
	}
	return b, nil
}

// Show draws the border along the inside of r.
func (b *Border) Show(r geometry.Rect) error {
	if b.thickness <= 0 {
		b.Hide()
		return nil
	}
	for i, side := range BorderSides(r, b.thickness) {
		b.sides[i].Place(side)
	}
	return nil
}

// Hide unmaps all four sides.
func (b *Border) Hide() {
	for _, p := range b.sides {
		if p != nil {
			p.Hide()
		}
	}
}

// Destroy releases the side windows.
func (b *Border) Destroy() {
	for _, p := range b.sides {
		if p != nil {
			p.Destroy()
		}
	}
}

// BorderSides splits the frame of r into top, bottom, left and right
// strips of thickness t. The left and right strips sit between the others.
func BorderSides(r geometry.Rect, t int) [4]geometry.Rect {
	if t*2 > r.Width {
		t = r.Width / 2
	}
	if t*2 > r.Height {
		t = r.Height / 2
	}
	inner := r.Height - 2*t
	return [4]geometry.Rect{
		{X: r.X, Y: r.Y, Width: r.Width, Height: t},
		{X: r.X, Y: r.Bottom() - t, Width: r.Width, Height: t},
		{X: r.X, Y: r.Y + t, Width: t, Height: inner},
		{X: r.Right() - t, Y: r.Y + t, Width: t, Height: inner},
	}
}

// ParseColor converts "rrggbb" (optionally prefixed with '#') to a pixel
// value for a TrueColor visual.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(v), nil
}
