package x11

import (
	"fmt"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds geometry.Rect
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Bounds: geometry.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}
	return monitors, nil
}

// ScreenBounds returns the usable area of the monitor that holds the
// window's center: the monitor minus dock struts, or intersected with the
// EWMH work area when no dock reserves space. When the window cannot be
// located the monitor under the pointer is used, then the first monitor.
func (c *Connection) ScreenBounds(win xproto.Window) (geometry.Rect, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return geometry.Rect{}, err
	}
	if len(monitors) == 0 {
		return geometry.Rect{}, fmt.Errorf("no monitors found")
	}

	mon := monitors[0].Bounds
	if r, err := c.WindowGeometry(win); err == nil {
		if m, ok := monitorAt(monitors, center(r)); ok {
			mon = m
		}
	} else if p, err := c.Pointer(); err == nil {
		if m, ok := monitorAt(monitors, p); ok {
			mon = m
		}
	}

	if usable, ok := c.applyDockStruts(mon); ok {
		return usable, nil
	}
	return c.applyWorkArea(mon), nil
}

// Pointer returns the pointer position in root coordinates.
func (c *Connection) Pointer() (geometry.Point, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{X: int(reply.RootX), Y: int(reply.RootY)}, nil
}

func center(r geometry.Rect) geometry.Point {
	return geometry.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func monitorAt(monitors []Monitor, p geometry.Point) (geometry.Rect, bool) {
	for _, m := range monitors {
		if m.Bounds.Contains(p) {
			return m.Bounds, true
		}
	}
	return geometry.Rect{}, false
}

func (c *Connection) applyWorkArea(mon geometry.Rect) geometry.Rect {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return mon
	}
	idx := 0
	if desk, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(desk) < len(areas) {
		idx = int(desk)
	}
	wa := areas[idx]
	usable := intersect(mon, geometry.Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)})
	if usable.Empty() {
		return mon
	}
	return usable
}

// struts accumulates the space docks reserve on each side of a monitor.
type struts struct {
	left, right, top, bottom int
}

func (c *Connection) applyDockStruts(mon geometry.Rect) (geometry.Rect, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return mon, false
	}
	rootW, rootH := int(rootGeom.Width), int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return mon, false
	}

	var acc struts
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			acc.add(mon, rootW, rootH, sp)
			continue
		}
		// Older docks only set _NET_WM_STRUT; treat it as spanning the root.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			acc.add(mon, rootW, rootH, &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY: uint(rootH - 1), RightEndY: uint(rootH - 1),
				TopEndX: uint(rootW - 1), BottomEndX: uint(rootW - 1),
			})
		}
	}

	if acc == (struts{}) {
		return mon, false
	}

	mon.X += acc.left
	mon.Y += acc.top
	mon.Width = maxInt(1, mon.Width-acc.left-acc.right)
	mon.Height = maxInt(1, mon.Height-acc.top-acc.bottom)
	return mon, true
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// add records the part of each strut that overlaps mon.
func (s *struts) add(mon geometry.Rect, rootW, rootH int, sp *ewmh.WmStrutPartial) {
	if sp.Top > 0 {
		r := intersect(mon, span(int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top)))
		s.top = maxInt(s.top, r.Height)
	}
	if sp.Bottom > 0 {
		r := intersect(mon, span(int(sp.BottomStartX), rootH-int(sp.Bottom), int(sp.BottomEndX)+1, rootH))
		s.bottom = maxInt(s.bottom, r.Height)
	}
	if sp.Left > 0 {
		r := intersect(mon, span(0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1))
		s.left = maxInt(s.left, r.Width)
	}
	if sp.Right > 0 {
		r := intersect(mon, span(rootW-int(sp.Right), int(sp.RightStartY), rootW, int(sp.RightEndY)+1))
		s.right = maxInt(s.right, r.Width)
	}
}

func span(x1, y1, x2, y2 int) geometry.Rect {
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// intersect returns the overlap of a and b, or the zero rect.
func intersect(a, b geometry.Rect) geometry.Rect {
	if !a.Intersects(b) {
		return geometry.Rect{}
	}
	x1, y1 := maxInt(a.X, b.X), maxInt(a.Y, b.Y)
	x2, y2 := minInt(a.Right(), b.Right()), minInt(a.Bottom(), b.Bottom())
	return span(x1, y1, x2, y2)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
