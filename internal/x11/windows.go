package x11

import (
	"fmt"
	"strings"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xprop"
)

const (
	stateMaxHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaxVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	opacityAtom  = "_NET_WM_WINDOW_OPACITY"
)

// FrameExtents returns the decorations the window manager draws around
// the window. An unset _NET_FRAME_EXTENTS means no frame.
func (c *Connection) FrameExtents(windowID xproto.Window) geometry.Insets {
	ext, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil || ext == nil {
		return geometry.Insets{}
	}
	return geometry.Insets{
		Left:   int(ext.Left),
		Right:  int(ext.Right),
		Top:    int(ext.Top),
		Bottom: int(ext.Bottom),
	}
}

// MoveResizeWindow places the window so its frame covers r, the same
// rectangle WindowGeometry reports. A maximized window is restored first so
// the WM honours the request.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, r geometry.Rect) error {
	if err := c.Unmaximize(windowID); err != nil {
		return fmt.Errorf("unmaximize 0x%x: %w", windowID, err)
	}

	req := moveResizeRequest(r, c.FrameExtents(windowID))
	ewmhErr := ewmh.MoveresizeWindow(c.XUtil, windowID, req.X, req.Y, req.Width, req.Height)
	if ewmhErr == nil {
		return nil
	}

	// WM without EWMH moveresize support.
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(req.X)), uint32(int32(req.Y)), uint32(req.Width), uint32(req.Height)}
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check(); err != nil {
		return fmt.Errorf("move 0x%x: %w (ewmh: %v)", windowID, err, ewmhErr)
	}
	return nil
}

// moveResizeRequest converts a frame rect into a NorthWest-gravity request:
// the position places the frame, the size is the client's.
func moveResizeRequest(frame geometry.Rect, ext geometry.Insets) geometry.Rect {
	client := frame.Inset(ext)
	return geometry.Rect{
		X:      frame.X,
		Y:      frame.Y,
		Width:  max(client.Width, 1),
		Height: max(client.Height, 1),
	}
}

// WindowGeometry returns the window's frame rectangle in root coordinates:
// the client area grown by the frame extents.
func (c *Connection) WindowGeometry(windowID xproto.Window) (geometry.Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("get geometry of 0x%x: %w", windowID, err)
	}
	tr, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("translate coordinates of 0x%x: %w", windowID, err)
	}
	client := geometry.Rect{
		X:      int(tr.DstX),
		Y:      int(tr.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}
	return client.Outset(c.FrameExtents(windowID)), nil
}

// WindowExists reports whether the window is still known to the server.
func (c *Connection) WindowExists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// Maximize asks the window manager to maximize the window on both axes.
func (c *Connection) Maximize(windowID xproto.Window) error {
	if err := ewmh.WmStateReqExtra(c.XUtil, windowID, ewmh.StateAdd, stateMaxHorz, stateMaxVert, 2); err != nil {
		return fmt.Errorf("maximize 0x%x: %w", windowID, err)
	}
	return nil
}

// Unmaximize removes any maximized state from the window. A window without
// _NET_WM_STATE has nothing to remove.
func (c *Connection) Unmaximize(windowID xproto.Window) error {
	states, _ := ewmh.WmStateGet(c.XUtil, windowID)
	for _, state := range states {
		if state == stateMaxHorz || state == stateMaxVert {
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsMaximized reports whether the window is maximized on both axes.
func (c *Connection) IsMaximized(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	var horz, vert bool
	for _, state := range states {
		switch state {
		case stateMaxHorz:
			horz = true
		case stateMaxVert:
			vert = true
		}
	}
	return horz && vert
}

// Minimize iconifies a window via WM_CHANGE_STATE.
func (c *Connection) Minimize(windowID xproto.Window) error {
	atom, err := c.atom("WM_CHANGE_STATE")
	if err != nil {
		return err
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// CloseWindow requests a graceful close via WM_DELETE_WINDOW.
func (c *Connection) CloseWindow(windowID xproto.Window) error {
	deleteAtom, err := c.atom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocols, err := c.atom("WM_PROTOCOLS")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// SetOpacity writes _NET_WM_WINDOW_OPACITY. A compositing manager applies it.
func (c *Connection) SetOpacity(windowID xproto.Window, cardinal uint32) error {
	if err := xprop.ChangeProp32(c.XUtil, windowID, opacityAtom, "CARDINAL", uint(cardinal)); err != nil {
		return fmt.Errorf("set opacity of 0x%x: %w", windowID, err)
	}
	return nil
}

// Opacity reads _NET_WM_WINDOW_OPACITY; an unset property is fully opaque.
func (c *Connection) Opacity(windowID xproto.Window) uint32 {
	v, err := xprop.PropValNum(xprop.GetProperty(c.XUtil, windowID, opacityAtom))
	if err != nil {
		return 0xFFFFFFFF
	}
	return uint32(v)
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

// GetActiveWindow returns _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// WindowTitle returns the EWMH title, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if title, err := xprop.PropValStr(xprop.GetProperty(c.XUtil, windowID, "WM_NAME")); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// FindWindowByTitle searches the EWMH client list for a normal window whose
// title contains substring. Returns the first match.
func (c *Connection) FindWindowByTitle(substring string) (xproto.Window, error) {
	if substring == "" {
		return 0, fmt.Errorf("title is empty")
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}
	for _, win := range clients {
		if !c.IsNormalWindow(win) {
			continue
		}
		if strings.Contains(c.WindowTitle(win), substring) {
			return win, nil
		}
	}
	return 0, fmt.Errorf("no window found with title containing %q", substring)
}

func (c *Connection) atom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	return reply.Atom, nil
}
