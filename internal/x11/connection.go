package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// referenceDPI is the density treated as 1.0 when scaling pixel tolerances.
const referenceDPI = 96.0

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server and initializes
// the key and pointer binding modules.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Both are required before any Connect/Drag call.
	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// Density returns the screen density relative to 96 DPI, derived from the
// physical size the server reports. It returns 1 when the size is unknown.
func (c *Connection) Density() float64 {
	screen := c.XUtil.Screen()
	if screen == nil || screen.WidthInMillimeters == 0 {
		return 1
	}
	dpi := float64(screen.WidthInPixels) * 25.4 / float64(screen.WidthInMillimeters)
	if dpi <= 0 {
		return 1
	}
	return dpi / referenceDPI
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops a running EventLoop.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
