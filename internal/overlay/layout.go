package overlay

import (
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/gesture"
)

// UIState is the visibility of the optional chrome.
type UIState struct {
	MoveBar      bool
	HideCorners  bool
	Transparency bool
}

// Chrome holds the screen rectangle of every overlay part. An empty rect
// means the part is hidden.
type Chrome struct {
	Window       geometry.Rect
	TitleBar     geometry.Rect
	Divider      geometry.Rect
	DragBar      geometry.Rect
	Transparency geometry.Rect
	// Dismiss catches presses outside the transparency strip while it is
	// shown. It covers the whole window.
	Dismiss      geometry.Rect
	Triangle     geometry.Rect
	Quadrant     geometry.Rect
	Border       geometry.Rect
}

// Content is the window area below the title bar and its divider.
func (c Chrome) Content() geometry.Rect {
	top := c.Window.Y
	if !c.TitleBar.Empty() {
		top = c.TitleBar.Bottom()
	}
	if !c.Divider.Empty() {
		top = c.Divider.Bottom()
	}
	r := c.Window
	r.Height -= top - r.Y
	r.Y = top
	return r
}

// ComputeChrome lays the overlay out over the window rect win.
func ComputeChrome(win geometry.Rect, cfg *config.Config, ui UIState) Chrome {
	c := Chrome{Window: win}

	if h := cfg.TitleBar.Height(); h > 0 {
		c.TitleBar = geometry.Rect{X: win.X, Y: win.Y, Width: win.Width, Height: h}
		if d := cfg.TitleBar.DividerHeight(); d > 0 {
			c.Divider = geometry.Rect{X: win.X, Y: c.TitleBar.Bottom(), Width: win.Width, Height: d}
		}
	}
	content := c.Content()

	stripTop := content.Y
	if ui.MoveBar {
		c.DragBar = geometry.Rect{X: content.X, Y: content.Y, Width: content.Width, Height: cfg.DragBar.Height}
		stripTop = c.DragBar.Bottom()
	}
	if ui.Transparency {
		c.Transparency = geometry.Rect{X: content.X, Y: stripTop, Width: content.Width, Height: cfg.DragBar.Height}
		c.Dismiss = win
	}

	if !ui.MoveBar || !ui.HideCorners {
		c.Triangle = cornerRect(content, cfg.Triangle)
		c.Quadrant = cornerRect(content, cfg.Quadrant)
	}

	if cfg.Border.Enabled && cfg.Border.Thickness > 0 {
		c.Border = win
	}
	return c
}

// cornerRect places a square handle in the configured corner of area.
func cornerRect(area geometry.Rect, h config.Handle) geometry.Rect {
	size := h.EffectiveSize()
	if size > area.Width {
		size = area.Width
	}
	if size > area.Height {
		size = area.Height
	}
	if size <= 0 {
		return geometry.Rect{}
	}
	corner, err := gesture.ParseCorner(h.Corner)
	if err != nil {
		return geometry.Rect{}
	}

	r := geometry.Rect{X: area.X, Y: area.Y, Width: size, Height: size}
	switch corner {
	case gesture.CornerTopRight:
		r.X = area.Right() - size
	case gesture.CornerBottomLeft:
		r.Y = area.Bottom() - size
	case gesture.CornerBottomRight:
		r.X = area.Right() - size
		r.Y = area.Bottom() - size
	}
	return r
}
