//go:build linux

package overlay

import (
	"fmt"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/gesture"
	"github.com/1broseidon/floatwin/internal/x11"
	"go.uber.org/zap"
)

const (
	transparencyColor = 0x444444
	dividerColor      = 0x000000
)

// X11Renderer draws the chrome as override-redirect panels above the host.
type X11Renderer struct {
	conn   *x11.Connection
	logger *zap.Logger

	triangle     *x11.Panel
	quadrant     *x11.Panel
	dragBar      *x11.Panel
	titleBar     *x11.Panel
	divider      *x11.Panel
	transparency *x11.Panel
	dismiss      *x11.Panel
	border       *x11.Border
	outline      *x11.Border

	outlineThickness int
	outlineColor     uint32
}

var _ Renderer = (*X11Renderer)(nil)

// NewX11Renderer creates the chrome windows, unmapped. The overlay
// configures it on attach; call Bind once the overlay exists so the panels
// deliver pointer events to it.
func NewX11Renderer(conn *x11.Connection, logger *zap.Logger) (*X11Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &X11Renderer{conn: conn, logger: logger}

	panels := []**x11.Panel{&r.triangle, &r.quadrant, &r.dragBar, &r.titleBar, &r.divider, &r.transparency}
	for _, p := range panels {
		panel, err := conn.NewPanel(0)
		if err != nil {
			r.Destroy()
			return nil, err
		}
		*p = panel
	}
	dismiss, err := conn.NewInputPanel()
	if err != nil {
		r.Destroy()
		return nil, err
	}
	r.dismiss = dismiss
	return r, nil
}

// Configure recolours the panels and recreates the borders when their
// colour or thickness changed.
func (r *X11Renderer) Configure(cfg *config.Config) {
	r.triangle.SetColor(r.color(cfg.Triangle.Color, 0x2a2a2a))
	r.quadrant.SetColor(r.color(cfg.Quadrant.Color, 0x2a2a2a))
	r.dragBar.SetColor(r.color(cfg.DragBar.Color, 0x33b5e5))
	r.titleBar.SetColor(r.color(cfg.DragBar.Color, 0x33b5e5))
	r.divider.SetColor(dividerColor)
	r.transparency.SetColor(transparencyColor)

	if r.border != nil {
		r.border.Destroy()
		r.border = nil
	}
	if cfg.Border.Enabled && cfg.Border.Thickness > 0 {
		b, err := r.conn.NewBorder(r.color(cfg.Border.Color, 0x33b5e5), cfg.Border.Thickness)
		if err != nil {
			r.logger.Warn("window border unavailable", zap.Error(err))
		} else {
			r.border = b
		}
	}

	color := r.color(cfg.Outline.Color, 0xffffff)
	if r.outline == nil || color != r.outlineColor || cfg.Outline.Thickness != r.outlineThickness {
		if r.outline != nil {
			r.outline.Destroy()
			r.outline = nil
		}
		b, err := r.conn.NewBorder(color, cfg.Outline.Thickness)
		if err != nil {
			r.logger.Warn("resize outline unavailable", zap.Error(err))
		} else {
			r.outline = b
			r.outlineColor = color
			r.outlineThickness = cfg.Outline.Thickness
		}
	}
}

func (r *X11Renderer) color(s string, fallback uint32) uint32 {
	c, err := x11.ParseColor(s)
	if err != nil {
		r.logger.Debug("invalid colour, using default", zap.String("color", s))
		return fallback
	}
	return c
}

// Bind routes button-1 drags on the panels to o.
func (r *X11Renderer) Bind(o *Overlay) {
	bind := func(p *x11.Panel, h actions.Handle) {
		p.BindPointer(func(kind gesture.EventKind, pos geometry.Point) {
			if err := o.HandleEvent(h, gesture.Event{Kind: kind, Pos: pos}); err != nil {
				r.logger.Warn("pointer event failed",
					zap.Stringer("handle", h),
					zap.Stringer("event", kind),
					zap.Error(err))
			}
		})
	}
	bind(r.triangle, actions.HandleTriangle)
	bind(r.quadrant, actions.HandleQuadrant)
	bind(r.dragBar, actions.HandleDragBar)
	bind(r.titleBar, actions.HandleTitleBar)

	r.transparency.BindPointer(func(kind gesture.EventKind, pos geometry.Point) {
		if err := o.TransparencyEvent(kind, pos); err != nil {
			r.logger.Warn("transparency event failed", zap.Error(err))
		}
	})
	// Close on release: unmapping the catcher mid-press would drop the
	// pointer grab it holds.
	r.dismiss.BindPointer(func(kind gesture.EventKind, _ geometry.Point) {
		if kind != gesture.EventUp {
			return
		}
		if err := o.DismissTransparency(); err != nil {
			r.logger.Warn("closing transparency strip failed", zap.Error(err))
		}
	})
}

// Render places every panel; empty rects hide theirs.
func (r *X11Renderer) Render(c Chrome) error {
	if r.border != nil {
		if c.Border.Empty() {
			r.border.Hide()
		} else if err := r.border.Show(c.Border); err != nil {
			return fmt.Errorf("border: %w", err)
		}
	}
	r.titleBar.Place(c.TitleBar)
	r.divider.Place(c.Divider)
	r.dragBar.Place(c.DragBar)
	r.triangle.Place(c.Triangle)
	r.quadrant.Place(c.Quadrant)
	// Each Place raises, so the catcher covers the handles and the strip
	// stays on top of it.
	r.dismiss.Place(c.Dismiss)
	r.transparency.Place(c.Transparency)
	return nil
}

// Outline returns the resize preview border.
func (r *X11Renderer) Outline() gesture.Outline {
	if r.outline == nil {
		return nil
	}
	return r.outline
}

// Destroy removes every chrome window.
func (r *X11Renderer) Destroy() {
	for _, p := range []*x11.Panel{r.triangle, r.quadrant, r.dragBar, r.titleBar, r.divider, r.transparency, r.dismiss} {
		if p != nil {
			p.Destroy()
		}
	}
	if r.border != nil {
		r.border.Destroy()
	}
	if r.outline != nil {
		r.outline.Destroy()
	}
}
