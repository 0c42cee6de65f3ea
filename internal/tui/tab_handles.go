package tui

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/config"
)

var cornerNames = []string{"top-left", "top-right", "bottom-left", "bottom-right"}

type handleValues struct {
	enabled   bool
	resize    bool
	drag      bool
	size      string
	corner    string
	tap       string
	longPress string
}

func loadHandle(h config.Handle) handleValues {
	return handleValues{
		enabled:   h.Enabled,
		resize:    h.Resize,
		drag:      h.Drag,
		size:      strconv.Itoa(h.Size),
		corner:    h.Corner,
		tap:       h.TapAction,
		longPress: h.LongPressAction,
	}
}

func (v *handleValues) group(name string) *huh.Group {
	return huh.NewGroup(
		huh.NewConfirm().
			Key(name+".enabled").
			Title(name).
			Description("Show the "+name+" handle").
			Value(&v.enabled),
		huh.NewSelect[string]().
			Key(name+".corner").
			Title("Corner").
			Options(huh.NewOptions(cornerNames...)...).
			Value(&v.corner),
		intInput(name+".size", "Size", "Handle size in pixels", &v.size, 0),
		huh.NewConfirm().
			Key(name+".resize").
			Title("Resize").
			Description("Dragging the handle resizes the window").
			Value(&v.resize),
		huh.NewConfirm().
			Key(name+".drag").
			Title("Drag").
			Description("Dragging the handle moves the window").
			Value(&v.drag),
		huh.NewSelect[string]().
			Key(name+".tap_action").
			Title("Tap Action").
			Options(huh.NewOptions(actions.Names()...)...).
			Value(&v.tap),
		huh.NewSelect[string]().
			Key(name+".long_press_action").
			Title("Long Press Action").
			Options(huh.NewOptions(actions.Names()...)...).
			Value(&v.longPress),
	)
}

func (v handleValues) apply(h *config.Handle) {
	h.Enabled = v.enabled
	h.Resize = v.resize
	h.Drag = v.drag
	setInt(&h.Size, v.size)
	if v.corner != "" {
		h.Corner = v.corner
	}
	if v.tap != "" {
		h.TapAction = v.tap
	}
	if v.longPress != "" {
		h.LongPressAction = v.longPress
	}
}

type handlesValues struct {
	triangle handleValues
	quadrant handleValues
}

func loadHandles(cfg *config.Config) editor {
	return &handlesValues{
		triangle: loadHandle(cfg.Triangle),
		quadrant: loadHandle(cfg.Quadrant),
	}
}

func (v *handlesValues) form(width int) *huh.Form {
	return huh.NewForm(v.triangle.group("Triangle"), v.quadrant.group("Quadrant")).WithWidth(width)
}

func (v *handlesValues) apply(cfg *config.Config) {
	v.triangle.apply(&cfg.Triangle)
	v.quadrant.apply(&cfg.Quadrant)
}

func newHandlesTab(cfg *config.Config) formTab {
	return formTab{
		title: "Handles",
		cfg:   cfg,
		load:  loadHandles,
		display: func(t formTab) []string {
			lines := describeHandle("Triangle", t.cfg.Triangle)
			lines = append(lines, "")
			return append(lines, describeHandle("Quadrant", t.cfg.Quadrant)...)
		},
	}
}

func describeHandle(name string, h config.Handle) []string {
	if !h.Enabled {
		return []string{row(name, "off")}
	}
	var modes []string
	if h.Resize {
		modes = append(modes, "resize")
	}
	if h.Drag {
		modes = append(modes, "drag")
	}
	mode := "actions only"
	if len(modes) > 0 {
		mode = modes[0]
		if len(modes) > 1 {
			mode += " + " + modes[1]
		}
	}
	return []string{
		row(name, h.Corner+", "+strconv.Itoa(h.Size)+"px"),
		row("Gesture", mode),
		row("Tap", h.TapAction),
		row("Long Press", h.LongPressAction),
	}
}
