package tui

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/floatwin/internal/config"
)

type generalValues struct {
	logLevel    string
	liveResize  bool
	minWidth    string
	minHeight   string
	maxWidth    string
	maxHeight   string
	minVisible  string
	longPressMS string
	tapSlop     string
	pollMS      string
}

func loadGeneral(cfg *config.Config) editor {
	return &generalValues{
		logLevel:    cfg.LogLevel,
		liveResize:  cfg.LiveResize,
		minWidth:    strconv.Itoa(cfg.MinWidth),
		minHeight:   strconv.Itoa(cfg.MinHeight),
		maxWidth:    strconv.Itoa(cfg.MaxWidth),
		maxHeight:   strconv.Itoa(cfg.MaxHeight),
		minVisible:  strconv.Itoa(cfg.MinVisible),
		longPressMS: strconv.Itoa(cfg.LongPressMS),
		tapSlop:     strconv.Itoa(cfg.TapSlop),
		pollMS:      strconv.Itoa(cfg.PollMS),
	}
}

func (v *generalValues) form(width int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("live_resize").
				Title("Live Resize").
				Description("Resize the window on every pointer move instead of drawing an outline").
				Value(&v.liveResize),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&v.logLevel),
			intInput("long_press_ms", "Long Press (ms)", "Hold time before a press becomes a long press", &v.longPressMS, 50),
			intInput("tap_slop", "Tap Slop", "Pointer travel in pixels a tap may have", &v.tapSlop, 0),
			intInput("poll_ms", "Poll Interval (ms)", "How often the daemon checks the window still exists", &v.pollMS, 100),
		),
		huh.NewGroup(
			intInput("min_width", "Min Width", "Smallest window width", &v.minWidth, 1),
			intInput("min_height", "Min Height", "Smallest window height", &v.minHeight, 1),
			intInput("max_width", "Max Width", "Largest window width, 0 for the screen", &v.maxWidth, 0),
			intInput("max_height", "Max Height", "Largest window height, 0 for the screen", &v.maxHeight, 0),
			intInput("min_visible", "Min Visible", "Pixels that must stay on screen while dragging", &v.minVisible, 0),
		),
	).WithWidth(width)
}

func (v *generalValues) apply(cfg *config.Config) {
	if v.logLevel != "" {
		cfg.LogLevel = v.logLevel
	}
	cfg.LiveResize = v.liveResize
	setInt(&cfg.MinWidth, v.minWidth)
	setInt(&cfg.MinHeight, v.minHeight)
	setInt(&cfg.MaxWidth, v.maxWidth)
	setInt(&cfg.MaxHeight, v.maxHeight)
	setInt(&cfg.MinVisible, v.minVisible)
	setInt(&cfg.LongPressMS, v.longPressMS)
	setInt(&cfg.TapSlop, v.tapSlop)
	setInt(&cfg.PollMS, v.pollMS)
}

func newGeneralTab(cfg *config.Config) formTab {
	return formTab{
		title: "General",
		cfg:   cfg,
		load:  loadGeneral,
		display: func(t formTab) []string {
			cfg := t.cfg
			resize := "outline"
			if cfg.LiveResize {
				resize = "live"
			}
			return []string{
				row("Resize", resize),
				row("Log Level", cfg.LogLevel),
				row("Long Press", strconv.Itoa(cfg.LongPressMS)+"ms"),
				row("Tap Slop", strconv.Itoa(cfg.TapSlop)+"px"),
				row("Poll Interval", strconv.Itoa(cfg.PollMS)+"ms"),
				"",
				row("Min Size", strconv.Itoa(cfg.MinWidth)+"×"+strconv.Itoa(cfg.MinHeight)),
				row("Max Size", orDefault(cfg.MaxWidth, "screen")+"×"+orDefault(cfg.MaxHeight, "screen")),
				row("Min Visible", strconv.Itoa(cfg.MinVisible)+"px"),
				"",
				row("Toggle Drag Bar", cfg.Hotkeys.ToggleMoveBar),
				row("Maximize", cfg.Hotkeys.Maximize),
				row("Restore", cfg.Hotkeys.Restore),
			}
		},
	}
}
