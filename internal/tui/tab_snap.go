package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/snap"
)

type snapValues struct {
	enabled   bool
	tolerance string
	topEdge   string
}

func loadSnap(cfg *config.Config) editor {
	return &snapValues{
		enabled:   cfg.Snap.Enabled,
		tolerance: strconv.Itoa(cfg.Snap.Tolerance),
		topEdge:   cfg.Snap.TopEdge,
	}
}

func (v *snapValues) form(width int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("enabled").
				Title("Edge Snapping").
				Description("Snap the window to a screen zone when a drag ends near an edge").
				Value(&v.enabled),
			intInput("tolerance", "Tolerance", "Snap band in pixels, 0 derives it from the display density", &v.tolerance, 0),
			huh.NewSelect[string]().
				Key("top_edge").
				Title("Top Edge").
				Description("What a release against the top edge snaps to").
				Options(huh.NewOptions(string(snap.TopEdgeMaximize), string(snap.TopEdgeHalf))...).
				Value(&v.topEdge),
		),
	).WithWidth(width)
}

func (v *snapValues) apply(cfg *config.Config) {
	cfg.Snap.Enabled = v.enabled
	setInt(&cfg.Snap.Tolerance, v.tolerance)
	if v.topEdge != "" {
		cfg.Snap.TopEdge = v.topEdge
	}
}

func newSnapTab(cfg *config.Config) formTab {
	return formTab{
		title:     "Snap",
		cfg:       cfg,
		load:      loadSnap,
		cursorLen: len(snap.BuildZones(previewScreen, snap.TopEdgeMaximize)),
		display:   snapDisplay,
	}
}

func snapDisplay(t formTab) []string {
	cfg := t.cfg
	tolerance := fmt.Sprintf("%dpx at 1x density", snap.DefaultTolerance(1))
	if cfg.Snap.Tolerance > 0 {
		tolerance = strconv.Itoa(cfg.Snap.Tolerance) + "px"
	}
	lines := []string{
		row("Edge Snapping", onOff(cfg.Snap.Enabled)),
		row("Tolerance", tolerance),
		row("Top Edge", cfg.Snap.TopEdge),
		"",
	}

	zones := snap.BuildZones(previewScreen, snap.TopEdge(cfg.Snap.TopEdge))
	zone := zones[t.cursor%len(zones)]
	w := t.width - 8
	if w > 64 {
		w = 64
	}
	h := w * previewScreen.Height / previewScreen.Width / 2
	if h < 5 {
		h = 5
	}
	lines = append(lines, row("Zone", fmt.Sprintf("%s (%d/%d)", zone.Kind, t.cursor%len(zones)+1, len(zones))))
	for _, l := range renderZonePreview(zone, previewScreen, w, h) {
		lines = append(lines, "  "+l)
	}
	lines = append(lines, dimStyle.Render("  ←/→ to browse zones"))
	return lines
}
