package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawTitleBar struct {
	Enabled *bool `yaml:"enabled" toml:"enabled"`
	Size    *int  `yaml:"size" toml:"size"`
	Divider *int  `yaml:"divider" toml:"divider"`
}

type RawSnap struct {
	Enabled   *bool   `yaml:"enabled" toml:"enabled"`
	Tolerance *int    `yaml:"tolerance" toml:"tolerance"`
	TopEdge   *string `yaml:"top_edge" toml:"top_edge"`
}

type RawHandle struct {
	Enabled         *bool   `yaml:"enabled" toml:"enabled"`
	Size            *int    `yaml:"size" toml:"size"`
	Color           *string `yaml:"color" toml:"color"`
	Drag            *bool   `yaml:"drag" toml:"drag"`
	Resize          *bool   `yaml:"resize" toml:"resize"`
	Corner          *string `yaml:"corner" toml:"corner"`
	TapAction       *string `yaml:"tap_action" toml:"tap_action"`
	LongPressAction *string `yaml:"long_press_action" toml:"long_press_action"`
}

type RawDragBar struct {
	Height *int    `yaml:"height" toml:"height"`
	Color  *string `yaml:"color" toml:"color"`
}

type RawBorder struct {
	Enabled   *bool   `yaml:"enabled" toml:"enabled"`
	Color     *string `yaml:"color" toml:"color"`
	Thickness *int    `yaml:"thickness" toml:"thickness"`
}

type RawOutline struct {
	Color     *string `yaml:"color" toml:"color"`
	Thickness *int    `yaml:"thickness" toml:"thickness"`
}

type RawHotkeys struct {
	ToggleMoveBar *string `yaml:"toggle_move_bar" toml:"toggle_move_bar"`
	Maximize      *string `yaml:"maximize" toml:"maximize"`
	Restore       *string `yaml:"restore" toml:"restore"`
}

type RawConfig struct {
	Include     IncludeList  `yaml:"include" toml:"include"`
	LogLevel    *string      `yaml:"log_level" toml:"log_level"`
	LiveResize  *bool        `yaml:"live_resize" toml:"live_resize"`
	MinWidth    *int         `yaml:"min_width" toml:"min_width"`
	MinHeight   *int         `yaml:"min_height" toml:"min_height"`
	MaxWidth    *int         `yaml:"max_width" toml:"max_width"`
	MaxHeight   *int         `yaml:"max_height" toml:"max_height"`
	MinVisible  *int         `yaml:"min_visible" toml:"min_visible"`
	LongPressMS *int         `yaml:"long_press_ms" toml:"long_press_ms"`
	TapSlop     *int         `yaml:"tap_slop" toml:"tap_slop"`
	PollMS      *int         `yaml:"poll_ms" toml:"poll_ms"`
	MetricsAddr *string      `yaml:"metrics_addr" toml:"metrics_addr"`
	TitleBar    *RawTitleBar `yaml:"title_bar" toml:"title_bar"`
	Snap        *RawSnap     `yaml:"snap" toml:"snap"`
	Triangle    *RawHandle   `yaml:"triangle" toml:"triangle"`
	Quadrant    *RawHandle   `yaml:"quadrant" toml:"quadrant"`
	DragBar     *RawDragBar  `yaml:"drag_bar" toml:"drag_bar"`
	Border      *RawBorder   `yaml:"border" toml:"border"`
	Outline     *RawOutline  `yaml:"outline" toml:"outline"`
	Hotkeys     *RawHotkeys  `yaml:"hotkeys" toml:"hotkeys"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	mergePtr(&out.LogLevel, overlay.LogLevel)
	mergePtr(&out.LiveResize, overlay.LiveResize)
	mergePtr(&out.MinWidth, overlay.MinWidth)
	mergePtr(&out.MinHeight, overlay.MinHeight)
	mergePtr(&out.MaxWidth, overlay.MaxWidth)
	mergePtr(&out.MaxHeight, overlay.MaxHeight)
	mergePtr(&out.MinVisible, overlay.MinVisible)
	mergePtr(&out.LongPressMS, overlay.LongPressMS)
	mergePtr(&out.TapSlop, overlay.TapSlop)
	mergePtr(&out.PollMS, overlay.PollMS)
	mergePtr(&out.MetricsAddr, overlay.MetricsAddr)

	if overlay.TitleBar != nil {
		merged := RawTitleBar{}
		if out.TitleBar != nil {
			merged = *out.TitleBar
		}
		mergePtr(&merged.Enabled, overlay.TitleBar.Enabled)
		mergePtr(&merged.Size, overlay.TitleBar.Size)
		mergePtr(&merged.Divider, overlay.TitleBar.Divider)
		out.TitleBar = &merged
	}
	if overlay.Snap != nil {
		merged := RawSnap{}
		if out.Snap != nil {
			merged = *out.Snap
		}
		mergePtr(&merged.Enabled, overlay.Snap.Enabled)
		mergePtr(&merged.Tolerance, overlay.Snap.Tolerance)
		mergePtr(&merged.TopEdge, overlay.Snap.TopEdge)
		out.Snap = &merged
	}
	out.Triangle = mergeRawHandle(out.Triangle, overlay.Triangle)
	out.Quadrant = mergeRawHandle(out.Quadrant, overlay.Quadrant)
	if overlay.DragBar != nil {
		merged := RawDragBar{}
		if out.DragBar != nil {
			merged = *out.DragBar
		}
		mergePtr(&merged.Height, overlay.DragBar.Height)
		mergePtr(&merged.Color, overlay.DragBar.Color)
		out.DragBar = &merged
	}
	if overlay.Border != nil {
		merged := RawBorder{}
		if out.Border != nil {
			merged = *out.Border
		}
		mergePtr(&merged.Enabled, overlay.Border.Enabled)
		mergePtr(&merged.Color, overlay.Border.Color)
		mergePtr(&merged.Thickness, overlay.Border.Thickness)
		out.Border = &merged
	}
	if overlay.Outline != nil {
		merged := RawOutline{}
		if out.Outline != nil {
			merged = *out.Outline
		}
		mergePtr(&merged.Color, overlay.Outline.Color)
		mergePtr(&merged.Thickness, overlay.Outline.Thickness)
		out.Outline = &merged
	}
	if overlay.Hotkeys != nil {
		merged := RawHotkeys{}
		if out.Hotkeys != nil {
			merged = *out.Hotkeys
		}
		mergePtr(&merged.ToggleMoveBar, overlay.Hotkeys.ToggleMoveBar)
		mergePtr(&merged.Maximize, overlay.Hotkeys.Maximize)
		mergePtr(&merged.Restore, overlay.Hotkeys.Restore)
		out.Hotkeys = &merged
	}

	return out
}

func mergeRawHandle(base, overlay *RawHandle) *RawHandle {
	if overlay == nil {
		return base
	}
	merged := RawHandle{}
	if base != nil {
		merged = *base
	}
	mergePtr(&merged.Enabled, overlay.Enabled)
	mergePtr(&merged.Size, overlay.Size)
	mergePtr(&merged.Color, overlay.Color)
	mergePtr(&merged.Drag, overlay.Drag)
	mergePtr(&merged.Resize, overlay.Resize)
	mergePtr(&merged.Corner, overlay.Corner)
	mergePtr(&merged.TapAction, overlay.TapAction)
	mergePtr(&merged.LongPressAction, overlay.LongPressAction)
	return &merged
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
