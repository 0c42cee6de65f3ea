package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/gesture"
	"github.com/1broseidon/floatwin/internal/snap"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// TitleBar describes the optional title bar strip above the window content.
type TitleBar struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	Size    int  `yaml:"size" toml:"size"`
	Divider int  `yaml:"divider" toml:"divider"`
}

// Height is the effective title bar height; zero when disabled.
func (t TitleBar) Height() int {
	if !t.Enabled {
		return 0
	}
	return t.Size
}

// DividerHeight is the effective divider line height; zero when disabled.
func (t TitleBar) DividerHeight() int {
	if !t.Enabled {
		return 0
	}
	return t.Divider
}

// Snap configures edge snapping on drag release.
type Snap struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// Tolerance is the snap band in pixels. Zero derives it from the
	// display density.
	Tolerance int    `yaml:"tolerance" toml:"tolerance"`
	TopEdge   string `yaml:"top_edge" toml:"top_edge"`
}

// Handle configures one corner handle.
type Handle struct {
	Enabled         bool   `yaml:"enabled" toml:"enabled"`
	Size            int    `yaml:"size" toml:"size"`
	Color           string `yaml:"color" toml:"color"`
	Drag            bool   `yaml:"drag" toml:"drag"`
	Resize          bool   `yaml:"resize" toml:"resize"`
	Corner          string `yaml:"corner" toml:"corner"`
	TapAction       string `yaml:"tap_action" toml:"tap_action"`
	LongPressAction string `yaml:"long_press_action" toml:"long_press_action"`
}

// EffectiveSize is the handle's on-screen size; zero when disabled.
func (h Handle) EffectiveSize() int {
	if !h.Enabled {
		return 0
	}
	return h.Size
}

// DragBar configures the drag-to-move bar.
type DragBar struct {
	Height int    `yaml:"height" toml:"height"`
	Color  string `yaml:"color" toml:"color"`
}

// Border configures the coloured frame drawn around the host window.
type Border struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Color     string `yaml:"color" toml:"color"`
	Thickness int    `yaml:"thickness" toml:"thickness"`
}

// Outline configures the preview drawn during an outline resize.
type Outline struct {
	Color     string `yaml:"color" toml:"color"`
	Thickness int    `yaml:"thickness" toml:"thickness"`
}

// Hotkeys are xgbutil keybind strings.
type Hotkeys struct {
	ToggleMoveBar string `yaml:"toggle_move_bar" toml:"toggle_move_bar"`
	Maximize      string `yaml:"maximize" toml:"maximize"`
	Restore       string `yaml:"restore" toml:"restore"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel    string   `yaml:"log_level" toml:"log_level"`
	LiveResize  bool     `yaml:"live_resize" toml:"live_resize"`
	MinWidth    int      `yaml:"min_width" toml:"min_width"`
	MinHeight   int      `yaml:"min_height" toml:"min_height"`
	MaxWidth    int      `yaml:"max_width" toml:"max_width"`
	MaxHeight   int      `yaml:"max_height" toml:"max_height"`
	MinVisible  int      `yaml:"min_visible" toml:"min_visible"`
	LongPressMS int      `yaml:"long_press_ms" toml:"long_press_ms"`
	TapSlop     int      `yaml:"tap_slop" toml:"tap_slop"`
	TitleBar    TitleBar `yaml:"title_bar" toml:"title_bar"`
	Snap        Snap     `yaml:"snap" toml:"snap"`
	Triangle    Handle   `yaml:"triangle" toml:"triangle"`
	Quadrant    Handle   `yaml:"quadrant" toml:"quadrant"`
	DragBar     DragBar  `yaml:"drag_bar" toml:"drag_bar"`
	Border      Border   `yaml:"border" toml:"border"`
	Outline     Outline  `yaml:"outline" toml:"outline"`
	Hotkeys     Hotkeys  `yaml:"hotkeys" toml:"hotkeys"`
	MetricsAddr string   `yaml:"metrics_addr,omitempty" toml:"metrics_addr,omitempty"`
	PollMS      int      `yaml:"poll_ms" toml:"poll_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		LiveResize:  false,
		MinWidth:    120,
		MinHeight:   80,
		MinVisible:  48,
		LongPressMS: 500,
		TapSlop:     8,
		PollMS:      1000,
		TitleBar: TitleBar{
			Enabled: false,
			Size:    24,
			Divider: 1,
		},
		Snap: Snap{
			Enabled: true,
			TopEdge: string(snap.TopEdgeMaximize),
		},
		Triangle: Handle{
			Enabled:         true,
			Size:            36,
			Color:           "2a2a2a",
			Resize:          true,
			Corner:          "top-left",
			TapAction:       "move-bar",
			LongPressAction: "transparency",
		},
		Quadrant: Handle{
			Enabled:         true,
			Size:            36,
			Color:           "2a2a2a",
			Resize:          true,
			Corner:          "bottom-right",
			TapAction:       "none",
			LongPressAction: "none",
		},
		DragBar: DragBar{
			Height: 28,
			Color:  "33b5e5",
		},
		Border: Border{
			Enabled:   false,
			Color:     "33b5e5",
			Thickness: 2,
		},
		Outline: Outline{
			Color:     "ffffff",
			Thickness: 2,
		},
		Hotkeys: Hotkeys{
			ToggleMoveBar: "Mod4-Mod1-b",
			Maximize:      "Mod4-Mod1-Up",
			Restore:       "Mod4-Mod1-Down",
		},
	}
}

var colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.MinWidth < 1 || c.MinHeight < 1 {
		return &ValidationError{Path: "min_width", Err: fmt.Errorf("min_width and min_height must be >= 1")}
	}
	if c.MaxWidth < 0 || c.MaxHeight < 0 {
		return &ValidationError{Path: "max_width", Err: fmt.Errorf("max_width and max_height must be >= 0 (0 means unbounded)")}
	}
	if c.MinVisible < 0 {
		return &ValidationError{Path: "min_visible", Err: fmt.Errorf("min_visible must be >= 0")}
	}
	if c.LongPressMS < 50 {
		return &ValidationError{Path: "long_press_ms", Err: fmt.Errorf("long_press_ms must be >= 50")}
	}
	if c.TapSlop < 0 {
		return &ValidationError{Path: "tap_slop", Err: fmt.Errorf("tap_slop must be >= 0")}
	}
	if c.PollMS < 100 {
		return &ValidationError{Path: "poll_ms", Err: fmt.Errorf("poll_ms must be >= 100")}
	}
	if c.TitleBar.Size < 0 || c.TitleBar.Divider < 0 {
		return &ValidationError{Path: "title_bar", Err: fmt.Errorf("title_bar sizes must be >= 0")}
	}
	if c.Snap.Tolerance < 0 {
		return &ValidationError{Path: "snap.tolerance", Err: fmt.Errorf("tolerance must be >= 0")}
	}
	switch snap.TopEdge(c.Snap.TopEdge) {
	case snap.TopEdgeMaximize, snap.TopEdgeHalf:
	default:
		return &ValidationError{Path: "snap.top_edge", Err: fmt.Errorf("top_edge must be one of: %s, %s", snap.TopEdgeMaximize, snap.TopEdgeHalf)}
	}
	if err := validateHandle("triangle", c.Triangle); err != nil {
		return err
	}
	if err := validateHandle("quadrant", c.Quadrant); err != nil {
		return err
	}
	if c.DragBar.Height < 1 {
		return &ValidationError{Path: "drag_bar.height", Err: fmt.Errorf("height must be >= 1")}
	}
	if !colorPattern.MatchString(c.DragBar.Color) {
		return &ValidationError{Path: "drag_bar.color", Err: fmt.Errorf("color must be 6 hex digits, got %q", c.DragBar.Color)}
	}
	if c.Border.Thickness < 0 {
		return &ValidationError{Path: "border.thickness", Err: fmt.Errorf("thickness must be >= 0")}
	}
	if !colorPattern.MatchString(c.Border.Color) {
		return &ValidationError{Path: "border.color", Err: fmt.Errorf("color must be 6 hex digits, got %q", c.Border.Color)}
	}
	if c.Outline.Thickness < 1 {
		return &ValidationError{Path: "outline.thickness", Err: fmt.Errorf("thickness must be >= 1")}
	}
	if !colorPattern.MatchString(c.Outline.Color) {
		return &ValidationError{Path: "outline.color", Err: fmt.Errorf("color must be 6 hex digits, got %q", c.Outline.Color)}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func validateHandle(name string, h Handle) error {
	if h.Size < 0 {
		return &ValidationError{Path: name + ".size", Err: fmt.Errorf("size must be >= 0")}
	}
	if h.Color != "" && !colorPattern.MatchString(h.Color) {
		return &ValidationError{Path: name + ".color", Err: fmt.Errorf("color must be 6 hex digits, got %q", h.Color)}
	}
	if _, err := gesture.ParseCorner(h.Corner); err != nil {
		return &ValidationError{Path: name + ".corner", Err: err}
	}
	if actionIsTypo(h.TapAction) {
		return &ValidationError{Path: name + ".tap_action", Err: fmt.Errorf("unknown action %q", h.TapAction)}
	}
	if actionIsTypo(h.LongPressAction) {
		return &ValidationError{Path: name + ".long_press_action", Err: fmt.Errorf("unknown action %q", h.LongPressAction)}
	}
	return nil
}

// actionIsTypo reports a binding that is neither a known name nor a number.
// Empty bindings and unknown codes mean none.
func actionIsTypo(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if _, err := strconv.Atoi(v); err == nil {
		return false
	}
	_, ok := actions.ParseAction(v)
	return !ok
}

// unboundCodeWarning describes a numeric binding that maps to no action.
func unboundCodeWarning(path, v string) (string, bool) {
	code, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || code == 0 {
		return "", false
	}
	if actions.FromCode(code) != actions.None {
		return "", false
	}
	return fmt.Sprintf("%s: action code %d is unknown; treated as none", path, code), true
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}

	var warnings []string
	if c.MaxWidth > 0 && c.MaxWidth < c.MinWidth {
		warnings = append(warnings, fmt.Sprintf("max_width %d is below min_width %d; min_width wins", c.MaxWidth, c.MinWidth))
	}
	if c.MaxHeight > 0 && c.MaxHeight < c.MinHeight {
		warnings = append(warnings, fmt.Sprintf("max_height %d is below min_height %d; min_height wins", c.MaxHeight, c.MinHeight))
	}
	if c.Triangle.Enabled && c.Triangle.Drag && c.Triangle.Resize {
		warnings = append(warnings, "triangle has both drag and resize enabled; drag wins")
	}
	if c.Quadrant.Enabled && c.Quadrant.Drag && c.Quadrant.Resize {
		warnings = append(warnings, "quadrant has both drag and resize enabled; drag wins")
	}
	for _, b := range []struct{ path, value string }{
		{"triangle.tap_action", c.Triangle.TapAction},
		{"triangle.long_press_action", c.Triangle.LongPressAction},
		{"quadrant.tap_action", c.Quadrant.TapAction},
		{"quadrant.long_press_action", c.Quadrant.LongPressAction},
	} {
		if w, ok := unboundCodeWarning(b.path, b.value); ok {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// Save writes the configuration to path, choosing TOML or YAML by extension.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original file.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal(formatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal encodes the config as "yaml" or "toml".
func (c *Config) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return buf.Bytes(), nil
	case "yaml", "yml", "":
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}
