package mcp

import "github.com/1broseidon/floatwin/internal/geometry"

// RectArgs is a window rectangle in root-window pixels.
type RectArgs struct {
	X      int `json:"x" jsonschema:"Left edge in pixels"`
	Y      int `json:"y" jsonschema:"Top edge in pixels"`
	Width  int `json:"width" jsonschema:"Width in pixels"`
	Height int `json:"height" jsonschema:"Height in pixels"`
}

func (r RectArgs) rect() geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func fromRect(r geometry.Rect) RectArgs {
	return RectArgs{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// EmptyInput is the input of tools without arguments.
type EmptyInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	WindowID     string   `json:"window_id"`
	Title        string   `json:"title,omitempty"`
	Window       RectArgs `json:"window"`
	Screen       RectArgs `json:"screen"`
	Phase        string   `json:"phase"`
	Resize       string   `json:"resize"`
	SnapEnabled  bool     `json:"snap_enabled"`
	Tolerance    int      `json:"snap_tolerance"`
	MoveBar      bool     `json:"move_bar"`
	Transparency bool     `json:"transparency"`
	Opacity      int      `json:"opacity"`
}

// GeometryOutput is the output for get_geometry and set_geometry.
type GeometryOutput struct {
	Rect RectArgs `json:"rect"`
}

// SetGeometryInput is the input for the set_geometry tool.
type SetGeometryInput struct {
	Rect RectArgs `json:"rect" jsonschema:"required,Target window rectangle. It is clamped to the minimum size and kept on screen."`
}

// SnapPreviewInput is the input for the snap_preview tool.
type SnapPreviewInput struct {
	Rect RectArgs `json:"rect" jsonschema:"required,Candidate window rectangle at pointer release"`
}

// SnapPreviewOutput is the output for the snap_preview tool.
type SnapPreviewOutput struct {
	Zone    string   `json:"zone"`
	Snapped bool     `json:"snapped"`
	Rect    RectArgs `json:"rect"`
}

// DispatchActionInput is the input for the dispatch_action tool. Either
// Action, or Handle with Trigger, must be set.
type DispatchActionInput struct {
	Action  string `json:"action,omitempty" jsonschema:"Action name (none, move-bar, close, transparency, minimize, move-bar-keep-corners, maximize) or its code 0-6"`
	Handle  string `json:"handle,omitempty" jsonschema:"Handle to trigger instead of a direct action: triangle or quadrant"`
	Trigger string `json:"trigger,omitempty" jsonschema:"tap or long-press (default: tap). Only used with handle."`
}

// DispatchActionOutput reports the action that ran.
type DispatchActionOutput struct {
	Action string `json:"action"`
	Code   int    `json:"code"`
}

// SetOpacityInput is the input for the set_opacity tool.
type SetOpacityInput struct {
	Percent int `json:"percent" jsonschema:"required,Opacity percent; values are clamped to 10-100"`
}

// SetOpacityOutput is the applied opacity.
type SetOpacityOutput struct {
	Percent int `json:"percent"`
}

// SetMoveBarInput is the input for the set_move_bar tool.
type SetMoveBarInput struct {
	Visible     bool `json:"visible" jsonschema:"required,Show (true) or hide (false) the drag bar"`
	HideCorners bool `json:"hide_corners,omitempty" jsonschema:"Hide the corner handles while the bar is shown"`
}
