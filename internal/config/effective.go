package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" {
		return fmt.Sprintf("%s: %s: %v", e.Source.File, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("$%s: %s: %v", e.Source.Name, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig. It does not validate.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	setIfPresent(&cfg.LogLevel, raw.LogLevel)
	setIfPresent(&cfg.LiveResize, raw.LiveResize)
	setIfPresent(&cfg.MinWidth, raw.MinWidth)
	setIfPresent(&cfg.MinHeight, raw.MinHeight)
	setIfPresent(&cfg.MaxWidth, raw.MaxWidth)
	setIfPresent(&cfg.MaxHeight, raw.MaxHeight)
	setIfPresent(&cfg.MinVisible, raw.MinVisible)
	setIfPresent(&cfg.LongPressMS, raw.LongPressMS)
	setIfPresent(&cfg.TapSlop, raw.TapSlop)
	setIfPresent(&cfg.PollMS, raw.PollMS)
	setIfPresent(&cfg.MetricsAddr, raw.MetricsAddr)

	if raw.TitleBar != nil {
		setIfPresent(&cfg.TitleBar.Enabled, raw.TitleBar.Enabled)
		setIfPresent(&cfg.TitleBar.Size, raw.TitleBar.Size)
		setIfPresent(&cfg.TitleBar.Divider, raw.TitleBar.Divider)
	}
	if raw.Snap != nil {
		setIfPresent(&cfg.Snap.Enabled, raw.Snap.Enabled)
		setIfPresent(&cfg.Snap.Tolerance, raw.Snap.Tolerance)
		setIfPresent(&cfg.Snap.TopEdge, raw.Snap.TopEdge)
	}
	applyHandle(&cfg.Triangle, raw.Triangle)
	applyHandle(&cfg.Quadrant, raw.Quadrant)
	if raw.DragBar != nil {
		setIfPresent(&cfg.DragBar.Height, raw.DragBar.Height)
		setIfPresent(&cfg.DragBar.Color, raw.DragBar.Color)
	}
	if raw.Border != nil {
		setIfPresent(&cfg.Border.Enabled, raw.Border.Enabled)
		setIfPresent(&cfg.Border.Color, raw.Border.Color)
		setIfPresent(&cfg.Border.Thickness, raw.Border.Thickness)
	}
	if raw.Outline != nil {
		setIfPresent(&cfg.Outline.Color, raw.Outline.Color)
		setIfPresent(&cfg.Outline.Thickness, raw.Outline.Thickness)
	}
	if raw.Hotkeys != nil {
		setIfPresent(&cfg.Hotkeys.ToggleMoveBar, raw.Hotkeys.ToggleMoveBar)
		setIfPresent(&cfg.Hotkeys.Maximize, raw.Hotkeys.Maximize)
		setIfPresent(&cfg.Hotkeys.Restore, raw.Hotkeys.Restore)
	}

	if cfg.Triangle.Enabled && cfg.Triangle.Size == 0 {
		return nil, &ValidationError{Path: "triangle.size", Err: fmt.Errorf("an enabled handle needs a size")}
	}
	if cfg.Quadrant.Enabled && cfg.Quadrant.Size == 0 {
		return nil, &ValidationError{Path: "quadrant.size", Err: fmt.Errorf("an enabled handle needs a size")}
	}

	return cfg, nil
}

func applyHandle(dst *Handle, raw *RawHandle) {
	if raw == nil {
		return
	}
	setIfPresent(&dst.Enabled, raw.Enabled)
	setIfPresent(&dst.Size, raw.Size)
	setIfPresent(&dst.Color, raw.Color)
	setIfPresent(&dst.Drag, raw.Drag)
	setIfPresent(&dst.Resize, raw.Resize)
	setIfPresent(&dst.Corner, raw.Corner)
	setIfPresent(&dst.TapAction, raw.TapAction)
	setIfPresent(&dst.LongPressAction, raw.LongPressAction)
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
