package gesture

import (
	"fmt"

	"github.com/1broseidon/floatwin/internal/geometry"
	"go.uber.org/zap"
)

// Strategy selects how a resize gesture reaches the host.
type Strategy int

const (
	// StrategyLive commits every pointer move; content reflows continuously.
	StrategyLive Strategy = iota
	// StrategyOutline shows a border-only preview and commits once on release.
	StrategyOutline
)

func (s Strategy) String() string {
	switch s {
	case StrategyLive:
		return "live"
	case StrategyOutline:
		return "outline"
	default:
		return "unknown"
	}
}

// Corner is the window corner a resize handle drags. The opposite corner
// stays fixed.
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerTopRight:
		return "top-right"
	case CornerBottomLeft:
		return "bottom-left"
	case CornerBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// ParseCorner converts a config value to a Corner.
func ParseCorner(s string) (Corner, error) {
	switch s {
	case "top-left":
		return CornerTopLeft, nil
	case "top-right":
		return CornerTopRight, nil
	case "bottom-left":
		return CornerBottomLeft, nil
	case "bottom-right":
		return CornerBottomRight, nil
	default:
		return 0, fmt.Errorf("unknown corner %q", s)
	}
}

func (c Corner) left() bool { return c == CornerTopLeft || c == CornerBottomLeft }
func (c Corner) top() bool  { return c == CornerTopLeft || c == CornerTopRight }

// Outline is the lightweight border shown during an outline resize.
type Outline interface {
	Show(r geometry.Rect) error
	Hide()
}

type nopOutline struct{}

func (nopOutline) Show(geometry.Rect) error { return nil }
func (nopOutline) Hide()                    {}

// ResizeRect computes the rect produced by dragging corner by delta from
// origin, with the size clamped to limits and the opposite corner fixed.
func ResizeRect(origin geometry.Rect, corner Corner, delta geometry.Point, limits geometry.Limits) geometry.Rect {
	w := origin.Width + delta.X
	if corner.left() {
		w = origin.Width - delta.X
	}
	h := origin.Height + delta.Y
	if corner.top() {
		h = origin.Height - delta.Y
	}
	w, h = limits.ClampSize(w, h)

	out := geometry.Rect{X: origin.X, Y: origin.Y, Width: w, Height: h}
	if corner.left() {
		out.X = origin.Right() - w
	}
	if corner.top() {
		out.Y = origin.Bottom() - h
	}
	return out
}

// Resize turns a press-drag-release on a corner handle into a size change.
type Resize struct {
	model    *geometry.Model
	strategy Strategy
	corner   Corner
	outline  Outline
	observer Observer
	logger   *zap.Logger

	phase Phase
	state *State
}

var _ Controller = (*Resize)(nil)

// ResizeOptions configures a resize controller.
type ResizeOptions struct {
	Strategy Strategy
	Corner   Corner
	Outline  Outline
	Observer Observer
	Logger   *zap.Logger
}

// NewResize creates a resize controller.
func NewResize(model *geometry.Model, opts ResizeOptions) *Resize {
	r := &Resize{
		model:    model,
		strategy: opts.Strategy,
		corner:   opts.Corner,
		outline:  opts.Outline,
		observer: opts.Observer,
		logger:   opts.Logger,
		phase:    PhaseIdle,
	}
	if r.outline == nil {
		r.outline = nopOutline{}
	}
	if r.observer == nil {
		r.observer = nopObserver{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Phase returns the controller phase.
func (r *Resize) Phase() Phase {
	return r.phase
}

// Strategy returns the configured strategy.
func (r *Resize) Strategy() Strategy {
	return r.strategy
}

// Gesture returns the in-progress gesture, or nil when idle.
func (r *Resize) Gesture() *State {
	return r.state
}

// Handle advances the state machine. Events that make no sense in the
// current phase are ignored.
func (r *Resize) Handle(ev Event) error {
	switch ev.Kind {
	case EventDown:
		if r.phase == PhaseResizing {
			return r.move(ev.Pos)
		}
		r.begin(ev.Pos)
		return nil
	case EventMove:
		if r.phase != PhaseResizing {
			return nil
		}
		return r.move(ev.Pos)
	case EventUp:
		if r.phase != PhaseResizing {
			return nil
		}
		return r.release(ev.Pos)
	case EventCancel:
		if r.phase != PhaseResizing {
			return nil
		}
		return r.cancel()
	}
	return nil
}

func (r *Resize) begin(pos geometry.Point) {
	r.state = newState(r.model.Current(), pos)
	r.phase = PhaseResizing
	r.observer.GestureStarted("resize-" + r.strategy.String())
	r.logger.Debug("resize started",
		zap.String("gesture", r.state.ID),
		zap.Stringer("strategy", r.strategy),
		zap.Stringer("corner", r.corner),
		zap.Stringer("origin", r.state.Origin))
}

func (r *Resize) track(pos geometry.Point) bool {
	changed := pos != r.state.Pointer
	r.state.Pointer = pos
	r.state.Candidate = ResizeRect(r.state.Origin, r.corner, r.state.Delta(), r.model.Limits())
	return changed
}

func (r *Resize) move(pos geometry.Point) error {
	r.track(pos)
	r.state.Moves++

	if r.strategy == StrategyOutline {
		if err := r.outline.Show(r.state.Candidate); err != nil {
			return fmt.Errorf("resize preview: %w", err)
		}
		return nil
	}

	r.observer.Relayout("resize-live")
	if _, err := r.model.Commit(r.state.Candidate); err != nil {
		return fmt.Errorf("resize move: %w", err)
	}
	return nil
}

func (r *Resize) release(pos geometry.Point) error {
	changed := r.track(pos)
	state := r.end()

	switch r.strategy {
	case StrategyOutline:
		r.outline.Hide()
		if state.Moves == 0 && !changed {
			r.observer.GestureFinished("resize-outline", "released")
			return nil
		}
		r.observer.Relayout("resize-outline")
		_, err := r.model.Commit(state.Candidate)
		r.observer.GestureFinished("resize-outline", outcome(err, "released"))
		if err != nil {
			return fmt.Errorf("resize release: %w", err)
		}
	default:
		var err error
		if changed {
			// Up landed somewhere the last move did not.
			r.observer.Relayout("resize-live")
			_, err = r.model.Commit(state.Candidate)
		}
		r.observer.GestureFinished("resize-live", outcome(err, "released"))
		if err != nil {
			return fmt.Errorf("resize release: %w", err)
		}
	}

	r.logger.Debug("resize released",
		zap.String("gesture", state.ID),
		zap.Stringer("rect", r.model.Current()))
	return nil
}

func (r *Resize) cancel() error {
	state := r.end()
	r.logger.Debug("resize cancelled", zap.String("gesture", state.ID))

	if r.strategy == StrategyOutline {
		r.outline.Hide()
		r.observer.GestureFinished("resize-outline", "cancelled")
		return nil
	}

	r.observer.Relayout("resize-live")
	_, err := r.model.Commit(state.Origin)
	r.observer.GestureFinished("resize-live", outcome(err, "cancelled"))
	if err != nil {
		return fmt.Errorf("resize cancel: %w", err)
	}
	return nil
}

func (r *Resize) end() *State {
	state := r.state
	r.state = nil
	r.phase = PhaseIdle
	return state
}
