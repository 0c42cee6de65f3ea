package gesture

import (
	"fmt"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/snap"
	"go.uber.org/zap"
)

// Drag moves the window with the pointer and snaps it on release.
type Drag struct {
	model    *geometry.Model
	detector *snap.Detector
	observer Observer
	logger   *zap.Logger

	phase Phase
	state *State
}

var _ Controller = (*Drag)(nil)

// NewDrag creates a drag controller. A nil detector disables snapping.
func NewDrag(model *geometry.Model, detector *snap.Detector, observer Observer, logger *zap.Logger) *Drag {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drag{
		model:    model,
		detector: detector,
		observer: observer,
		logger:   logger,
		phase:    PhaseIdle,
	}
}

// Phase returns the controller phase.
func (d *Drag) Phase() Phase {
	return d.phase
}

// Gesture returns the in-progress gesture, or nil when idle.
func (d *Drag) Gesture() *State {
	return d.state
}

// Handle advances the state machine. Events that make no sense in the
// current phase are ignored.
func (d *Drag) Handle(ev Event) error {
	switch ev.Kind {
	case EventDown:
		if d.phase == PhaseDragging {
			return d.move(ev.Pos)
		}
		d.begin(ev.Pos)
		return nil
	case EventMove:
		if d.phase != PhaseDragging {
			return nil
		}
		return d.move(ev.Pos)
	case EventUp:
		if d.phase != PhaseDragging {
			return nil
		}
		return d.release(ev.Pos)
	case EventCancel:
		if d.phase != PhaseDragging {
			return nil
		}
		return d.cancel()
	}
	return nil
}

func (d *Drag) begin(pos geometry.Point) {
	d.state = newState(d.model.Current(), pos)
	d.phase = PhaseDragging
	d.observer.GestureStarted("drag")
	d.logger.Debug("drag started",
		zap.String("gesture", d.state.ID),
		zap.Stringer("origin", d.state.Origin))
}

func (d *Drag) track(pos geometry.Point) {
	d.state.Pointer = pos
	d.state.Candidate = d.state.Origin.Translate(d.state.Delta())
}

func (d *Drag) move(pos geometry.Point) error {
	d.track(pos)
	d.state.Moves++

	d.observer.Relayout("drag")
	if _, err := d.model.Commit(d.state.Candidate); err != nil {
		return fmt.Errorf("drag move: %w", err)
	}
	return nil
}

func (d *Drag) release(pos geometry.Point) error {
	d.track(pos)
	state := d.end()

	target := state.Candidate
	if d.detector != nil {
		// Zones come from the screen as it is now, not at pointer-down.
		screen, err := d.model.Screen()
		if err != nil {
			d.logger.Warn("snap skipped, screen bounds unavailable",
				zap.String("gesture", state.ID), zap.Error(err))
		} else {
			res := d.detector.Detect(state.Candidate, screen)
			if res.Snapped {
				target = res.Rect
				d.observer.Snapped(res.Zone)
				d.logger.Debug("drag snapped",
					zap.String("gesture", state.ID),
					zap.Stringer("zone", res.Zone),
					zap.Stringer("rect", res.Rect))
			}
		}
	}

	d.observer.Relayout("drag")
	_, err := d.model.Commit(target)
	d.observer.GestureFinished("drag", outcome(err, "released"))
	if err != nil {
		return fmt.Errorf("drag release: %w", err)
	}
	return nil
}

func (d *Drag) cancel() error {
	state := d.end()
	d.observer.Relayout("drag")
	_, err := d.model.Commit(state.Origin)
	d.observer.GestureFinished("drag", outcome(err, "cancelled"))
	d.logger.Debug("drag cancelled", zap.String("gesture", state.ID))
	if err != nil {
		return fmt.Errorf("drag cancel: %w", err)
	}
	return nil
}

func (d *Drag) end() *State {
	state := d.state
	d.state = nil
	d.phase = PhaseIdle
	return state
}

func outcome(err error, ok string) string {
	if err != nil {
		return "failed"
	}
	return ok
}
