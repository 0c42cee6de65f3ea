package actions

import (
	"fmt"

	"go.uber.org/zap"
)

// Host is the subset of the host window an action can act on.
type Host interface {
	Close() error
	Minimize() error
	Maximize() error
}

// UI is the overlay chrome an action can toggle.
type UI interface {
	// SetMoveBar shows or hides the drag bar. When showing, hideCorners
	// removes the corner handles until the bar is hidden again.
	SetMoveBar(visible, hideCorners bool) error
	MoveBarVisible() bool
	ShowTransparency() error
}

// Observer is told about every dispatch, including ones that resolve to None.
type Observer interface {
	ActionDispatched(handle, trigger, action string)
}

type nopObserver struct{}

func (nopObserver) ActionDispatched(string, string, string) {}

// Dispatcher resolves handle gestures through a Bindings table and performs
// the resulting action. It is not safe for concurrent use.
type Dispatcher struct {
	bindings Bindings
	host     Host
	ui       UI
	observer Observer
	logger   *zap.Logger

	// Handles whose long-press already fired in the current interaction.
	swallow map[Handle]bool
}

// NewDispatcher creates a dispatcher. observer and logger may be nil.
func NewDispatcher(bindings Bindings, host Host, ui UI, observer Observer, logger *zap.Logger) *Dispatcher {
	if bindings == nil {
		bindings = Bindings{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		bindings: bindings,
		host:     host,
		ui:       ui,
		observer: observer,
		logger:   logger,
		swallow:  make(map[Handle]bool),
	}
}

// Bindings returns the action table.
func (d *Dispatcher) Bindings() Bindings {
	return d.bindings
}

// Begin marks the start of a new interaction on h.
func (d *Dispatcher) Begin(h Handle) {
	delete(d.swallow, h)
}

// Dispatch performs the action bound to h and t and returns it. A tap that
// follows a long-press on the same handle, without a Begin in between, is
// swallowed and resolves to None.
func (d *Dispatcher) Dispatch(h Handle, t Trigger) (Action, error) {
	switch t {
	case TriggerLongPress:
		d.swallow[h] = true
	case TriggerTap:
		if d.swallow[h] {
			delete(d.swallow, h)
			d.logger.Debug("tap swallowed after long-press", zap.Stringer("handle", h))
			d.observer.ActionDispatched(h.String(), t.String(), None.String())
			return None, nil
		}
	}

	a := d.bindings.Lookup(h, t)
	d.observer.ActionDispatched(h.String(), t.String(), a.String())
	d.logger.Debug("action dispatched",
		zap.Stringer("handle", h),
		zap.Stringer("trigger", t),
		zap.Stringer("action", a))

	return a, d.Perform(a)
}

// Perform runs a single action.
func (d *Dispatcher) Perform(a Action) error {
	var err error
	switch a {
	case ToggleMoveBar, ToggleMoveBarKeepCorners:
		if d.ui == nil {
			return nil
		}
		if d.ui.MoveBarVisible() {
			err = d.ui.SetMoveBar(false, false)
		} else {
			err = d.ui.SetMoveBar(true, a == ToggleMoveBar)
		}
	case Transparency:
		if d.ui == nil {
			return nil
		}
		err = d.ui.ShowTransparency()
	case Close:
		err = d.host.Close()
	case Minimize:
		err = d.host.Minimize()
	case Maximize:
		err = d.host.Maximize()
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	return nil
}
