package overlay

import (
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/gesture"
)

// Status is a snapshot of the attached overlay.
type Status struct {
	Window       geometry.Rect `json:"window"`
	Screen       geometry.Rect `json:"screen"`
	Phase        string        `json:"phase"`
	Handle       string        `json:"handle,omitempty"`
	Resize       string        `json:"resize"`
	SnapEnabled  bool          `json:"snap_enabled"`
	Tolerance    int           `json:"snap_tolerance"`
	MoveBar      bool          `json:"move_bar"`
	HideCorners  bool          `json:"hide_corners"`
	Transparency bool          `json:"transparency"`
	Opacity      int           `json:"opacity"`
	Detached     bool          `json:"detached"`
}

// Status returns a snapshot. The screen is left empty when the host cannot
// report it.
func (o *Overlay) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := Status{
		Window:       o.model.Current(),
		Phase:        gesture.PhaseIdle.String(),
		Resize:       o.strategy.String(),
		SnapEnabled:  o.detector != nil,
		Tolerance:    o.tolerance(),
		MoveBar:      o.ui.MoveBar,
		HideCorners:  o.ui.HideCorners,
		Transparency: o.ui.Transparency,
		Opacity:      o.opacity,
		Detached:     o.detached,
	}
	if screen, err := o.model.Screen(); err == nil {
		st.Screen = screen
	}
	if h, busy := o.busy(); busy {
		st.Handle = h.String()
		st.Phase = "pressing"
		if c := o.controllers[h]; c != nil && c.Phase() != gesture.PhaseIdle {
			st.Phase = c.Phase().String()
		}
	}
	return st
}
