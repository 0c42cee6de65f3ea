package actions

import (
	"time"

	"github.com/1broseidon/floatwin/internal/geometry"
)

const (
	// DefaultLongPress is the hold time after which a press is a long-press.
	DefaultLongPress = 500 * time.Millisecond
	// DefaultTapSlop is how far the pointer may travel and still be a tap.
	DefaultTapSlop = 8
)

// PressRecognizer classifies a press on a handle as a tap or a long-press
// when the pointer is released. A press whose pointer travelled further
// than the slop is a drag and yields no trigger.
type PressRecognizer struct {
	LongPress time.Duration
	Slop      int

	active bool
	moved  bool
	origin geometry.Point
	downAt time.Time
}

// NewPressRecognizer returns a recognizer, substituting defaults for
// non-positive values.
func NewPressRecognizer(longPress time.Duration, slop int) *PressRecognizer {
	if longPress <= 0 {
		longPress = DefaultLongPress
	}
	if slop < 0 {
		slop = DefaultTapSlop
	}
	return &PressRecognizer{LongPress: longPress, Slop: slop}
}

// Down starts a press.
func (r *PressRecognizer) Down(pos geometry.Point, at time.Time) {
	r.active = true
	r.moved = false
	r.origin = pos
	r.downAt = at
}

// Move records pointer travel.
func (r *PressRecognizer) Move(pos geometry.Point) {
	if !r.active || r.moved {
		return
	}
	d := pos.Sub(r.origin)
	if abs(d.X) > r.Slop || abs(d.Y) > r.Slop {
		r.moved = true
	}
}

// Up ends the press and returns its trigger. ok is false for drags and for
// an Up without a Down.
func (r *PressRecognizer) Up(pos geometry.Point, at time.Time) (t Trigger, ok bool) {
	if !r.active {
		return 0, false
	}
	r.Move(pos)
	r.active = false
	if r.moved {
		return 0, false
	}
	if at.Sub(r.downAt) >= r.LongPress {
		return TriggerLongPress, true
	}
	return TriggerTap, true
}

// Cancel abandons the press.
func (r *PressRecognizer) Cancel() {
	r.active = false
}

// Active reports whether a press is in progress.
func (r *PressRecognizer) Active() bool {
	return r.active
}

// Moved reports whether the current press has left the slop.
func (r *PressRecognizer) Moved() bool {
	return r.moved
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
