package gesture

import (
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/snap"
	"github.com/google/uuid"
)

// Phase represents the current phase of a gesture controller
type Phase int

const (
	// PhaseIdle means no gesture is in progress
	PhaseIdle Phase = iota
	// PhaseDragging means the window follows the pointer
	PhaseDragging
	// PhaseResizing means a corner follows the pointer
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// EventKind is the type of a pointer event.
type EventKind int

const (
	EventDown EventKind = iota
	EventMove
	EventUp
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventDown:
		return "down"
	case EventMove:
		return "move"
	case EventUp:
		return "up"
	case EventCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ParseEventKind converts a lowercase event name to an EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch s {
	case "down":
		return EventDown, true
	case "move":
		return EventMove, true
	case "up":
		return EventUp, true
	case "cancel":
		return EventCancel, true
	default:
		return 0, false
	}
}

// Event is a single pointer event delivered to a handle.
type Event struct {
	Kind EventKind
	Pos  geometry.Point
}

// Controller consumes the pointer events of one handle.
type Controller interface {
	Handle(ev Event) error
	Phase() Phase
}

// Observer is notified of gesture milestones. All methods are called on
// the event goroutine.
type Observer interface {
	GestureStarted(kind string)
	GestureFinished(kind, outcome string)
	Relayout(reason string)
	Snapped(zone snap.ZoneKind)
}

type nopObserver struct{}

func (nopObserver) GestureStarted(string)          {}
func (nopObserver) GestureFinished(string, string) {}
func (nopObserver) Relayout(string)                {}
func (nopObserver) Snapped(snap.ZoneKind)          {}

// State is the transient data of one gesture, created on pointer-down and
// dropped on pointer-up or cancel.
type State struct {
	ID            string
	OriginPointer geometry.Point
	Origin        geometry.Rect
	Pointer       geometry.Point
	Candidate     geometry.Rect
	Moves         int
}

func newState(origin geometry.Rect, pointer geometry.Point) *State {
	return &State{
		ID:            uuid.NewString(),
		OriginPointer: pointer,
		Origin:        origin,
		Pointer:       pointer,
		Candidate:     origin,
	}
}

// Delta returns the pointer displacement since pointer-down.
func (s *State) Delta() geometry.Point {
	return s.Pointer.Sub(s.OriginPointer)
}
