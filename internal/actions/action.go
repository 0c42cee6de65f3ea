package actions

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is a user-visible operation bound to a handle gesture. The numeric
// values are the stored preference codes and must not be renumbered.
type Action int

const (
	// None does nothing.
	None Action = iota
	// ToggleMoveBar shows or hides the drag bar, hiding the corner handles
	// while it is shown.
	ToggleMoveBar
	// Close closes the host window.
	Close
	// Transparency opens the opacity strip.
	Transparency
	// Minimize minimizes the host window.
	Minimize
	// ToggleMoveBarKeepCorners shows or hides the drag bar and leaves the
	// corner handles alone.
	ToggleMoveBarKeepCorners
	// Maximize maximizes the host window.
	Maximize
)

var actionNames = map[Action]string{
	None:                     "none",
	ToggleMoveBar:            "move-bar",
	Close:                    "close",
	Transparency:             "transparency",
	Minimize:                 "minimize",
	ToggleMoveBarKeepCorners: "move-bar-keep-corners",
	Maximize:                 "maximize",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// Code returns the stored preference code.
func (a Action) Code() int {
	return int(a)
}

// FromCode maps a preference code to an Action. Unknown codes are None.
func FromCode(code int) Action {
	a := Action(code)
	if _, ok := actionNames[a]; !ok {
		return None
	}
	return a
}

// ParseAction accepts an action name or a numeric code. Anything it does not
// recognise is None; the second result reports whether s was recognised.
func ParseAction(s string) (Action, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, false
	}
	if code, err := strconv.Atoi(s); err == nil {
		a := FromCode(code)
		return a, a != None || code == 0
	}
	for a, name := range actionNames {
		if name == s {
			return a, true
		}
	}
	return None, false
}

// Names returns every action name in code order.
func Names() []string {
	out := make([]string, 0, len(actionNames))
	for a := None; a <= Maximize; a++ {
		out = append(out, a.String())
	}
	return out
}

// Handle identifies an interactive part of the overlay chrome.
type Handle int

const (
	HandleTriangle Handle = iota
	HandleQuadrant
	HandleDragBar
	HandleTitleBar
)

func (h Handle) String() string {
	switch h {
	case HandleTriangle:
		return "triangle"
	case HandleQuadrant:
		return "quadrant"
	case HandleDragBar:
		return "drag-bar"
	case HandleTitleBar:
		return "title-bar"
	default:
		return "unknown"
	}
}

// ParseHandle converts a handle name to a Handle.
func ParseHandle(s string) (Handle, error) {
	for h := HandleTriangle; h <= HandleTitleBar; h++ {
		if h.String() == s {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown handle %q", s)
}

// Trigger is the way a handle was activated.
type Trigger int

const (
	TriggerTap Trigger = iota
	TriggerLongPress
)

func (t Trigger) String() string {
	switch t {
	case TriggerTap:
		return "tap"
	case TriggerLongPress:
		return "long-press"
	default:
		return "unknown"
	}
}

// ParseTrigger converts a trigger name to a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	switch s {
	case "tap":
		return TriggerTap, nil
	case "long-press", "longpress":
		return TriggerLongPress, nil
	default:
		return 0, fmt.Errorf("unknown trigger %q", s)
	}
}

// Binding is the key of the action table.
type Binding struct {
	Handle  Handle
	Trigger Trigger
}

func (b Binding) String() string {
	return b.Handle.String() + "/" + b.Trigger.String()
}

// Bindings maps handle gestures to actions. Missing entries are None.
type Bindings map[Binding]Action

// Lookup returns the action bound to handle and trigger.
func (b Bindings) Lookup(h Handle, t Trigger) Action {
	return b[Binding{Handle: h, Trigger: t}]
}
