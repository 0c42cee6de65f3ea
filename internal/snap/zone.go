package snap

import "github.com/1broseidon/floatwin/internal/geometry"

// ZoneKind names a snap zone.
type ZoneKind int

const (
	ZoneNone ZoneKind = iota
	ZoneTopLeft
	ZoneTopRight
	ZoneBottomLeft
	ZoneBottomRight
	ZoneLeft
	ZoneRight
	ZoneTopHalf
	ZoneBottomHalf
	ZoneFull
)

// String returns the string representation of the zone kind
func (k ZoneKind) String() string {
	switch k {
	case ZoneNone:
		return "none"
	case ZoneTopLeft:
		return "top-left"
	case ZoneTopRight:
		return "top-right"
	case ZoneBottomLeft:
		return "bottom-left"
	case ZoneBottomRight:
		return "bottom-right"
	case ZoneLeft:
		return "left"
	case ZoneRight:
		return "right"
	case ZoneTopHalf:
		return "top-half"
	case ZoneBottomHalf:
		return "bottom-half"
	case ZoneFull:
		return "full"
	default:
		return "unknown"
	}
}

// Class orders zones on ties: corners before edges before half-screen zones.
type Class int

const (
	ClassCorner Class = iota
	ClassEdge
	ClassHalf
)

// Side is the screen side a window leans against on one axis.
type Side int

const (
	SideNone Side = iota
	SideStart     // left or top
	SideEnd       // right or bottom
)

// Trigger matches the horizontal and vertical lean of a candidate rect.
// SideNone in a trigger field means "don't care".
type Trigger struct {
	Horizontal Side
	Vertical   Side
}

func (t Trigger) matches(h, v Side) bool {
	if t.Horizontal != SideNone && t.Horizontal != h {
		return false
	}
	if t.Vertical != SideNone && t.Vertical != v {
		return false
	}
	return true
}

// Zone is a snap region and the rectangle a window snaps to.
type Zone struct {
	Kind    ZoneKind
	Class   Class
	Trigger Trigger
	Target  geometry.Rect
}

// TopEdge selects what the top screen edge snaps to.
type TopEdge string

const (
	TopEdgeMaximize TopEdge = "maximize"
	TopEdgeHalf     TopEdge = "top-half"
)

// BuildZones derives the zone set for a screen, in evaluation order.
func BuildZones(screen geometry.Rect, top TopEdge) []Zone {
	halfW := screen.Width / 2
	halfH := screen.Height / 2
	x0, y0 := screen.X, screen.Y
	xm, ym := screen.X+halfW, screen.Y+halfH
	restW := screen.Width - halfW
	restH := screen.Height - halfH

	topZone := Zone{
		Kind:    ZoneFull,
		Class:   ClassHalf,
		Trigger: Trigger{Vertical: SideStart},
		Target:  screen,
	}
	if top == TopEdgeHalf {
		topZone.Kind = ZoneTopHalf
		topZone.Target = geometry.Rect{X: x0, Y: y0, Width: screen.Width, Height: halfH}
	}

	return []Zone{
		{ZoneTopLeft, ClassCorner, Trigger{SideStart, SideStart}, geometry.Rect{X: x0, Y: y0, Width: halfW, Height: halfH}},
		{ZoneTopRight, ClassCorner, Trigger{SideEnd, SideStart}, geometry.Rect{X: xm, Y: y0, Width: restW, Height: halfH}},
		{ZoneBottomLeft, ClassCorner, Trigger{SideStart, SideEnd}, geometry.Rect{X: x0, Y: ym, Width: halfW, Height: restH}},
		{ZoneBottomRight, ClassCorner, Trigger{SideEnd, SideEnd}, geometry.Rect{X: xm, Y: ym, Width: restW, Height: restH}},
		{ZoneLeft, ClassEdge, Trigger{Horizontal: SideStart}, geometry.Rect{X: x0, Y: y0, Width: halfW, Height: screen.Height}},
		{ZoneRight, ClassEdge, Trigger{Horizontal: SideEnd}, geometry.Rect{X: xm, Y: y0, Width: restW, Height: screen.Height}},
		topZone,
		{ZoneBottomHalf, ClassHalf, Trigger{Vertical: SideEnd}, geometry.Rect{X: x0, Y: ym, Width: screen.Width, Height: restH}},
	}
}
