package geometry

import "fmt"

// Point is a pointer position in screen coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Translate returns r moved by d, size unchanged.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether a and b overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() &&
		r.Right() > o.X &&
		r.Y < o.Bottom() &&
		r.Bottom() > o.Y
}

// Insets are the thicknesses of a frame around a rect, such as window
// manager decorations.
type Insets struct {
	Left, Right, Top, Bottom int
}

// Outset returns r grown by in on each side.
func (r Rect) Outset(in Insets) Rect {
	return Rect{
		X:      r.X - in.Left,
		Y:      r.Y - in.Top,
		Width:  r.Width + in.Left + in.Right,
		Height: r.Height + in.Top + in.Bottom,
	}
}

// Inset returns r shrunk by in on each side. It undoes Outset.
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		X:      r.X + in.Left,
		Y:      r.Y + in.Top,
		Width:  r.Width - in.Left - in.Right,
		Height: r.Height - in.Top - in.Bottom,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}
