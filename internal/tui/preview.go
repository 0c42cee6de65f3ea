package tui

import (
	"strings"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/snap"
)

// previewScreen is the screen the zone preview is drawn for.
var previewScreen = geometry.Rect{Width: 1920, Height: 1080}

// boxRunes holds the corner and edge runes of a box, in the order
// top-left, top-right, bottom-left, bottom-right, horizontal, vertical.
type boxRunes [6]rune

var (
	screenFrame = boxRunes{'╔', '╗', '╚', '╝', '═', '║'}
	zoneFrame   = boxRunes{'┌', '┐', '└', '┘', '─', '│'}
)

// canvas is a grid of runes indexed [row][col].
type canvas [][]rune

func newCanvas(width, height int) canvas {
	c := make(canvas, max(height, 0))
	for y := range c {
		c[y] = []rune(strings.Repeat(" ", max(width, 0)))
	}
	return c
}

func (c canvas) fill(x0, y0, x1, y1 int, r rune) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c[y][x] = r
		}
	}
}

// frame outlines the inclusive cell range x0..x1, y0..y1.
func (c canvas) frame(x0, y0, x1, y1 int, b boxRunes) {
	for x := x0; x <= x1; x++ {
		c[y0][x], c[y1][x] = b[4], b[4]
	}
	for y := y0; y <= y1; y++ {
		c[y][x0], c[y][x1] = b[5], b[5]
	}
	c[y0][x0], c[y0][x1] = b[0], b[1]
	c[y1][x0], c[y1][x1] = b[2], b[3]
}

func (c canvas) lines() []string {
	out := make([]string, len(c))
	for i, row := range c {
		out[i] = string(row)
	}
	return out
}

// renderZonePreview draws screen as a width x height frame with the target
// of zone shaded and labelled inside it.
func renderZonePreview(zone snap.Zone, screen geometry.Rect, width, height int) []string {
	c := newCanvas(width, height)
	if width < 5 || height < 3 || screen.Width <= 0 || screen.Height <= 0 {
		return c.lines()
	}

	// Scale the target into canvas cells, keeping it off the outer frame.
	t := zone.Target
	x0 := max((t.X-screen.X)*width/screen.Width, 1)
	y0 := max((t.Y-screen.Y)*height/screen.Height, 1)
	x1 := min((t.Right()-screen.X)*width/screen.Width, width-2)
	y1 := min((t.Bottom()-screen.Y)*height/screen.Height, height-2)

	if x1 > x0 && y1 > y0 {
		c.fill(x0, y0, x1, y1, '░')
		c.frame(x0, y0, x1, y1, zoneFrame)
		if mid := (y0 + y1) / 2; mid > y0 && mid < y1 {
			label := zone.Kind.String()
			start := (x0+x1)/2 - len(label)/2
			for i, r := range label {
				if x := start + i; x > x0 && x < x1 {
					c[mid][x] = r
				}
			}
		}
	}
	c.frame(0, 0, width-1, height-1, screenFrame)
	return c.lines()
}
