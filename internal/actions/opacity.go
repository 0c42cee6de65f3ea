package actions

import "math"

// Opacity bounds in percent. The strip never goes fully transparent.
const (
	MinOpacity = 10
	MaxOpacity = 100
)

// ClampOpacity limits a percentage to [MinOpacity, MaxOpacity].
func ClampOpacity(percent int) int {
	if percent < MinOpacity {
		return MinOpacity
	}
	if percent > MaxOpacity {
		return MaxOpacity
	}
	return percent
}

// OpacityAt maps a click at x inside a strip of the given width to a
// percentage. The strip's left end is MinOpacity and its right end is
// MaxOpacity.
func OpacityAt(x, width int) int {
	if width <= 1 {
		return MaxOpacity
	}
	if x < 0 {
		x = 0
	}
	if x > width-1 {
		x = width - 1
	}
	span := MaxOpacity - MinOpacity
	return MinOpacity + int(math.Round(float64(x*span)/float64(width-1)))
}

// OpacityCardinal converts a percentage to the _NET_WM_WINDOW_OPACITY value.
func OpacityCardinal(percent int) uint32 {
	percent = ClampOpacity(percent)
	if percent == MaxOpacity {
		return math.MaxUint32
	}
	return uint32(float64(math.MaxUint32) * float64(percent) / 100)
}

// OpacityPercent converts a _NET_WM_WINDOW_OPACITY value to a percentage.
func OpacityPercent(cardinal uint32) int {
	return ClampOpacity(int(math.Round(float64(cardinal) * 100 / float64(math.MaxUint32))))
}
