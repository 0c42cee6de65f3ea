package snap

import (
	"testing"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/stretchr/testify/assert"
)

var phone = geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 2000}

func TestDetect_LeftEdgeScenario(t *testing.T) {
	d := NewDetector(20, TopEdgeMaximize, nil)

	// Window (500,900,200,200) dragged from (600,1000) to (5,1005).
	candidate := geometry.Rect{X: 500, Y: 900, Width: 200, Height: 200}.
		Translate(geometry.Point{X: 5 - 600, Y: 1005 - 1000})
	assert.Equal(t, geometry.Rect{X: -395, Y: 905, Width: 200, Height: 200}, candidate)

	res := d.Detect(candidate, phone)
	assert.True(t, res.Snapped)
	assert.Equal(t, ZoneLeft, res.Zone)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 500, Height: 2000}, res.Rect)
}

func TestDetect_NoZone(t *testing.T) {
	d := NewDetector(20, TopEdgeMaximize, nil)
	candidate := geometry.Rect{X: 21, Y: 21, Width: 200, Height: 200}

	res := d.Detect(candidate, phone)
	assert.False(t, res.Snapped)
	assert.Equal(t, ZoneNone, res.Zone)
	assert.Equal(t, candidate, res.Rect)
}

func TestDetect_ToleranceBoundary(t *testing.T) {
	d := NewDetector(20, TopEdgeMaximize, nil)

	res := d.Detect(geometry.Rect{X: 20, Y: 500, Width: 100, Height: 100}, phone)
	assert.Equal(t, ZoneLeft, res.Zone)

	res = d.Detect(geometry.Rect{X: 880, Y: 500, Width: 100, Height: 100}, phone)
	assert.Equal(t, ZoneRight, res.Zone)

	res = d.Detect(geometry.Rect{X: 879, Y: 500, Width: 100, Height: 100}, phone)
	assert.Equal(t, ZoneNone, res.Zone)
}

func TestDetect_CornerBeatsEdge(t *testing.T) {
	d := NewDetector(20, TopEdgeMaximize, nil)

	tests := []struct {
		name      string
		candidate geometry.Rect
		want      ZoneKind
	}{
		{"top-left", geometry.Rect{X: 5, Y: 5, Width: 200, Height: 200}, ZoneTopLeft},
		{"top-right", geometry.Rect{X: 790, Y: -40, Width: 200, Height: 200}, ZoneTopRight},
		{"bottom-left", geometry.Rect{X: -10, Y: 1850, Width: 200, Height: 200}, ZoneBottomLeft},
		{"bottom-right", geometry.Rect{X: 900, Y: 1900, Width: 200, Height: 200}, ZoneBottomRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Detect(tt.candidate, phone)
			assert.Equal(t, tt.want, res.Zone)
		})
	}

	res := d.Detect(geometry.Rect{X: 0, Y: 0, Width: 200, Height: 200}, phone)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 500, Height: 1000}, res.Rect)
}

func TestDetect_TopEdgeTargets(t *testing.T) {
	candidate := geometry.Rect{X: 400, Y: -30, Width: 200, Height: 200}

	res := NewDetector(20, TopEdgeMaximize, nil).Detect(candidate, phone)
	assert.Equal(t, ZoneFull, res.Zone)
	assert.Equal(t, phone, res.Rect)

	res = NewDetector(20, TopEdgeHalf, nil).Detect(candidate, phone)
	assert.Equal(t, ZoneTopHalf, res.Zone)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}, res.Rect)

	res = NewDetector(20, TopEdgeHalf, nil).Detect(geometry.Rect{X: 400, Y: 1850, Width: 200, Height: 200}, phone)
	assert.Equal(t, ZoneBottomHalf, res.Zone)
	assert.Equal(t, geometry.Rect{X: 0, Y: 1000, Width: 1000, Height: 1000}, res.Rect)
}

func TestDetect_IdempotentOnZoneTargets(t *testing.T) {
	screens := []geometry.Rect{
		phone,
		{X: 1920, Y: 0, Width: 1366, Height: 767},
	}
	for _, top := range []TopEdge{TopEdgeMaximize, TopEdgeHalf} {
		for _, screen := range screens {
			d := NewDetector(20, top, nil)
			for _, z := range BuildZones(screen, top) {
				t.Run(string(top)+"/"+z.Kind.String(), func(t *testing.T) {
					res := d.Detect(z.Target, screen)
					assert.Equal(t, z.Target, res.Rect)
					again := d.Detect(res.Rect, screen)
					assert.Equal(t, res, again)
				})
			}
		}
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := NewDetector(20, TopEdgeMaximize, nil)
	candidate := geometry.Rect{X: 990, Y: 700, Width: 300, Height: 300}
	first := d.Detect(candidate, phone)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, d.Detect(candidate, phone))
	}
}

func TestZonesRecomputedOnScreenChange(t *testing.T) {
	d := NewDetector(20, TopEdgeMaximize, nil)
	portrait := d.Zones(phone)
	assert.Len(t, portrait, 8)

	landscape := geometry.Rect{X: 0, Y: 0, Width: 2000, Height: 1000}
	zones := d.Zones(landscape)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}, zones[4].Target)

	res := d.Detect(geometry.Rect{X: -50, Y: 300, Width: 200, Height: 200}, landscape)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}, res.Rect)
}

func TestDefaultTolerance(t *testing.T) {
	assert.Equal(t, 20, DefaultTolerance(1))
	assert.Equal(t, 40, DefaultTolerance(2))
	assert.Equal(t, 30, DefaultTolerance(1.5))
	assert.Equal(t, 20, DefaultTolerance(0))
}
