package snap

import (
	"math"

	"github.com/1broseidon/floatwin/internal/geometry"
	"go.uber.org/zap"
)

// DefaultToleranceDP is the snap band width in density-independent pixels.
const DefaultToleranceDP = 20

// DefaultTolerance scales DefaultToleranceDP by the display density
// (1.0 = 96 DPI).
func DefaultTolerance(density float64) int {
	if density <= 0 {
		density = 1
	}
	return int(math.Round(DefaultToleranceDP * density))
}

// Result is the outcome of a snap evaluation.
type Result struct {
	Zone    ZoneKind
	Rect    geometry.Rect
	Snapped bool
}

// Detector decides whether a released window snaps to a zone.
type Detector struct {
	tolerance int
	topEdge   TopEdge
	logger    *zap.Logger

	screen geometry.Rect
	zones  []Zone
}

// NewDetector creates a detector with a pixel tolerance.
func NewDetector(tolerance int, topEdge TopEdge, logger *zap.Logger) *Detector {
	if tolerance < 0 {
		tolerance = 0
	}
	if topEdge == "" {
		topEdge = TopEdgeMaximize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		tolerance: tolerance,
		topEdge:   topEdge,
		logger:    logger,
	}
}

// Tolerance returns the snap band width in pixels.
func (d *Detector) Tolerance() int {
	return d.tolerance
}

// Zones returns the zone set for screen, recomputing it only when the
// screen bounds changed since the last call.
func (d *Detector) Zones(screen geometry.Rect) []Zone {
	if d.zones == nil || screen != d.screen {
		d.screen = screen
		d.zones = BuildZones(screen, d.topEdge)
		d.logger.Debug("snap zones rebuilt", zap.Stringer("screen", screen), zap.Int("zones", len(d.zones)))
	}
	return d.zones
}

// Detect returns the target of the highest-priority zone whose trigger the
// candidate falls in, or the candidate unchanged when none matches.
func (d *Detector) Detect(candidate, screen geometry.Rect) Result {
	if screen.Empty() {
		return Result{Zone: ZoneNone, Rect: candidate}
	}

	h := lean(candidate.X-screen.X, screen.Right()-candidate.Right(), d.tolerance)
	v := lean(candidate.Y-screen.Y, screen.Bottom()-candidate.Bottom(), d.tolerance)
	if h == SideNone && v == SideNone {
		return Result{Zone: ZoneNone, Rect: candidate}
	}

	for _, z := range d.Zones(screen) {
		if z.Trigger.matches(h, v) {
			return Result{Zone: z.Kind, Rect: z.Target, Snapped: true}
		}
	}
	return Result{Zone: ZoneNone, Rect: candidate}
}

// lean reports which side of one axis a window is pressed against.
// Distances are measured inward, so a side past the screen edge is negative
// and always within tolerance. A window within tolerance of both sides spans
// the axis and leans to neither.
func lean(startDist, endDist, tolerance int) Side {
	nearStart := startDist <= tolerance
	nearEnd := endDist <= tolerance
	switch {
	case nearStart && !nearEnd:
		return SideStart
	case nearEnd && !nearStart:
		return SideEnd
	default:
		return SideNone
	}
}
