package overlay

import (
	"testing"
	"time"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/gesture"
	"github.com/1broseidon/floatwin/internal/metrics"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/snap"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutline struct {
	shown   []geometry.Rect
	visible bool
}

func (o *fakeOutline) Show(r geometry.Rect) error {
	o.shown = append(o.shown, r)
	o.visible = true
	return nil
}

func (o *fakeOutline) Hide() { o.visible = false }

type fakeRenderer struct {
	chromes    []Chrome
	outline    *fakeOutline
	configured int
	destroyed  bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{outline: &fakeOutline{}}
}

func (r *fakeRenderer) Configure(*config.Config)  { r.configured++ }
func (r *fakeRenderer) Outline() gesture.Outline { return r.outline }
func (r *fakeRenderer) Destroy()                 { r.destroyed = true }

func (r *fakeRenderer) Render(c Chrome) error {
	r.chromes = append(r.chromes, c)
	return nil
}

func (r *fakeRenderer) last() Chrome {
	if len(r.chromes) == 0 {
		return Chrome{}
	}
	return r.chromes[len(r.chromes)-1]
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	backend  *platform.MemoryBackend
	id       platform.WindowID
	overlay  *Overlay
	renderer *fakeRenderer
	clock    *fakeClock
	metrics  *metrics.Recorder
}

func newFixture(t *testing.T, screen, window geometry.Rect, mutate func(*config.Config)) *fixture {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	backend := platform.NewMemoryBackend(screen)
	id := backend.AddWindow("host", window)
	f := &fixture{
		backend:  backend,
		id:       id,
		renderer: newFakeRenderer(),
		clock:    &fakeClock{now: time.Unix(1700000000, 0)},
		metrics:  metrics.NewRecorder(),
	}

	o, err := New(Options{
		Config:   cfg,
		Host:     platform.NewWindowSurface(backend, id),
		Renderer: f.renderer,
		Metrics:  f.metrics,
		Clock:    f.clock.Now,
	})
	require.NoError(t, err)
	f.overlay = o
	return f
}

func (f *fixture) send(t *testing.T, h actions.Handle, kind gesture.EventKind, x, y int) {
	t.Helper()
	require.NoError(t, f.overlay.HandleEvent(h, gesture.Event{Kind: kind, Pos: geometry.Point{X: x, Y: y}}))
}

func TestNewRequiresConfigAndHost(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
	_, err = New(Options{Config: config.DefaultConfig()})
	assert.Error(t, err)
}

func TestOverlay_DragBarSnapsToLeftHalf(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1000, Height: 2000},
		geometry.Rect{X: 500, Y: 900, Width: 200, Height: 200},
		func(c *config.Config) { c.Snap.Tolerance = 20 })

	f.send(t, actions.HandleDragBar, gesture.EventDown, 600, 1000)
	f.send(t, actions.HandleDragBar, gesture.EventMove, 5, 1005)
	f.send(t, actions.HandleDragBar, gesture.EventUp, 5, 1005)

	want := geometry.Rect{X: 0, Y: 0, Width: 500, Height: 2000}
	assert.Equal(t, want, f.overlay.Geometry())
	bounds, err := f.backend.WindowBounds(f.id)
	require.NoError(t, err)
	assert.Equal(t, want, bounds)
	assert.Equal(t, want, f.renderer.last().Window, "chrome follows the committed rect")

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GesturesStarted.WithLabelValues("drag")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Snaps.WithLabelValues(snap.ZoneLeft.String())))
}

func TestOverlay_SnapUsesScreenAtRelease(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1000, Height: 2000},
		geometry.Rect{X: 500, Y: 900, Width: 200, Height: 200},
		func(c *config.Config) { c.Snap.Tolerance = 20 })

	f.send(t, actions.HandleDragBar, gesture.EventDown, 600, 1000)
	f.backend.SetScreen(geometry.Rect{Width: 2000, Height: 1000})
	f.send(t, actions.HandleDragBar, gesture.EventMove, 5, 505)
	f.send(t, actions.HandleDragBar, gesture.EventUp, 5, 505)

	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}, f.overlay.Geometry())
}

func TestOverlay_TriangleTapTogglesMoveBar(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300},
		nil)

	before := f.renderer.last()
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 36, Height: 36}, before.Triangle)
	assert.True(t, before.DragBar.Empty())

	f.send(t, actions.HandleTriangle, gesture.EventDown, 110, 110)
	f.clock.Advance(100 * time.Millisecond)
	f.send(t, actions.HandleTriangle, gesture.EventUp, 112, 111)

	after := f.renderer.last()
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 400, Height: 28}, after.DragBar)
	assert.True(t, after.Triangle.Empty(), "move-bar hides the corner handles")
	assert.True(t, after.Quadrant.Empty())
	assert.Empty(t, f.backend.Log, "a tap never touches the host geometry")

	st := f.overlay.Status()
	assert.True(t, st.MoveBar)
	assert.True(t, st.HideCorners)

	// "Done": hiding the bar brings the corners back.
	require.NoError(t, f.overlay.SetMoveBar(false, false))
	assert.False(t, f.renderer.last().Triangle.Empty())
}

func TestOverlay_LongPressShowsTransparencyStrip(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300},
		nil)

	f.send(t, actions.HandleTriangle, gesture.EventDown, 110, 110)
	f.clock.Advance(600 * time.Millisecond)
	f.send(t, actions.HandleTriangle, gesture.EventUp, 110, 110)

	strip := f.renderer.last().Transparency
	require.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 400, Height: 28}, strip)

	require.NoError(t, f.overlay.TransparencyEvent(gesture.EventDown, geometry.Point{X: 300, Y: 110}))
	assert.Equal(t, 55, f.overlay.Status().Opacity)
	assert.Equal(t, []string{"opacity 0x1 55"}, f.backend.Log)

	// A press outside the strip hides it.
	require.NoError(t, f.overlay.TransparencyEvent(gesture.EventDown, geometry.Point{X: 10, Y: 10}))
	assert.True(t, f.renderer.last().Transparency.Empty())
	assert.False(t, f.overlay.Status().Transparency)
}

func TestOverlay_QuadrantOutlineResizeCommitsOnce(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300},
		nil)

	f.send(t, actions.HandleQuadrant, gesture.EventDown, 480, 380)
	f.send(t, actions.HandleQuadrant, gesture.EventMove, 530, 430)
	assert.Equal(t, "resizing", f.overlay.Status().Phase)
	f.send(t, actions.HandleQuadrant, gesture.EventMove, 580, 480)
	assert.Empty(t, f.backend.Log, "outline resize leaves the host alone until release")
	f.send(t, actions.HandleQuadrant, gesture.EventUp, 580, 480)

	assert.Equal(t, []string{"move 0x1 100,100 500x400"}, f.backend.Log)
	assert.Len(t, f.renderer.outline.shown, 2)
	assert.False(t, f.renderer.outline.visible)
	assert.Equal(t, "idle", f.overlay.Status().Phase)
}

func TestOverlay_UnboundLongPressDoesNothing(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300},
		nil)
	before := f.overlay.Status()

	f.send(t, actions.HandleQuadrant, gesture.EventDown, 480, 380)
	f.clock.Advance(time.Second)
	f.send(t, actions.HandleQuadrant, gesture.EventUp, 480, 380)

	assert.Empty(t, f.backend.Log)
	assert.Equal(t, before.Window, f.overlay.Geometry())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Actions.WithLabelValues("quadrant", "long-press", "none")))
}

func TestOverlay_DragWinsOverResize(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 300, Y: 300, Width: 400, Height: 300},
		func(c *config.Config) {
			c.Triangle.Drag = true
			c.Triangle.Resize = true
		})

	f.send(t, actions.HandleTriangle, gesture.EventDown, 310, 310)
	f.send(t, actions.HandleTriangle, gesture.EventMove, 360, 330)
	f.send(t, actions.HandleTriangle, gesture.EventUp, 360, 330)

	assert.Equal(t, geometry.Rect{X: 350, Y: 320, Width: 400, Height: 300}, f.overlay.Geometry())
}

func TestOverlay_OtherHandleIgnoredDuringGesture(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 300, Y: 300, Width: 400, Height: 300},
		nil)

	f.send(t, actions.HandleDragBar, gesture.EventDown, 400, 310)
	f.send(t, actions.HandleQuadrant, gesture.EventDown, 690, 590)
	f.send(t, actions.HandleQuadrant, gesture.EventMove, 800, 700)
	assert.Equal(t, "drag-bar", f.overlay.Status().Handle)
	assert.Empty(t, f.backend.Log)
}

func TestOverlay_SetGeometryRejectedDuringGesture(t *testing.T) {
	start := geometry.Rect{X: 300, Y: 300, Width: 400, Height: 300}
	f := newFixture(t, geometry.Rect{Width: 1920, Height: 1080}, start, nil)

	f.send(t, actions.HandleDragBar, gesture.EventDown, 400, 310)
	f.send(t, actions.HandleDragBar, gesture.EventMove, 450, 310)

	_, err := f.overlay.SetGeometry(geometry.Rect{X: 0, Y: 0, Width: 500, Height: 500})
	assert.ErrorIs(t, err, ErrGestureActive)

	require.NoError(t, f.overlay.Cancel())
	assert.Equal(t, start, f.overlay.Geometry(), "cancel restores the pre-gesture rect")

	got, err := f.overlay.SetGeometry(geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 120, Height: 80}, got, "minimum size applies")
}

func TestOverlay_SnapPreview(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1000, Height: 2000},
		geometry.Rect{X: 500, Y: 900, Width: 200, Height: 200},
		func(c *config.Config) { c.Snap.Tolerance = 20 })

	res, err := f.overlay.SnapPreview(geometry.Rect{X: 990, Y: 1990, Width: 200, Height: 200})
	require.NoError(t, err)
	assert.True(t, res.Snapped)
	assert.Equal(t, snap.ZoneBottomRight, res.Zone)
	assert.Empty(t, f.backend.Log, "preview never commits")

	f2 := newFixture(t,
		geometry.Rect{Width: 1000, Height: 2000},
		geometry.Rect{X: 500, Y: 900, Width: 200, Height: 200},
		func(c *config.Config) { c.Snap.Enabled = false })
	candidate := geometry.Rect{X: -5, Y: 0, Width: 200, Height: 200}
	res, err = f2.overlay.SnapPreview(candidate)
	require.NoError(t, err)
	assert.False(t, res.Snapped)
	assert.Equal(t, candidate, res.Rect)
}

func TestOverlay_PerformHostActions(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 800, Height: 600},
		geometry.Rect{X: 10, Y: 10, Width: 300, Height: 200},
		nil)

	require.NoError(t, f.overlay.Perform(actions.Maximize))
	require.NoError(t, f.overlay.Refresh())
	assert.Equal(t, geometry.Rect{Width: 800, Height: 600}, f.overlay.Geometry(), "refresh picks up the WM geometry")

	require.NoError(t, f.overlay.Restore())
	assert.Equal(t, geometry.Rect{X: 10, Y: 10, Width: 300, Height: 200}, f.overlay.Geometry())

	require.NoError(t, f.overlay.Perform(actions.Minimize))
	assert.True(t, f.backend.Minimized(f.id))

	require.NoError(t, f.overlay.Perform(actions.Close))
	assert.ErrorIs(t, f.overlay.Refresh(), ErrHostGone)
}

func TestOverlay_ReloadSwitchesStrategy(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300},
		nil)
	assert.Equal(t, "outline", f.overlay.Status().Resize)

	cfg := config.DefaultConfig()
	cfg.LiveResize = true
	require.NoError(t, f.overlay.Reload(cfg))
	assert.Equal(t, "live", f.overlay.Status().Resize)
	assert.Equal(t, 2, f.renderer.configured)

	f.send(t, actions.HandleQuadrant, gesture.EventDown, 480, 380)
	f.send(t, actions.HandleQuadrant, gesture.EventMove, 530, 430)
	f.send(t, actions.HandleQuadrant, gesture.EventMove, 580, 480)
	f.send(t, actions.HandleQuadrant, gesture.EventUp, 580, 480)
	assert.Len(t, f.backend.Log, 2, "live resize commits every move")
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 500, Height: 400}, f.overlay.Geometry())
}

func TestOverlay_Detach(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300},
		nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Attached))

	f.overlay.Detach()
	assert.True(t, f.renderer.destroyed)
	assert.True(t, f.overlay.Detached())
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.Attached))

	err := f.overlay.HandleEvent(actions.HandleDragBar, gesture.Event{Kind: gesture.EventDown})
	assert.ErrorIs(t, err, ErrDetached)
	_, err = f.overlay.SetOpacity(50)
	assert.ErrorIs(t, err, ErrDetached)
}

func TestComputeChrome(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TitleBar.Enabled = true
	cfg.Border.Enabled = true
	cfg.Quadrant.Corner = "top-right"
	win := geometry.Rect{X: 0, Y: 0, Width: 400, Height: 300}

	c := ComputeChrome(win, cfg, UIState{MoveBar: true, Transparency: true})

	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 400, Height: 24}, c.TitleBar)
	assert.Equal(t, geometry.Rect{X: 0, Y: 24, Width: 400, Height: 1}, c.Divider)
	assert.Equal(t, geometry.Rect{X: 0, Y: 25, Width: 400, Height: 275}, c.Content())
	assert.Equal(t, geometry.Rect{X: 0, Y: 25, Width: 400, Height: 28}, c.DragBar)
	assert.Equal(t, geometry.Rect{X: 0, Y: 53, Width: 400, Height: 28}, c.Transparency)
	assert.Equal(t, win, c.Dismiss, "presses anywhere on the window can close the strip")
	assert.Equal(t, geometry.Rect{X: 0, Y: 25, Width: 36, Height: 36}, c.Triangle, "keep-corners leaves the handles")
	assert.Equal(t, geometry.Rect{X: 364, Y: 25, Width: 36, Height: 36}, c.Quadrant)
	assert.Equal(t, win, c.Border)

	cfg.Triangle.Enabled = false
	c = ComputeChrome(win, cfg, UIState{})
	assert.True(t, c.Triangle.Empty(), "disabled handles have zero size")
	assert.True(t, c.Dismiss.Empty())
	assert.True(t, c.DragBar.Empty())
}

func TestBindingsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	b := BindingsFromConfig(cfg)
	assert.Equal(t, actions.ToggleMoveBar, b.Lookup(actions.HandleTriangle, actions.TriggerTap))
	assert.Equal(t, actions.Transparency, b.Lookup(actions.HandleTriangle, actions.TriggerLongPress))
	assert.Equal(t, actions.None, b.Lookup(actions.HandleQuadrant, actions.TriggerLongPress))

	cfg.Triangle.Enabled = false
	assert.Equal(t, actions.None, BindingsFromConfig(cfg).Lookup(actions.HandleTriangle, actions.TriggerTap))
}

func TestBindingsFromConfig_UnknownCodesAreUnbound(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Triangle.TapAction = "7"
	cfg.Triangle.LongPressAction = ""
	require.NoError(t, cfg.Validate())

	b := BindingsFromConfig(cfg)
	assert.Equal(t, actions.None, b.Lookup(actions.HandleTriangle, actions.TriggerTap))
	assert.Equal(t, actions.None, b.Lookup(actions.HandleTriangle, actions.TriggerLongPress))
}

func TestOverlay_DispatchTapAfterLongPressIsIndependent(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300},
		func(c *config.Config) {
			c.Triangle.TapAction = "maximize"
			c.Triangle.LongPressAction = "move-bar"
		})

	a, err := f.overlay.Dispatch(actions.HandleTriangle, actions.TriggerLongPress)
	require.NoError(t, err)
	assert.Equal(t, actions.ToggleMoveBar, a)
	assert.True(t, f.overlay.Status().MoveBar)

	a, err = f.overlay.Dispatch(actions.HandleTriangle, actions.TriggerTap)
	require.NoError(t, err)
	assert.Equal(t, actions.Maximize, a)
	assert.Equal(t, []string{"maximize 0x1"}, f.backend.Log)
}

func TestOverlay_FramedWindowDoesNotCreep(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 600, Y: 300, Width: 400, Height: 300},
		nil)
	frame := geometry.Insets{Left: 2, Right: 2, Top: 24, Bottom: 2}
	f.backend.SetFrameExtents(f.id, frame)
	require.NoError(t, f.overlay.Refresh())
	start := f.overlay.Geometry()
	assert.Equal(t, geometry.Rect{X: 598, Y: 276, Width: 404, Height: 326}, start)

	for i := 0; i < 3; i++ {
		f.send(t, actions.HandleDragBar, gesture.EventDown, 700, 290)
		f.send(t, actions.HandleDragBar, gesture.EventUp, 700, 290)
		require.NoError(t, f.overlay.Refresh())
	}

	assert.Equal(t, start, f.overlay.Geometry())
	client, err := f.backend.ClientBounds(f.id)
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect{X: 600, Y: 300, Width: 400, Height: 300}, client)
}

func TestOverlay_ClickOnHostContentClosesTransparencyStrip(t *testing.T) {
	f := newFixture(t,
		geometry.Rect{Width: 1920, Height: 1080},
		geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300},
		nil)
	require.NoError(t, f.overlay.Perform(actions.Transparency))

	shown := f.renderer.last()
	require.False(t, shown.Transparency.Empty())
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300}, shown.Dismiss,
		"the press catcher covers the whole window")

	require.NoError(t, f.overlay.DismissTransparency())
	hidden := f.renderer.last()
	assert.True(t, hidden.Transparency.Empty())
	assert.True(t, hidden.Dismiss.Empty())
	assert.False(t, f.overlay.Status().Transparency)
	assert.Empty(t, f.backend.Log, "closing the strip leaves the host alone")

	// Dismissing again is harmless.
	require.NoError(t, f.overlay.DismissTransparency())
}
