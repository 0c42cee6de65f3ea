// Package overlay attaches the gesture engine to one host window. It owns
// the geometry model, the snap detector, one controller per handle and the
// action dispatcher, and serialises the X event loop, IPC and MCP callers
// onto them with a single mutex.
package overlay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/gesture"
	"github.com/1broseidon/floatwin/internal/metrics"
	"github.com/1broseidon/floatwin/internal/snap"
	"go.uber.org/zap"
)

var (
	// ErrGestureActive is returned by operations that would fight a
	// gesture in progress.
	ErrGestureActive = errors.New("a gesture is in progress")
	// ErrDetached is returned once the overlay has let go of its window.
	ErrDetached = errors.New("overlay is detached")
	// ErrHostGone means the host window no longer exists.
	ErrHostGone = errors.New("host window is gone")
)

// Host is the manipulated window as the overlay sees it.
type Host interface {
	geometry.Surface
	Bounds() (geometry.Rect, error)
	Restore() error
	SetOpacity(percent int) error
	Opacity() (int, error)
	Exists() bool
}

// Renderer draws the chrome over the host window.
type Renderer interface {
	// Configure applies colours and thicknesses from cfg.
	Configure(cfg *config.Config)
	Render(c Chrome) error
	// Outline is the preview border of outline resizes. May return nil.
	Outline() gesture.Outline
	Destroy()
}

// Options configures an Overlay. Config and Host are required.
type Options struct {
	Config   *config.Config
	Host     Host
	Renderer Renderer
	// Density scales the default snap tolerance (1.0 = 96 DPI).
	Density float64
	Metrics *metrics.Recorder
	Logger  *zap.Logger
	Clock   func() time.Time
}

// Overlay is the attached engine. All methods are safe for concurrent use.
type Overlay struct {
	mu sync.Mutex

	host     Host
	renderer Renderer
	density  float64
	metrics  *metrics.Recorder
	logger   *zap.Logger
	clock    func() time.Time

	cfg         *config.Config
	model       *geometry.Model
	detector    *snap.Detector
	strategy    gesture.Strategy
	controllers map[actions.Handle]gesture.Controller
	presses     map[actions.Handle]*actions.PressRecognizer
	dispatcher  *actions.Dispatcher

	ui       UIState
	opacity  int
	detached bool
}

// New attaches an overlay to opts.Host, seeded with its present geometry.
func New(opts Options) (*Overlay, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("overlay: config is required")
	}
	if opts.Host == nil {
		return nil, fmt.Errorf("overlay: host is required")
	}
	o := &Overlay{
		host:     opts.Host,
		renderer: opts.Renderer,
		density:  opts.Density,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		clock:    opts.Clock,
		opacity:  actions.MaxOpacity,
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.clock == nil {
		o.clock = time.Now
	}

	initial, err := o.host.Bounds()
	if err != nil {
		return nil, fmt.Errorf("read host geometry: %w", err)
	}
	if pct, err := o.host.Opacity(); err == nil {
		o.opacity = pct
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.build(opts.Config, initial)
	if o.metrics != nil {
		o.metrics.Attached.Set(1)
	}
	o.render()

	o.logger.Info("overlay attached",
		zap.Stringer("window", initial),
		zap.Stringer("resize", o.strategy),
		zap.Int("snap_tolerance", o.tolerance()))
	return o, nil
}

// build wires the engine for cfg. Callers hold o.mu.
func (o *Overlay) build(cfg *config.Config, current geometry.Rect) {
	o.cfg = cfg
	if o.renderer != nil {
		o.renderer.Configure(cfg)
	}

	limits := geometry.Limits{
		MinWidth:   cfg.MinWidth,
		MinHeight:  cfg.MinHeight,
		MaxWidth:   cfg.MaxWidth,
		MaxHeight:  cfg.MaxHeight,
		MinVisible: cfg.MinVisible,
	}
	o.model = geometry.NewModel(o.host, current, limits, o.logger.Named("model"))
	o.model.OnCommit = func(geometry.Rect) { o.render() }

	o.detector = nil
	if cfg.Snap.Enabled {
		tol := cfg.Snap.Tolerance
		if tol == 0 {
			tol = snap.DefaultTolerance(o.density)
		}
		o.detector = snap.NewDetector(tol, snap.TopEdge(cfg.Snap.TopEdge), o.logger.Named("snap"))
	}

	o.strategy = gesture.StrategyOutline
	if cfg.LiveResize {
		o.strategy = gesture.StrategyLive
	}

	var observer gesture.Observer
	var actionObserver actions.Observer
	if o.metrics != nil {
		observer = o.metrics
		actionObserver = o.metrics
	}

	o.controllers = make(map[actions.Handle]gesture.Controller)
	if c := o.handleController(cfg.Triangle, observer); c != nil {
		o.controllers[actions.HandleTriangle] = c
	}
	if c := o.handleController(cfg.Quadrant, observer); c != nil {
		o.controllers[actions.HandleQuadrant] = c
	}
	o.controllers[actions.HandleDragBar] = gesture.NewDrag(o.model, o.detector, observer, o.logger.Named("drag"))
	if cfg.TitleBar.Enabled {
		o.controllers[actions.HandleTitleBar] = gesture.NewDrag(o.model, o.detector, observer, o.logger.Named("drag"))
	}

	longPress := time.Duration(cfg.LongPressMS) * time.Millisecond
	o.presses = map[actions.Handle]*actions.PressRecognizer{
		actions.HandleTriangle: actions.NewPressRecognizer(longPress, cfg.TapSlop),
		actions.HandleQuadrant: actions.NewPressRecognizer(longPress, cfg.TapSlop),
	}
	o.dispatcher = actions.NewDispatcher(BindingsFromConfig(cfg), o.host, chromeUI{o}, actionObserver, o.logger.Named("actions"))
}

// handleController returns the gesture a corner handle performs. Drag wins
// when both drag and resize are enabled.
func (o *Overlay) handleController(h config.Handle, observer gesture.Observer) gesture.Controller {
	if !h.Enabled {
		return nil
	}
	if h.Drag {
		return gesture.NewDrag(o.model, o.detector, observer, o.logger.Named("drag"))
	}
	if !h.Resize {
		return nil
	}
	corner, err := gesture.ParseCorner(h.Corner)
	if err != nil {
		o.logger.Warn("handle resize disabled", zap.Error(err))
		return nil
	}
	var outline gesture.Outline
	if o.renderer != nil {
		outline = o.renderer.Outline()
	}
	return gesture.NewResize(o.model, gesture.ResizeOptions{
		Strategy: o.strategy,
		Corner:   corner,
		Outline:  outline,
		Observer: observer,
		Logger:   o.logger.Named("resize"),
	})
}

// BindingsFromConfig builds the action table from the corner handle settings.
func BindingsFromConfig(cfg *config.Config) actions.Bindings {
	b := actions.Bindings{}
	add := func(h actions.Handle, t actions.Trigger, name string) {
		if a, ok := actions.ParseAction(name); ok && a != actions.None {
			b[actions.Binding{Handle: h, Trigger: t}] = a
		}
	}
	if cfg.Triangle.Enabled {
		add(actions.HandleTriangle, actions.TriggerTap, cfg.Triangle.TapAction)
		add(actions.HandleTriangle, actions.TriggerLongPress, cfg.Triangle.LongPressAction)
	}
	if cfg.Quadrant.Enabled {
		add(actions.HandleQuadrant, actions.TriggerTap, cfg.Quadrant.TapAction)
		add(actions.HandleQuadrant, actions.TriggerLongPress, cfg.Quadrant.LongPressAction)
	}
	return b
}

// HandleEvent feeds one pointer event of handle h to its controller and,
// for corner handles, to the tap/long-press recognizer. A recognized press
// bound to an action cancels the gesture instead of releasing it, so a tap
// never moves or snaps the window.
func (o *Overlay) HandleEvent(h actions.Handle, ev gesture.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return ErrDetached
	}

	if owner, busy := o.busy(); busy && owner != h {
		// The pointer belongs to another handle until it is released.
		return nil
	}

	ctrl := o.controllers[h]
	press := o.presses[h]
	now := o.clock()

	switch ev.Kind {
	case gesture.EventDown:
		if o.ui.Transparency {
			o.ui.Transparency = false
			o.render()
		}
		if press != nil && !press.Active() {
			o.dispatcher.Begin(h)
			press.Down(ev.Pos, now)
		} else if press != nil {
			press.Move(ev.Pos)
		}
		return o.feed(ctrl, ev)

	case gesture.EventMove:
		if press != nil {
			press.Move(ev.Pos)
		}
		return o.feed(ctrl, ev)

	case gesture.EventUp:
		if press == nil {
			return o.feed(ctrl, ev)
		}
		trigger, ok := press.Up(ev.Pos, now)
		if !ok {
			return o.feed(ctrl, ev)
		}
		var errs []error
		if o.dispatcher.Bindings().Lookup(h, trigger) != actions.None {
			errs = append(errs, o.feed(ctrl, gesture.Event{Kind: gesture.EventCancel, Pos: ev.Pos}))
		} else {
			errs = append(errs, o.feed(ctrl, ev))
		}
		if _, err := o.dispatcher.Dispatch(h, trigger); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)

	case gesture.EventCancel:
		if press != nil {
			press.Cancel()
		}
		return o.feed(ctrl, ev)
	}
	return nil
}

func (o *Overlay) feed(ctrl gesture.Controller, ev gesture.Event) error {
	if ctrl == nil {
		return nil
	}
	return ctrl.Handle(ev)
}

// busy reports the handle whose gesture is in progress, if any.
func (o *Overlay) busy() (actions.Handle, bool) {
	for h, c := range o.controllers {
		if c.Phase() != gesture.PhaseIdle {
			return h, true
		}
	}
	for h, p := range o.presses {
		if p.Active() {
			return h, true
		}
	}
	return 0, false
}

// TransparencyEvent handles a pointer event on the transparency strip. The
// pointer's position along the strip selects the opacity.
func (o *Overlay) TransparencyEvent(kind gesture.EventKind, pos geometry.Point) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return ErrDetached
	}

	strip := ComputeChrome(o.model.Current(), o.cfg, o.ui).Transparency
	if strip.Empty() || kind == gesture.EventCancel {
		return nil
	}
	if kind == gesture.EventDown && !strip.Contains(pos) {
		o.ui.Transparency = false
		o.render()
		return nil
	}
	_, err := o.setOpacity(actions.OpacityAt(pos.X-strip.X, strip.Width))
	return err
}

// DismissTransparency hides the transparency strip, if shown.
func (o *Overlay) DismissTransparency() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return ErrDetached
	}
	if o.ui.Transparency {
		o.ui.Transparency = false
		o.render()
	}
	return nil
}

// Geometry returns the committed window rect.
func (o *Overlay) Geometry() geometry.Rect {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.model.Current()
}

// SetGeometry commits r through the model, clamped like any gesture commit.
func (o *Overlay) SetGeometry(r geometry.Rect) (geometry.Rect, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return geometry.Rect{}, ErrDetached
	}
	if _, busy := o.busy(); busy {
		return o.model.Current(), ErrGestureActive
	}
	if o.metrics != nil {
		o.metrics.Relayout("api")
	}
	return o.model.Commit(r)
}

// SnapPreview reports where a window released at candidate would land on
// the current screen, without committing anything.
func (o *Overlay) SnapPreview(candidate geometry.Rect) (snap.Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detector == nil {
		return snap.Result{Zone: snap.ZoneNone, Rect: candidate}, nil
	}
	screen, err := o.model.Screen()
	if err != nil {
		return snap.Result{}, fmt.Errorf("screen bounds: %w", err)
	}
	return o.detector.Detect(candidate, screen), nil
}

// Perform runs an action as if a handle bound to it had fired.
func (o *Overlay) Perform(a actions.Action) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return ErrDetached
	}
	return o.dispatcher.Perform(a)
}

// Dispatch resolves a handle trigger through the binding table.
func (o *Overlay) Dispatch(h actions.Handle, t actions.Trigger) (actions.Action, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return actions.None, ErrDetached
	}
	// Each call is its own interaction, so an earlier long-press never
	// swallows this tap.
	o.dispatcher.Begin(h)
	return o.dispatcher.Dispatch(h, t)
}

// SetMoveBar shows or hides the drag bar. Hiding it brings the corner
// handles back.
func (o *Overlay) SetMoveBar(visible, hideCorners bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return ErrDetached
	}
	return chromeUI{o}.SetMoveBar(visible, hideCorners)
}

// SetOpacity sets the host opacity, clamped to 10..100 percent.
func (o *Overlay) SetOpacity(percent int) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return 0, ErrDetached
	}
	return o.setOpacity(percent)
}

func (o *Overlay) setOpacity(percent int) (int, error) {
	percent = actions.ClampOpacity(percent)
	if err := o.host.SetOpacity(percent); err != nil {
		return o.opacity, fmt.Errorf("set opacity: %w", err)
	}
	o.opacity = percent
	return percent, nil
}

// Restore undoes a window-manager maximize and resynchronises the model.
func (o *Overlay) Restore() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return ErrDetached
	}
	if err := o.host.Restore(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	o.syncFromHost()
	return nil
}

// Refresh reconciles the engine with the host after changes made outside
// it: the window manager moving the window or the screen changing size.
// It returns ErrHostGone when the window was destroyed.
func (o *Overlay) Refresh() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return ErrDetached
	}
	if !o.host.Exists() {
		return ErrHostGone
	}
	if o.detector != nil {
		if screen, err := o.model.Screen(); err == nil {
			// Rebuilds the cached zones when the screen changed.
			o.detector.Zones(screen)
		}
	}
	if _, busy := o.busy(); !busy {
		o.syncFromHost()
	}
	return nil
}

func (o *Overlay) syncFromHost() {
	bounds, err := o.host.Bounds()
	if err != nil {
		o.logger.Debug("host geometry unavailable", zap.Error(err))
		return
	}
	if bounds != o.model.Current() {
		o.logger.Debug("host geometry changed externally",
			zap.Stringer("from", o.model.Current()),
			zap.Stringer("to", bounds))
		o.model.Sync(bounds)
		o.render()
	}
}

// Reload swaps in a new configuration, cancelling any gesture in progress.
// The window keeps its present geometry.
func (o *Overlay) Reload(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("reload: config is nil")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return ErrDetached
	}
	err := o.cancelAll()
	o.build(cfg, o.model.Current())
	o.render()
	o.logger.Info("configuration reloaded", zap.Stringer("resize", o.strategy))
	return err
}

// Cancel aborts any gesture in progress.
func (o *Overlay) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelAll()
}

func (o *Overlay) cancelAll() error {
	var errs []error
	for h, c := range o.controllers {
		if c.Phase() == gesture.PhaseIdle {
			continue
		}
		if err := c.Handle(gesture.Event{Kind: gesture.EventCancel}); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h, err))
		}
	}
	for _, p := range o.presses {
		p.Cancel()
	}
	return errors.Join(errs...)
}

// Detach cancels gestures, removes the chrome and stops accepting calls.
func (o *Overlay) Detach() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detached {
		return
	}
	if err := o.cancelAll(); err != nil {
		o.logger.Debug("cancel on detach", zap.Error(err))
	}
	if o.renderer != nil {
		o.renderer.Destroy()
	}
	if o.metrics != nil {
		o.metrics.Attached.Set(0)
	}
	o.detached = true
	o.logger.Info("overlay detached")
}

// Detached reports whether Detach was called.
func (o *Overlay) Detached() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.detached
}

func (o *Overlay) tolerance() int {
	if o.detector == nil {
		return 0
	}
	return o.detector.Tolerance()
}

// render redraws the chrome. Callers hold o.mu.
func (o *Overlay) render() {
	if o.renderer == nil || o.detached {
		return
	}
	if err := o.renderer.Render(ComputeChrome(o.model.Current(), o.cfg, o.ui)); err != nil {
		o.logger.Warn("render chrome", zap.Error(err))
	}
}

// chromeUI is the actions.UI view of the overlay. It runs with o.mu held.
type chromeUI struct {
	o *Overlay
}

func (u chromeUI) SetMoveBar(visible, hideCorners bool) error {
	u.o.ui.MoveBar = visible
	u.o.ui.HideCorners = visible && hideCorners
	u.o.render()
	return nil
}

func (u chromeUI) MoveBarVisible() bool {
	return u.o.ui.MoveBar
}

func (u chromeUI) ShowTransparency() error {
	u.o.ui.Transparency = true
	u.o.render()
	return nil
}
