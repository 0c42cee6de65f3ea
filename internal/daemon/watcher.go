package daemon

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/1broseidon/floatwin/internal/overlay"
	"go.uber.org/zap"
)

// Refresher reconciles the engine with the window system.
// *overlay.Overlay implements it.
type Refresher interface {
	Refresh() error
}

// WatcherConfig holds configuration for the watcher.
type WatcherConfig struct {
	Interval time.Duration
	Logger   *zap.Logger
	// OnGone runs once, from the watcher goroutine, after the host window
	// disappears. The watcher stops afterwards.
	OnGone func()
}

// Watcher periodically checks that the host window still exists and picks
// up geometry and screen changes made outside floatwin.
type Watcher struct {
	target Refresher
	onGone func()
	logger *zap.Logger

	mu       sync.Mutex
	interval time.Duration
	reset    chan struct{}
	gone     bool
}

// NewWatcher creates a watcher over target.
func NewWatcher(cfg WatcherConfig, target Refresher) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		target:   target,
		onGone:   cfg.OnGone,
		logger:   logger.Named("watcher"),
		interval: interval,
		reset:    make(chan struct{}, 1),
	}
}

// SetInterval changes the polling period of a running watcher.
func (w *Watcher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.interval = d
	w.mu.Unlock()
	select {
	case w.reset <- struct{}{}:
	default:
	}
}

// Interval returns the polling period.
func (w *Watcher) Interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.interval
}

// Run starts the polling loop. Blocks until ctx is cancelled or the host
// window is gone.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	w.logger.Info("watcher started", zap.Duration("interval", w.Interval()))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return
		case <-w.reset:
			ticker.Reset(w.Interval())
		case <-ticker.C:
			if w.CheckNow() {
				return
			}
		}
	}
}

// CheckNow performs a single pass and reports whether the host is gone.
func (w *Watcher) CheckNow() (gone bool) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("watcher panic recovered", zap.Any("panic", r))
		}
	}()

	w.mu.Lock()
	if w.gone {
		w.mu.Unlock()
		return true
	}
	w.mu.Unlock()

	err := w.target.Refresh()
	switch {
	case err == nil:
		return false
	case errors.Is(err, overlay.ErrHostGone), errors.Is(err, overlay.ErrDetached):
		w.mu.Lock()
		w.gone = true
		w.mu.Unlock()
		w.logger.Info("host window is gone", zap.Error(err))
		if w.onGone != nil {
			w.onGone()
		}
		return true
	default:
		w.logger.Warn("refresh failed", zap.Error(err))
		return false
	}
}
