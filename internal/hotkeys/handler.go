package hotkeys

import (
	"fmt"
	"strings"
	"sync"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"go.uber.org/zap"
)

// Target receives hotkey commands. *overlay.Overlay implements it.
type Target interface {
	Perform(a actions.Action) error
	Restore() error
}

// Binding is one global shortcut.
type Binding struct {
	Name string
	Keys string
	Run  func(Target) error
}

// Bindings returns the shortcuts configured in hk. Empty key strings are
// skipped.
func Bindings(hk config.Hotkeys) []Binding {
	all := []Binding{
		{Name: "toggle-move-bar", Keys: hk.ToggleMoveBar, Run: func(t Target) error { return t.Perform(actions.ToggleMoveBar) }},
		{Name: "maximize", Keys: hk.Maximize, Run: func(t Target) error { return t.Perform(actions.Maximize) }},
		{Name: "restore", Keys: hk.Restore, Run: func(t Target) error { return t.Restore() }},
	}
	out := all[:0]
	for _, b := range all {
		if strings.TrimSpace(b.Keys) != "" {
			out = append(out, b)
		}
	}
	return out
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	target Target
	logger *zap.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler grabbing keys on root.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, target Target, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   root,
		target: target,
		logger: logger.Named("hotkeys"),
	}
}

// Bind replaces every registered shortcut with those in hk. A sequence the
// server refuses is logged and skipped; the rest still bind.
func (h *Handler) Bind(hk config.Hotkeys) error {
	keybind.Detach(h.xu, h.root)

	var failed []string
	for _, b := range Bindings(hk) {
		b := b
		if err := h.RegisterFunc(b.Keys, func() { h.run(b) }); err != nil {
			h.logger.Warn("hotkey unavailable", zap.String("name", b.Name), zap.String("keys", b.Keys), zap.Error(err))
			failed = append(failed, b.Keys)
			continue
		}
		h.logger.Debug("hotkey bound", zap.String("name", b.Name), zap.String("keys", b.Keys))
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to grab hotkeys: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (h *Handler) run(b Binding) {
	h.logger.Debug("hotkey triggered", zap.String("name", b.Name))
	if err := b.Run(h.target); err != nil {
		h.logger.Warn("hotkey failed", zap.String("name", b.Name), zap.Error(err))
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Close releases every grab.
func (h *Handler) Close() {
	keybind.Detach(h.xu, h.root)
}

// configureIgnoreMods makes bindings fire regardless of CapsLock, NumLock
// and ScrollLock.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the distinct non-zero lock masks,
// including the empty one.
func ignoreMasks(locks ...uint16) []uint16 {
	var base []uint16
	seen := map[uint16]bool{0: true}
	for _, m := range locks {
		if !seen[m] {
			seen[m] = true
			base = append(base, m)
		}
	}

	out := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
