// Package replay drives the overlay engine from a JSON-lines script against
// an in-memory window system. It backs `floatwin replay` and doubles as a
// way to reproduce gesture bugs without an X server.
//
// Each line is one step:
//
//	{"handle":"drag-bar","event":"down","x":600,"y":1000}
//	{"advance_ms":600}
//	{"handle":"transparency","event":"down","x":300,"y":30}
//	{"action":"maximize"}
//
// Blank lines and lines starting with # are skipped.
package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/gesture"
	"github.com/1broseidon/floatwin/internal/overlay"
	"github.com/1broseidon/floatwin/internal/platform"
	"go.uber.org/zap"
)

// handleTransparency addresses the opacity strip, which is not a gesture
// handle.
const handleTransparency = "transparency"

// Step is one scripted input.
type Step struct {
	Handle    string `json:"handle,omitempty"`
	Event     string `json:"event,omitempty"`
	X         int    `json:"x,omitempty"`
	Y         int    `json:"y,omitempty"`
	AdvanceMS int    `json:"advance_ms,omitempty"`
	Action    string `json:"action,omitempty"`
}

// Result reports what one step did to the window.
type Result struct {
	Line     int           `json:"line"`
	Step     Step          `json:"step"`
	Ops      []string      `json:"ops,omitempty"`
	Geometry geometry.Rect `json:"geometry"`
	Phase    string        `json:"phase"`
	Err      string        `json:"error,omitempty"`
}

// Options configures Run.
type Options struct {
	Screen geometry.Rect
	Window geometry.Rect
	Config *config.Config
	Logger *zap.Logger
}

// Run executes the script in r, calling emit after every step. Step errors
// are reported in the Result and do not stop the replay; malformed lines do.
func Run(r io.Reader, opts Options, emit func(Result) error) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	backend := platform.NewMemoryBackend(opts.Screen)
	id := backend.AddWindow("replay", opts.Window)
	clock := time.Unix(0, 0)

	o, err := overlay.New(overlay.Options{
		Config: cfg,
		Host:   platform.NewWindowSurface(backend, id),
		Logger: opts.Logger,
		Clock:  func() time.Time { return clock },
	})
	if err != nil {
		return err
	}
	defer o.Detach()

	scanner := bufio.NewScanner(r)
	line := 0
	seen := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		var step Step
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&step); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if step.AdvanceMS > 0 {
			clock = clock.Add(time.Duration(step.AdvanceMS) * time.Millisecond)
		}
		stepErr, err := apply(o, step)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		entries := backend.Entries()
		res := Result{
			Line:     line,
			Step:     step,
			Ops:      entries[seen:],
			Geometry: o.Geometry(),
			Phase:    o.Status().Phase,
		}
		seen = len(entries)
		if stepErr != nil {
			res.Err = stepErr.Error()
		}
		if err := emit(res); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// apply runs step against o. The first result is the engine's error, the
// second a malformed step.
func apply(o *overlay.Overlay, step Step) (error, error) {
	if step.Action != "" {
		a, ok := actions.ParseAction(step.Action)
		if !ok {
			return nil, fmt.Errorf("unknown action %q", step.Action)
		}
		return o.Perform(a), nil
	}
	if step.Event == "" {
		if step.AdvanceMS > 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("step needs an event, an action or advance_ms")
	}

	kind, ok := gesture.ParseEventKind(step.Event)
	if !ok {
		return nil, fmt.Errorf("unknown event %q", step.Event)
	}
	pos := geometry.Point{X: step.X, Y: step.Y}
	if step.Handle == handleTransparency {
		return o.TransparencyEvent(kind, pos), nil
	}
	h, err := actions.ParseHandle(step.Handle)
	if err != nil {
		return nil, err
	}
	return o.HandleEvent(h, gesture.Event{Kind: kind, Pos: pos}), nil
}
