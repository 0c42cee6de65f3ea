package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/replay"
	"github.com/1broseidon/floatwin/internal/snap"
)

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    geometry.Rect
		wantErr bool
	}{
		{in: "0,0,1000,2000", want: geometry.Rect{Width: 1000, Height: 2000}},
		{in: "-95, 905, 200, 200", want: geometry.Rect{X: -95, Y: 905, Width: 200, Height: 200}},
		{in: "1,2,3", wantErr: true},
		{in: "a,b,c,d", wantErr: true},
		{in: "0,0,0,10", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRect(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseRect(%q) succeeded, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRect(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("parseRect(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if back, _ := parseRect(formatRect(got)); back != got {
				t.Fatalf("formatRect round trip = %v, want %v", back, got)
			}
		})
	}
}

func TestEvaluateSnap(t *testing.T) {
	res, tol := evaluateSnap(snapQuery{
		screen:  geometry.Rect{Width: 1000, Height: 2000},
		rect:    geometry.Rect{X: -95, Y: 905, Width: 200, Height: 200},
		density: 1,
		topEdge: snap.TopEdgeMaximize,
	})
	if tol != 20 {
		t.Fatalf("tolerance = %d, want 20", tol)
	}
	if !res.Snapped || res.Zone != snap.ZoneLeft {
		t.Fatalf("result = %+v, want left snap", res)
	}
	if want := (geometry.Rect{Width: 500, Height: 2000}); res.Rect != want {
		t.Fatalf("rect = %v, want %v", res.Rect, want)
	}

	_, tol = evaluateSnap(snapQuery{
		screen:  geometry.Rect{Width: 1000, Height: 2000},
		rect:    geometry.Rect{X: 400, Y: 900, Width: 200, Height: 200},
		density: 2,
		topEdge: snap.TopEdgeMaximize,
	})
	if tol != 40 {
		t.Fatalf("tolerance at density 2 = %d, want 40", tol)
	}
}

func TestRunSnapRejectsBadInput(t *testing.T) {
	if rc := runSnap([]string{"--screen", "0,0,1000"}); rc != 2 {
		t.Fatalf("runSnap bad screen rc=%d, want 2", rc)
	}
	if rc := runSnap([]string{"--screen", "0,0,1000,2000", "--top-edge", "sideways"}); rc != 2 {
		t.Fatalf("runSnap bad top edge rc=%d, want 2", rc)
	}
}

func TestResolveWindow(t *testing.T) {
	backend := platform.NewMemoryBackend(geometry.Rect{Width: 800, Height: 600})
	first := backend.AddWindow("editor", geometry.Rect{Width: 100, Height: 100})
	second := backend.AddWindow("terminal", geometry.Rect{Width: 100, Height: 100})

	got, err := resolveWindow(backend, "", "")
	if err != nil || got != second {
		t.Fatalf("active window = %v, %v; want %v", got, err, second)
	}
	got, err = resolveWindow(backend, "", "editor")
	if err != nil || got != first {
		t.Fatalf("by title = %v, %v; want %v", got, err, first)
	}
	got, err = resolveWindow(backend, "0x1", "")
	if err != nil || got != first {
		t.Fatalf("by id = %v, %v; want %v", got, err, first)
	}
	if _, err := resolveWindow(backend, "0x99", ""); err == nil {
		t.Fatal("missing window id resolved")
	}
}

func TestPrintReplayResult(t *testing.T) {
	var buf bytes.Buffer
	err := printReplayResult(&buf, replay.Result{
		Line:     3,
		Step:     replay.Step{Handle: "drag-bar", Event: "up", X: 5, Y: 1005},
		Ops:      []string{"move 0x1 0,0 500x2000"},
		Geometry: geometry.Rect{Width: 500, Height: 2000},
		Phase:    "idle",
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	want := "3: drag-bar up 5,1005 -> 0,0,500,2000 [idle]\n    move 0x1 0,0 500x2000\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := printReplayResult(&buf, replay.Result{Line: 1, Step: replay.Step{AdvanceMS: 600}}, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"advance_ms":600`) {
		t.Fatalf("json output missing step: %s", buf.String())
	}
}

func TestRunConfigValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("live_resize: true\nsnap:\n  tolerance: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if rc := runConfig([]string{"validate", "--path", path}); rc != 0 {
		t.Fatalf("validate rc=%d, want 0", rc)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("min_width: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if rc := runConfig([]string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate bad rc=%d, want 1", rc)
	}
	if rc := runConfig([]string{"bogus"}); rc != 2 {
		t.Fatalf("unknown subcommand rc=%d, want 2", rc)
	}
}
