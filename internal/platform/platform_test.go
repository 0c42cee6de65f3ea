package platform

import (
	"testing"

	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindowID(t *testing.T) {
	tests := []struct {
		in      string
		want    WindowID
		wantErr bool
	}{
		{in: "0x3a00007", want: 0x3a00007},
		{in: "60817415", want: 60817415},
		{in: " 42 ", want: 42},
		{in: "0", wantErr: true},
		{in: "window", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindowID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindowSurfaceOverMemoryBackend(t *testing.T) {
	screen := geometry.Rect{Width: 1000, Height: 2000}
	backend := NewMemoryBackend(screen)
	id := backend.AddWindow("editor", geometry.Rect{X: 10, Y: 10, Width: 300, Height: 200})
	surface := NewWindowSurface(backend, id)

	got, err := surface.ScreenBounds()
	require.NoError(t, err)
	assert.Equal(t, screen, got)

	target := geometry.Rect{X: 0, Y: 0, Width: 500, Height: 2000}
	require.NoError(t, surface.ApplyGeometry(target))
	bounds, err := surface.Bounds()
	require.NoError(t, err)
	assert.Equal(t, target, bounds)

	require.NoError(t, surface.SetOpacity(5))
	opacity, err := surface.Opacity()
	require.NoError(t, err)
	assert.Equal(t, 10, opacity, "opacity is clamped to the minimum")

	require.NoError(t, surface.Minimize())
	assert.True(t, backend.Minimized(id))

	require.NoError(t, surface.Close())
	assert.False(t, surface.Exists())
	assert.Error(t, surface.ApplyGeometry(target))

	assert.Equal(t, []string{
		"move 0x1 0,0 500x2000",
		"opacity 0x1 10",
		"minimize 0x1",
		"close 0x1",
	}, backend.Log)
}

func TestMemoryBackendMaximizeRestore(t *testing.T) {
	screen := geometry.Rect{Width: 800, Height: 600}
	backend := NewMemoryBackend(screen)
	start := geometry.Rect{X: 50, Y: 60, Width: 200, Height: 100}
	id := backend.AddWindow("term", start)

	require.NoError(t, backend.Maximize(id))
	got, _ := backend.WindowBounds(id)
	assert.Equal(t, screen, got)

	require.NoError(t, backend.Restore(id))
	got, _ = backend.WindowBounds(id)
	assert.Equal(t, start, got)
}

func TestMemoryBackendFindWindow(t *testing.T) {
	backend := NewMemoryBackend(geometry.Rect{Width: 800, Height: 600})
	backend.AddWindow("a", geometry.Rect{Width: 10, Height: 10})
	b := backend.AddWindow("b", geometry.Rect{Width: 10, Height: 10})

	id, err := backend.FindWindow("b")
	require.NoError(t, err)
	assert.Equal(t, b, id)

	active, err := backend.ActiveWindow()
	require.NoError(t, err)
	assert.Equal(t, b, active)

	_, err = backend.FindWindow("missing")
	assert.Error(t, err)
}

func TestMemoryBackendFrameExtents(t *testing.T) {
	backend := NewMemoryBackend(geometry.Rect{Width: 800, Height: 600})
	id := backend.AddWindow("term", geometry.Rect{X: 50, Y: 60, Width: 200, Height: 100})
	backend.SetFrameExtents(id, geometry.Insets{Left: 1, Right: 1, Top: 20, Bottom: 1})

	framed, err := backend.WindowBounds(id)
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect{X: 49, Y: 40, Width: 202, Height: 121}, framed)

	// Writing back what was read leaves the window where it is.
	require.NoError(t, backend.MoveResize(id, framed))
	got, _ := backend.WindowBounds(id)
	assert.Equal(t, framed, got)
	client, _ := backend.ClientBounds(id)
	assert.Equal(t, geometry.Rect{X: 50, Y: 60, Width: 200, Height: 100}, client)

	require.NoError(t, backend.Maximize(id))
	got, _ = backend.WindowBounds(id)
	assert.Equal(t, geometry.Rect{Width: 800, Height: 600}, got)
}
