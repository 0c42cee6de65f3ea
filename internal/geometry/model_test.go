package geometry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	screen  Rect
	applied []Rect
	failOn  int // 1-based apply call that fails; 0 = never
}

func (f *fakeSurface) ApplyGeometry(r Rect) error {
	if f.failOn > 0 && len(f.applied)+1 == f.failOn {
		f.failOn = 0
		return errors.New("rejected")
	}
	f.applied = append(f.applied, r)
	return nil
}

func (f *fakeSurface) ScreenBounds() (Rect, error) { return f.screen, nil }
func (f *fakeSurface) Close() error                { return nil }
func (f *fakeSurface) Minimize() error             { return nil }
func (f *fakeSurface) Maximize() error             { return nil }

func TestLimitsClamp(t *testing.T) {
	screen := Rect{X: 0, Y: 0, Width: 1000, Height: 2000}
	limits := Limits{MinWidth: 100, MinHeight: 80, MinVisible: 50}

	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside unchanged", Rect{10, 20, 300, 300}, Rect{10, 20, 300, 300}},
		{"too small grows", Rect{10, 20, 5, 0}, Rect{10, 20, 100, 80}},
		{"negative size grows", Rect{10, 20, -40, -1}, Rect{10, 20, 100, 80}},
		{"far left keeps overlap", Rect{-395, 905, 200, 200}, Rect{-150, 905, 200, 200}},
		{"far right keeps overlap", Rect{5000, 10, 200, 200}, Rect{950, 10, 200, 200}},
		{"far above keeps overlap", Rect{10, -900, 200, 200}, Rect{10, -150, 200, 200}},
		{"far below keeps overlap", Rect{10, 9000, 200, 200}, Rect{10, 1950, 200, 200}},
		{"larger than screen allowed", Rect{0, 0, 1500, 2500}, Rect{0, 0, 1500, 2500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, limits.Clamp(tt.in, screen))
		})
	}
}

func TestLimitsClampMaximum(t *testing.T) {
	limits := Limits{MinWidth: 100, MinHeight: 100, MaxWidth: 400, MaxHeight: 300}
	w, h := limits.ClampSize(900, 900)
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)

	// Minimum beats a misconfigured maximum.
	limits = Limits{MinWidth: 200, MaxWidth: 100}
	w, _ = limits.ClampSize(150, 10)
	assert.Equal(t, 200, w)
}

func TestModelCommitAppliesClampedRect(t *testing.T) {
	surface := &fakeSurface{screen: Rect{0, 0, 1000, 2000}}
	m := NewModel(surface, Rect{100, 100, 200, 200}, Limits{MinWidth: 50, MinHeight: 50}, nil)

	var notified []Rect
	m.OnCommit = func(r Rect) { notified = append(notified, r) }

	got, err := m.Commit(Rect{-1000, 100, 10, 10})
	require.NoError(t, err)

	want := Rect{-50 + DefaultMinVisible, 100, 50, 50}
	assert.Equal(t, want, got)
	assert.Equal(t, want, m.Current())
	assert.Equal(t, []Rect{want}, surface.applied)
	assert.Equal(t, []Rect{want}, notified)
}

func TestModelCommitHostFailureKeepsPrevious(t *testing.T) {
	surface := &fakeSurface{screen: Rect{0, 0, 1000, 2000}, failOn: 1}
	start := Rect{100, 100, 200, 200}
	m := NewModel(surface, start, Limits{}, nil)

	got, err := m.Commit(Rect{300, 300, 200, 200})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
	assert.Equal(t, start, got)
	assert.Equal(t, start, m.Current())

	// No automatic retry: the next commit is a fresh attempt.
	_, err = m.Commit(Rect{300, 300, 200, 200})
	require.NoError(t, err)
	assert.Len(t, surface.applied, 1)
}

func TestRectHelpers(t *testing.T) {
	r := Rect{10, 20, 30, 40}
	assert.Equal(t, 40, r.Right())
	assert.Equal(t, 60, r.Bottom())
	assert.Equal(t, Rect{15, 17, 30, 40}, r.Translate(Point{5, -3}))
	assert.True(t, r.Contains(Point{10, 20}))
	assert.False(t, r.Contains(Point{40, 20}))
	assert.True(t, r.Intersects(Rect{39, 59, 5, 5}))
	assert.False(t, r.Intersects(Rect{40, 20, 5, 5}))
	assert.Equal(t, "10,20 30x40", r.String())

	in := Insets{Left: 2, Right: 3, Top: 24, Bottom: 4}
	framed := r.Outset(in)
	assert.Equal(t, Rect{8, -4, 35, 68}, framed)
	assert.Equal(t, r, framed.Inset(in))
}

func TestModelSyncDoesNotCallHost(t *testing.T) {
	surface := &fakeSurface{screen: Rect{0, 0, 1000, 2000}}
	m := NewModel(surface, Rect{0, 0, 100, 100}, Limits{}, nil)
	m.OnCommit = func(Rect) { t.Fatal("OnCommit fired on Sync") }

	m.Sync(Rect{5, 5, 300, 300})
	assert.Equal(t, Rect{5, 5, 300, 300}, m.Current())
	assert.Empty(t, surface.applied)
}
