package hotkeys

import (
	"errors"
	"testing"

	"github.com/1broseidon/floatwin/internal/actions"
	"github.com/1broseidon/floatwin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	performed []actions.Action
	restored  int
	err       error
}

func (f *fakeTarget) Perform(a actions.Action) error {
	f.performed = append(f.performed, a)
	return f.err
}

func (f *fakeTarget) Restore() error {
	f.restored++
	return f.err
}

func TestBindingsFromDefaults(t *testing.T) {
	bindings := Bindings(config.DefaultConfig().Hotkeys)
	require.Len(t, bindings, 3)

	target := &fakeTarget{}
	for _, b := range bindings {
		require.NoError(t, b.Run(target))
	}
	assert.Equal(t, []actions.Action{actions.ToggleMoveBar, actions.Maximize}, target.performed)
	assert.Equal(t, 1, target.restored)
}

func TestBindingsSkipEmpty(t *testing.T) {
	bindings := Bindings(config.Hotkeys{Maximize: "Mod4-Up", Restore: "  "})
	require.Len(t, bindings, 1)
	assert.Equal(t, "maximize", bindings[0].Name)
	assert.Equal(t, "Mod4-Up", bindings[0].Keys)
}

func TestBindingRunPropagatesError(t *testing.T) {
	target := &fakeTarget{err: errors.New("window gone")}
	bindings := Bindings(config.Hotkeys{Restore: "Mod4-Down"})
	require.Len(t, bindings, 1)
	assert.EqualError(t, bindings[0].Run(target), "window gone")
}

func TestIgnoreMasks(t *testing.T) {
	tests := []struct {
		name  string
		locks []uint16
		want  []uint16
	}{
		{name: "caps only", locks: []uint16{2, 0, 0}, want: []uint16{0, 2}},
		{name: "caps and numlock", locks: []uint16{2, 16, 0}, want: []uint16{0, 2, 16, 18}},
		{name: "duplicate masks collapse", locks: []uint16{2, 2, 16}, want: []uint16{0, 2, 16, 18}},
		{name: "three locks", locks: []uint16{2, 16, 128}, want: []uint16{0, 2, 16, 18, 128, 130, 144, 146}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ignoreMasks(tt.locks...))
		})
	}
}
