package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/floatwin/internal/config"
	"github.com/1broseidon/floatwin/internal/geometry"
	"github.com/1broseidon/floatwin/internal/snap"
)

type fakeDaemon struct {
	running bool
	reloads int
}

func (d *fakeDaemon) Ping() error {
	if !d.running {
		return errors.New("failed to connect to daemon")
	}
	return nil
}

func (d *fakeDaemon) Reload() error {
	d.reloads++
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, d Daemon) (model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("live_resize: true\n"), 0644))
	m, err := newModel(path, d)
	require.NoError(t, err)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(model), path
}

func TestRenderZonePreview(t *testing.T) {
	zones := snap.BuildZones(previewScreen, snap.TopEdgeMaximize)
	var left snap.Zone
	for _, z := range zones {
		if z.Kind == snap.ZoneLeft {
			left = z
		}
	}

	lines := renderZonePreview(left, previewScreen, 40, 12)
	require.Len(t, lines, 12)
	assert.True(t, strings.HasPrefix(lines[0], "╔"))
	assert.True(t, strings.HasSuffix(lines[11], "╝"))
	assert.Contains(t, strings.Join(lines, "\n"), "left")

	// The left zone covers the left half only.
	mid := []rune(lines[6])
	assert.Equal(t, '░', mid[5])
	assert.Equal(t, ' ', mid[30])

	assert.Equal(t, []string{"  ", "  "}, renderZonePreview(left, geometry.Rect{}, 2, 2))
}

func TestComputeDiffLines(t *testing.T) {
	orig := config.DefaultConfig()
	curr := cloneConfig(orig)
	require.NotNil(t, curr)
	assert.Nil(t, computeDiffLines(orig, curr))

	curr.Snap.Tolerance = 32
	lines := computeDiffLines(orig, curr)
	require.NotEmpty(t, lines)

	var added, removed []string
	for _, l := range lines {
		switch l.kind {
		case diffAdded:
			added = append(added, strings.TrimSpace(l.text))
		case diffRemoved:
			removed = append(removed, strings.TrimSpace(l.text))
		}
	}
	assert.Equal(t, []string{"tolerance: 32"}, added)
	assert.Equal(t, []string{"tolerance: 0"}, removed)
}

func TestEditorValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()

	g := loadGeneral(cfg).(*generalValues)
	g.liveResize = true
	g.minWidth = "200"
	g.longPressMS = "bogus"
	g.apply(cfg)
	assert.True(t, cfg.LiveResize)
	assert.Equal(t, 200, cfg.MinWidth)
	assert.Equal(t, 500, cfg.LongPressMS, "unparsable values are ignored")

	s := loadSnap(cfg).(*snapValues)
	s.topEdge = string(snap.TopEdgeHalf)
	s.tolerance = "24"
	s.apply(cfg)
	assert.Equal(t, "top-half", cfg.Snap.TopEdge)
	assert.Equal(t, 24, cfg.Snap.Tolerance)

	h := loadHandles(cfg).(*handlesValues)
	h.quadrant.longPress = "maximize"
	h.triangle.enabled = false
	h.apply(cfg)
	assert.Equal(t, "maximize", cfg.Quadrant.LongPressAction)
	assert.False(t, cfg.Triangle.Enabled)
	assert.NoError(t, cfg.Validate())

	assert.Error(t, validateInt(1)("0"))
	assert.Error(t, validateInt(0)("x"))
	assert.NoError(t, validateInt(0)(" 5 "))
}

func TestModelTabNavigation(t *testing.T) {
	m, _ := newTestModel(t, nil)
	assert.Equal(t, TabGeneral, m.activeTab)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)
	assert.Equal(t, TabSnap, m.activeTab)

	next, _ = m.Update(runes("3"))
	m = next.(model)
	assert.Equal(t, TabHandles, m.activeTab)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(model)
	assert.Equal(t, TabSnap, m.activeTab)

	// Arrow keys browse the zone preview on the snap tab.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(model)
	assert.Equal(t, 1, m.tabs[TabSnap].cursor)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(model)
	assert.Equal(t, m.tabs[TabSnap].cursorLen-1, m.tabs[TabSnap].cursor)

	assert.Contains(t, m.View(), "Snap")
	assert.Contains(t, m.View(), "daemon not running")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelEditOpensForm(t *testing.T) {
	m, _ := newTestModel(t, nil)
	next, _ := m.Update(runes("e"))
	m = next.(model)
	require.True(t, m.tabs[TabGeneral].editing)
	assert.Contains(t, m.View(), "Editing General")

	// Tab switching is suspended while a form is open.
	next, _ = m.Update(runes("2"))
	m = next.(model)
	assert.Equal(t, TabGeneral, m.activeTab)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)
	assert.False(t, m.tabs[TabGeneral].editing)
}

func TestModelSaveWritesAndReloads(t *testing.T) {
	d := &fakeDaemon{running: true}
	m, path := newTestModel(t, d)
	assert.True(t, m.daemonConnected)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(model)
	require.True(t, m.saveOverlay.Active())
	assert.ErrorIs(t, m.saveOverlay.err, errNoChanges)
	next, _ = m.Update(runes("x"))
	m = next.(model)
	require.False(t, m.saveOverlay.Active())

	m.cfg.Snap.Tolerance = 40
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(model)
	require.Equal(t, stageConfirm, m.saveOverlay.stage)
	assert.Contains(t, m.View(), "Pending Changes")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.True(t, m.saveOverlay.SaveSucceeded())
	assert.True(t, m.saveOverlay.reloaded)
	assert.Equal(t, 1, d.reloads)
	assert.Equal(t, 40, m.original.Snap.Tolerance)

	res, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Config.Snap.Tolerance)
	assert.True(t, res.Config.LiveResize)
}

func TestNewModelRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_width: 0\n"), 0644))
	_, err := newModel(path, nil)
	assert.Error(t, err)
}
