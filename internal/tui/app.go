package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/floatwin/internal/config"
)

// Daemon is the part of the IPC client the editor uses.
type Daemon interface {
	Ping() error
	Reload() error
}

type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Jump key.Binding
	Edit key.Binding
	Save key.Binding
	Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/shift-tab", "switch tabs")),
		Prev: key.NewBinding(key.WithKeys("shift+tab")),
		Jump: key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "jump to tab")),
		Edit: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl-s", "save")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q/ctrl-c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Jump, k.Edit, k.Save, k.Quit}
}

// model is the root bubbletea model.
type model struct {
	savePath string
	cfg      *config.Config
	original *config.Config

	daemon          Daemon
	daemonConnected bool

	activeTab Tab
	tabs      [tabCount]formTab

	saveOverlay SaveOverlay
	keys        keyMap
	help        help.Model

	width  int
	height int
}

func newModel(configPath string, daemon Daemon) (model, error) {
	var (
		res *config.LoadResult
		err error
	)
	savePath := configPath
	if configPath == "" {
		res, err = config.LoadWithSources()
		if err == nil {
			savePath, err = config.DefaultConfigPath()
		}
	} else {
		res, err = config.LoadFromPath(configPath)
	}
	if err != nil {
		return model{}, err
	}

	m := model{
		savePath: savePath,
		cfg:      res.Config,
		original: cloneConfig(res.Config),
		daemon:   daemon,
		keys:     newKeyMap(),
		help:     help.New(),
	}
	if daemon != nil {
		m.daemonConnected = daemon.Ping() == nil
	}
	m.tabs[TabGeneral] = newGeneralTab(m.cfg)
	m.tabs[TabSnap] = newSnapTab(m.cfg)
	m.tabs[TabHandles] = newHandlesTab(m.cfg)
	return m, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		for i := range m.tabs {
			m.tabs[i], _ = m.tabs[i].Update(sub)
		}
		return m, nil
	}

	km, isKey := msg.(tea.KeyMsg)
	if isKey && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The save overlay captures all input while it is open.
	if m.saveOverlay.Active() {
		prev := m.saveOverlay.stage
		m.saveOverlay = m.saveOverlay.Update(msg, m.cfg, m.savePath, m.daemon, m.daemonConnected)
		if prev == stageConfirm && m.saveOverlay.SaveSucceeded() {
			m.original = cloneConfig(m.cfg)
		}
		return m, nil
	}

	if isKey && key.Matches(km, m.keys.Save) {
		m.saveOverlay.Show(m.original, m.cfg)
		return m, nil
	}

	// An open form consumes every other key.
	active := &m.tabs[m.activeTab]
	if active.editing {
		var cmd tea.Cmd
		*active, cmd = active.Update(msg)
		return m, cmd
	}

	if isKey {
		switch {
		case key.Matches(km, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(km, m.keys.Next):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case key.Matches(km, m.keys.Prev):
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(km, m.keys.Jump):
			m.activeTab = Tab(km.Runes[0] - '1')
			return m, nil
		}
	}

	var cmd tea.Cmd
	*active, cmd = active.Update(msg)
	return m, cmd
}

// contentHeight is the height left for tab content: status bar, tab bar
// with its margin and help bar take four lines.
func (m model) contentHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, m.contentHeight())
	} else {
		content = m.tabs[m.activeTab].View()
	}

	helpBar := lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	return lipgloss.JoinVertical(lipgloss.Left,
		renderStatusBar(m.daemonConnected, m.savePath, m.width),
		renderTabBar(m.activeTab, m.width),
		content,
		helpBar,
	)
}
