package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/floatwin/internal/config"
)

var errNoChanges = errors.New("no changes to save")

var (
	saveTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	addedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dialogStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

type saveStage int

const (
	stageClosed saveStage = iota
	stageConfirm
	stageDone
)

// SaveOverlay shows the pending config diff and writes the file once the
// user confirms.
type SaveOverlay struct {
	stage    saveStage
	pending  []diffLine
	top      int
	err      error
	reloaded bool
}

func (s SaveOverlay) Active() bool { return s.stage != stageClosed }

// Show diffs current against original. With nothing to save it goes
// straight to the result stage.
func (s *SaveOverlay) Show(original, current *config.Config) {
	*s = SaveOverlay{pending: computeDiffLines(original, current)}
	if len(s.pending) == 0 {
		s.stage, s.err = stageDone, errNoChanges
		return
	}
	s.stage = stageConfirm
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.stage == stageDone && s.err == nil
}

// Update handles keys while the overlay is open. Confirming writes cfg to
// path, then asks a connected daemon to reload.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string, daemon Daemon, connected bool) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	if s.stage == stageDone {
		s.stage = stageClosed
		return s
	}
	if s.stage != stageConfirm {
		return s
	}
	switch km.String() {
	case "esc":
		s.stage = stageClosed
	case "enter", "y":
		s.err = cfg.Save(path)
		if s.err == nil && connected && daemon != nil {
			s.reloaded = daemon.Reload() == nil
		}
		s.stage = stageDone
	case "up", "k":
		s.top = max(s.top-1, 0)
	case "down", "j":
		s.top++
	}
	return s
}

func (s SaveOverlay) View(width, height int) string {
	switch s.stage {
	case stageConfirm:
		return dialog(width, height, clamp(width-8, 30, 80), s.confirmBody(width, height))
	case stageDone:
		return dialog(width, height, clamp(width-8, 30, 60), s.resultBody())
	}
	return ""
}

func (s SaveOverlay) confirmBody(width, height int) string {
	rows := max(height-10, 3)
	textW := max(clamp(width-8, 30, 80)-8, 8)

	from := min(s.top, max(len(s.pending)-rows, 0))
	to := min(from+rows, len(s.pending))

	var b strings.Builder
	b.WriteString(saveTitleStyle.Render("Save Config: Pending Changes"))
	b.WriteString("\n\n")
	for i, dl := range s.pending[from:to] {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(renderDiffLine(dl, textW))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("enter: save  esc: cancel  j/k: scroll"))
	return b.String()
}

func renderDiffLine(dl diffLine, width int) string {
	text := dl.text
	if len(text) > width {
		text = text[:width]
	}
	switch dl.kind {
	case diffAdded:
		return addedStyle.Render("+ " + text)
	case diffRemoved:
		return removedStyle.Render("- " + text)
	}
	return unchangedStyle.Render("  " + text)
}

func (s SaveOverlay) resultBody() string {
	var lines []string
	switch {
	case s.err != nil:
		lines = append(lines, removedStyle.Bold(true).Render("Error: "+s.err.Error()))
	default:
		lines = append(lines, addedStyle.Bold(true).Render("Config saved"))
		if s.reloaded {
			lines = append(lines, addedStyle.Render("Daemon reloaded"))
		}
	}
	lines = append(lines, "", dimStyle.Render("press any key to dismiss"))
	return strings.Join(lines, "\n")
}

// dialog centres a bordered box of width boxW in a width x height area.
func dialog(width, height, boxW int, body string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		dialogStyle.Width(boxW).Render(body))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
