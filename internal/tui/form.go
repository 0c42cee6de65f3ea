package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/floatwin/internal/config"
)

// editor holds the string-typed values a huh form binds to. Values live on
// the heap so the form keeps pointing at them when the tab is copied.
type editor interface {
	form(width int) *huh.Form
	apply(cfg *config.Config)
}

// formTab is a settings tab with a read-only view and an edit form.
type formTab struct {
	title   string
	cfg     *config.Config
	load    func(*config.Config) editor
	display func(t formTab) []string

	// cursor selects an item in the display view; left and right cycle it
	// when cursorLen is non-zero.
	cursor    int
	cursorLen int

	width  int
	height int

	editing bool
	values  editor
	form    *huh.Form
}

func (t formTab) Update(msg tea.Msg) (formTab, tea.Cmd) {
	if t.editing {
		return t.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			if t.cfg != nil {
				t.startEditing()
				return t, t.form.Init()
			}
		case "left", "h":
			if t.cursorLen > 0 {
				t.cursor = (t.cursor - 1 + t.cursorLen) % t.cursorLen
			}
		case "right", "l":
			if t.cursorLen > 0 {
				t.cursor = (t.cursor + 1) % t.cursorLen
			}
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	}
	return t, nil
}

func (t *formTab) startEditing() {
	w := t.width - 4
	if w < 40 {
		w = 40
	}
	t.values = t.load(t.cfg)
	t.form = t.values.form(w).WithShowHelp(true).WithShowErrors(true)
	t.editing = true
}

func (t formTab) updateEditing(msg tea.Msg) (formTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			t.stopEditing()
			return t, nil
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.values.apply(t.cfg)
		t.stopEditing()
		return t, nil
	}
	return t, cmd
}

func (t *formTab) stopEditing() {
	t.editing = false
	t.values = nil
	t.form = nil
}

func (t formTab) View() string {
	style := lipgloss.NewStyle().
		Width(t.width).
		Height(t.height).
		Padding(1, 2)

	if t.editing && t.form != nil {
		header := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render("Editing "+t.title) +
			dimStyle.Render("  (esc to cancel)")
		return style.Render(header + "\n\n" + t.form.View())
	}

	if t.cfg == nil {
		return style.Foreground(lipgloss.Color("241")).Render("No config loaded")
	}
	lines := append(t.display(t), "", dimStyle.Render("  Press 'e' to edit "+strings.ToLower(t.title)))
	return style.Render(strings.Join(lines, "\n"))
}

func validateInt(min int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if v < min {
			return fmt.Errorf("must be >= %d", min)
		}
		return nil
	}
}

// setInt stores s into dst when it parses; the form validators have
// already rejected anything else.
func setInt(dst *int, s string) {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		*dst = v
	}
}

func intInput(key, title, desc string, value *string, min int) *huh.Input {
	return huh.NewInput().
		Key(key).
		Title(title).
		Description(desc).
		Validate(validateInt(min)).
		Value(value)
}
