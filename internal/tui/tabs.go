package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabGeneral Tab = iota
	TabSnap
	TabHandles
	tabCount
)

var tabNames = [tabCount]string{"General", "Snap", "Handles"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabNames[t]
}

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 2)
	selectedTabStyle = tabStyle.
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62"))
	barBackground = lipgloss.Color("235")

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(22).
			Align(lipgloss.Right).
			PaddingRight(2)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okDot      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
)

// renderTabBar draws "1:General 2:Snap ..." with active highlighted.
func renderTabBar(active Tab, width int) string {
	gap := lipgloss.NewStyle().Background(barBackground).Render(" ")
	cells := make([]string, 0, 2*int(tabCount))
	for t := TabGeneral; t < tabCount; t++ {
		if t > 0 {
			cells = append(cells, gap)
		}
		style := tabStyle
		if t == active {
			style = selectedTabStyle
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d:%s", t+1, t)))
	}
	return lipgloss.NewStyle().Width(width).MarginBottom(1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

func renderStatusBar(connected bool, path string, width int) string {
	state := dimStyle.Render("●") + " daemon not running"
	if connected {
		state = okDot + " daemon connected"
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(barBackground).
		Foreground(lipgloss.Color("250")).
		Render(state + "  " + path)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// orDefault renders v, or def when v is unset.
func orDefault(v int, def string) string {
	if v == 0 {
		return def
	}
	return strconv.Itoa(v)
}
