package ui

import "github.com/charmbracelet/lipgloss"

// Palette holds the lipgloss styles shared across views.
type Palette struct {
	title   lipgloss.Style
	success lipgloss.Style
	err     lipgloss.Style
	warning lipgloss.Style
	help    lipgloss.Style
}

func NewStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func NewBold(color string) lipgloss.Style {
	return NewStyle(color).Bold(true)
}

// NewPalette creates the default style set used by the TUI.
func NewPalette(title, success, errc, warning, help string) Palette {
	return Palette{
		title:   NewBold(title).MarginBottom(1),
		success: NewStyle(success),
		err:     NewStyle(errc),
		warning: NewStyle(warning),
		help:    NewStyle(help),
	}
}

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")
