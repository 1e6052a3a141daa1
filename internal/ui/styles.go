// Package ui renders view descriptions to the terminal and provides the
// confirmation surfaces the delete workflow depends on.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#2CD7C7")
	colorMuted   = lipgloss.Color("#5C6A72")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorOn      = lipgloss.Color("#2CD7C7")
	colorOff     = lipgloss.Color("#5C6A72")
)

// Styles are the pre-configured lipgloss styles used by the renderer.
var Styles = struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Muted    lipgloss.Style
	On       lipgloss.Style
	Off      lipgloss.Style
	Disabled lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Box      lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Header:   lipgloss.NewStyle().Bold(true),
	Muted:    lipgloss.NewStyle().Foreground(colorMuted),
	On:       lipgloss.NewStyle().Foreground(colorOn),
	Off:      lipgloss.NewStyle().Foreground(colorOff),
	Disabled: lipgloss.NewStyle().Foreground(colorMuted).Faint(true),
	Status:   lipgloss.NewStyle().Foreground(colorAccent),
	Error:    lipgloss.NewStyle().Foreground(colorError),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1),
}

var warnStyle = lipgloss.NewStyle().Foreground(colorWarning)
