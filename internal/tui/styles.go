package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title  lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	absent lipgloss.Style
	call   lipgloss.Style
	alert  lipgloss.Style
	help   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#C0392B")).
			Padding(0, 1),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		err:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		label: lipgloss.NewStyle().
			Bold(true).
			Width(28).
			Foreground(lipgloss.Color("245")),
		value:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		absent: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		call:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		alert: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2),
		help: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
