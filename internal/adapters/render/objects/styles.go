package objects

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header   lipgloss.Style
	meta     lipgloss.Style
	index    lipgloss.Style
	verb     lipgloss.Style
	names    lipgloss.Style
	selected lipgloss.Style
	empty    lipgloss.Style
	errTitle lipgloss.Style
	errBody  lipgloss.Style
	source   lipgloss.Style
}

func newStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		index:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		verb:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		names:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		empty:    lipgloss.NewStyle().Faint(true),
		errTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		errBody:  lipgloss.NewStyle().Foreground(lipgloss.Color("210")),
		source:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
