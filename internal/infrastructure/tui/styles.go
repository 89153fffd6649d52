package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/pyfuturist/internal/domain"
)

// Styles groups the lipgloss styles of one theme.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Output   lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Pane     lipgloss.Style
}

// StylesFor returns the styles of theme.
func StylesFor(theme domain.Theme) Styles {
	if theme == domain.ThemeLight {
		return Styles{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
			Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			Output:   lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
			Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
			Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
			Pane:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("250")).Padding(0, 1),
		}
	}
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Output:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Pane:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
	}
}
