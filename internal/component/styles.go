package component

import "github.com/charmbracelet/lipgloss"

var (
	accent     = lipgloss.Color("205")
	muted      = lipgloss.Color("241")
	titleColor = lipgloss.Color("86")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(titleColor)
	mutedStyle = lipgloss.NewStyle().Foreground(muted)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
