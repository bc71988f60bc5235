package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#AB8BFF")
	mutedColor  = lipgloss.Color("#A8B5DB")
	lightColor  = lipgloss.Color("#CECEFB")

	taglineStyle = lipgloss.NewStyle().
			Foreground(lightColor).
			Bold(true).
			MarginBottom(1)

	highlightStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	slideStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			MarginTop(1)

	metaStyle = lipgloss.NewStyle().Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1)

	activeDot   = lipgloss.NewStyle().Foreground(accentColor).Render("●")
	inactiveDot = lipgloss.NewStyle().Foreground(mutedColor).Render("○")
)
