package cli

import "github.com/charmbracelet/lipgloss"

// Base ANSI palette, so the colors follow the user's terminal theme.
var (
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
	colorWhite   = lipgloss.Color("7")
)

// Styles
var (
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	infoStyle     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	headlineStyle = lipgloss.NewStyle().Foreground(colorMagenta).Bold(true).Underline(true)
	promptStyle   = lipgloss.NewStyle().Bold(true)
	inputTitle    = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	choiceStyle   = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	orderingStyle = lipgloss.NewStyle().Foreground(colorWhite)
	borderStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)
