package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	TextStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	DimTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	LabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	FieldStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	SelectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	HighlightStyle = lipgloss.NewStyle().PaddingLeft(2)
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingTop(1)
)
