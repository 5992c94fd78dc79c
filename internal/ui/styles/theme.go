package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/cleanser/internal/scanner"
)

// Theme colors
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#A78BFA")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Danger    = lipgloss.Color("#EF4444")
	Info      = lipgloss.Color("#3B82F6")
	Muted     = lipgloss.Color("#6B7280")
	TextDim   = lipgloss.Color("#9CA3AF")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(Info)

	FileSizeStyle = lipgloss.NewStyle().
			Foreground(Warning)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	safeStyle     = lipgloss.NewStyle().Foreground(Success)
	moderateStyle = lipgloss.NewStyle().Foreground(Warning)
	riskyStyle    = lipgloss.NewStyle().Foreground(Danger).Bold(true)
)

// RiskStyle returns the style for a risk level
func RiskStyle(risk scanner.Risk) lipgloss.Style {
	switch risk {
	case scanner.RiskSafe:
		return safeStyle
	case scanner.RiskModerate:
		return moderateStyle
	default:
		return riskyStyle
	}
}
