package tui

import "github.com/charmbracelet/lipgloss"

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary = lipgloss.Color("39")  // Blue
	ColorSuccess = lipgloss.Color("34")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SpinnerStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
)

// Symbols for visual feedback.
const (
	SymbolCheck      = "✓"
	SymbolCross      = "✗"
	SymbolArrowRight = "→"
	SymbolBullet     = "•"
)
