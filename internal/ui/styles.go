package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF00FF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	PlayingDotStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	PausedDotStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)

// Track styles.
var (
	TrackStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	SelectedRangeStyle = lipgloss.NewStyle().
				Foreground(ColorCyan)

	DraggedRangeStyle = lipgloss.NewStyle().
				Foreground(ColorMagenta)

	HandleStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	HandleActiveStyle = lipgloss.NewStyle().
				Foreground(ColorMagenta).
				Bold(true)

	PlayheadStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SummaryStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)
)
