// Package tui holds the small interactive surfaces of odsctl: the secret
// prompt and the destructive-action confirmation dialog.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorDanger  = lipgloss.Color("#EF4444") // Red
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorBorder  = lipgloss.Color("#374151") // Dark gray
)

// Shared styles.
var (
	promptLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	promptHintStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 2)

	buttonFocusedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorDanger).
				Padding(0, 2)
)
