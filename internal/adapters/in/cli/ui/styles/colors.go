// Package styles holds the terminal styles used by the senzup CLI.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive colors keep output readable on light terminals.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#007a4a", Dark: "#00ff88"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006d8f", Dark: "#00ccff"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#ff4444"}

	ColorText      = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#e5e5e5"}
	ColorTextMuted = lipgloss.Color("#737373")
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#d4d4d4", Dark: "#404040"}
)
