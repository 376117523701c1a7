// Package styles provides the colour palette and lipgloss styles for
// the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the dashboard colour palette.
type Theme struct {
	// Primary is the accent for the header and highlights.
	Primary lipgloss.Color

	// Secondary marks remote-originated changes.
	Secondary lipgloss.Color

	// Surface backs raised chrome such as the status bar.
	Surface lipgloss.Color

	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// Success indicates completed progress and a healthy sync.
	Success lipgloss.Color

	// Warning indicates queued changes awaiting sync.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color
}

// DefaultTheme returns the ember palette the dashboard ships with.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#F59E0B"), // Ember orange
		Secondary:  lipgloss.Color("#38BDF8"), // Sky blue
		Surface:    lipgloss.Color("#292524"), // Raised warm black
		Foreground: lipgloss.Color("#E7E5E4"), // Warm white
		Muted:      lipgloss.Color("#78716C"), // Stone gray
		Success:    lipgloss.Color("#4ADE80"), // Green
		Warning:    lipgloss.Color("#FACC15"), // Yellow
		Error:      lipgloss.Color("#F87171"), // Red
	}
}

// Styles holds the pre-built lipgloss styles the dashboard renders
// with.
type Styles struct {
	// Title style for the dashboard header.
	Title lipgloss.Style

	// Subtitle style for section headers.
	Subtitle lipgloss.Style

	Normal lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style

	// Success style for completed progress and confirmed sync.
	Success lipgloss.Style

	// Warning style for queued, not-yet-synced changes.
	Warning lipgloss.Style

	// Badge style for change-origin tags in the feed.
	Badge lipgloss.Style

	// StatusBar style for the full-width bottom bar.
	StatusBar lipgloss.Style
}

// NewStyles builds styles from a theme, falling back to the default
// palette when theme is nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Badge: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Surface).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(nil)
}
