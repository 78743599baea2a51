package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the pre-configured lipgloss styles for the chat view.
type Styles struct {
	// Title styles the header bar.
	Title lipgloss.Style

	// User styles the user message label.
	User lipgloss.Style

	// Assistant styles the assistant message label.
	Assistant lipgloss.Style

	// Source styles cited passage lines.
	Source lipgloss.Style

	// Muted styles secondary text and the help line.
	Muted lipgloss.Style

	// Error styles error messages.
	Error lipgloss.Style

	// Input frames the question box.
	Input lipgloss.Style
}

// DefaultStyles returns the default chat styling.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1),
		User: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#06B6D4")),
		Assistant: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E3A1")),
		Source: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")).
			Italic(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}
