// Package ui provides terminal presentation for settingsgen: styled output,
// a progress spinner, markdown rendering and the interactive config wizard.
// Every component degrades to plain text when no terminal is attached.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds hex colors used across components.
type Palette struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
	Border    string
}

// Theme carries the palette and whether color output is disabled.
type Theme struct {
	Colors  Palette
	NoColor bool
}

// DefaultPalette returns the settingsgen brand palette.
func DefaultPalette() Palette {
	return Palette{
		Primary:   "#DA7756",
		Secondary: "#7C3AED",
		Success:   "#10B981",
		Warning:   "#F59E0B",
		Error:     "#EF4444",
		Muted:     "#9CA3AF",
		Border:    "#4B5563",
	}
}

// NewTheme creates a Theme with the default palette.
func NewTheme(noColor bool) *Theme {
	return &Theme{Colors: DefaultPalette(), NoColor: noColor}
}

func (t *Theme) style(hex string) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

func (t *Theme) render(hex, s string) string {
	if t.NoColor {
		return s
	}
	return t.style(hex).Render(s)
}

// Primary renders s in the primary color.
func (t *Theme) Primary(s string) string { return t.render(t.Colors.Primary, s) }

// Muted renders s in the muted color.
func (t *Theme) Muted(s string) string { return t.render(t.Colors.Muted, s) }

// Status symbols.
func (t *Theme) SymSuccess() string { return t.render(t.Colors.Success, "✓") }
func (t *Theme) SymError() string   { return t.render(t.Colors.Error, "✗") }
func (t *Theme) SymWarning() string { return t.render(t.Colors.Warning, "!") }
func (t *Theme) SymPending() string { return t.render(t.Colors.Muted, "○") }

// Card renders lines inside a rounded border box under a bold title.
// With colors disabled the title and lines are printed without a border.
func (t *Theme) Card(title string, lines ...string) string {
	body := title
	if len(lines) > 0 {
		body += "\n\n" + strings.Join(lines, "\n")
	}
	if t.NoColor {
		return body
	}

	titled := t.style(t.Colors.Primary).Bold(true).Render(title)
	if len(lines) > 0 {
		titled += "\n\n" + strings.Join(lines, "\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Colors.Border)).
		Padding(0, 2).
		Render(titled)
}
