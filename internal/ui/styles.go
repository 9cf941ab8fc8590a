package ui

import "github.com/charmbracelet/lipgloss"

// Palette of the kiosk screens.
var (
	colorText    = lipgloss.Color("#93C5FD")
	colorDim     = lipgloss.Color("#64748B")
	colorAccent  = lipgloss.Color("#60A5FA")
	colorWarning = lipgloss.Color("#FBBF24")
	colorDanger  = lipgloss.Color("#EF4444")
	colorOK      = lipgloss.Color("#34D399")
)

type styles struct {
	Title        lipgloss.Style
	Text         lipgloss.Style
	Warning      lipgloss.Style
	Danger       lipgloss.Style
	OK           lipgloss.Style
	Dim          lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Frame        lipgloss.Style
}

func newStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1),
		Text:    lipgloss.NewStyle().Foreground(colorText),
		Warning: lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		Danger:  lipgloss.NewStyle().Foreground(colorDanger).Bold(true),
		OK:      lipgloss.NewStyle().Foreground(colorOK).Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(colorDim),
		Label: lipgloss.NewStyle().
			Foreground(colorDim).
			Width(labelWidth),
		FocusedLabel: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Width(labelWidth),
		Button: lipgloss.NewStyle().
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 2),
		ButtonActive: lipgloss.NewStyle().
			Foreground(colorOK).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorOK).
			Padding(0, 2),
		Frame: lipgloss.NewStyle().Padding(1, 2),
	}
}

const labelWidth = 28
