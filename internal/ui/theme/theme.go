package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is a named set of colors. Styles below are rebuilt from the
// active palette by Apply.
type Palette struct {
	Name string
	Dark bool

	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Info      color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

// DarkPalette is teal on deep gray.
var DarkPalette = Palette{
	Name:      "Dark",
	Dark:      true,
	Primary:   lipgloss.Color("#2DD4BF"),
	Secondary: lipgloss.Color("#22D3EE"),
	Accent:    lipgloss.Color("#F59E0B"),
	Success:   lipgloss.Color("#22C55E"),
	Error:     lipgloss.Color("#F43F5E"),
	Info:      lipgloss.Color("#60A5FA"),
	Text:      lipgloss.Color("#F3F4F6"),
	TextDim:   lipgloss.Color("#9CA3AF"),
	BgCard:    lipgloss.Color("#1F2937"),
	Border:    lipgloss.Color("#374151"),
}

// LightPalette is teal on light gray.
var LightPalette = Palette{
	Name:      "Light",
	Primary:   lipgloss.Color("#0D9488"),
	Secondary: lipgloss.Color("#0891B2"),
	Accent:    lipgloss.Color("#D97706"),
	Success:   lipgloss.Color("#15803D"),
	Error:     lipgloss.Color("#BE123C"),
	Info:      lipgloss.Color("#2563EB"),
	Text:      lipgloss.Color("#111827"),
	TextDim:   lipgloss.Color("#4B5563"),
	BgCard:    lipgloss.Color("#E5E7EB"),
	Border:    lipgloss.Color("#9CA3AF"),
}

// Active colors.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Info      color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
)

var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style

	Card lipgloss.Style

	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style

	Key       lipgloss.Style
	KeyActive lipgloss.Style
)

var current Palette

func init() { Apply(DarkPalette) }

// Current returns the active palette.
func Current() Palette { return current }

// Toggle switches between the dark and light palettes and returns the new one.
func Toggle() Palette {
	if current.Dark {
		Apply(LightPalette)
	} else {
		Apply(DarkPalette)
	}
	return current
}

// Apply makes p the active palette. Not safe for concurrent use; call it
// from the Bubble Tea update loop only.
func Apply(p Palette) {
	current = p
	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	Success, Error, Info = p.Success, p.Error, p.Info
	Text, TextDim, BgCard, Border = p.Text, p.TextDim, p.BgCard, p.Border

	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body = lipgloss.NewStyle().Foreground(Text)
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)

	Key = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Width(5).
		Align(lipgloss.Center)
	KeyActive = Key.BorderForeground(Primary).Foreground(Primary).Bold(true)
}
