package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/ui/theme"
)

// ProgressBar draws a labelled bar filled to Percent (0..1).
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int
}

func (p ProgressBar) View() string {
	label := ""
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Label) + " "
	}
	w := max(p.Width-lipgloss.Width(label), 4)
	filled := min(max(int(float64(w)*p.Percent), 0), w)
	return label +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", w-filled))
}
