package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/ui/theme"
)

// Panel draws body inside a rounded card with a title line.
func Panel(title, body string, width int) string {
	head := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(title)
	return theme.Card.Width(width).Render(head + "\n" + body)
}
