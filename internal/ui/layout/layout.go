package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/ui/theme"
)

const (
	MinWidth  = 72
	MinHeight = 22

	CompactWidthThreshold = 100
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Stats is what the header shows on its right side.
type Stats struct {
	Completed int
	Streak    int
}

// IsCompactWidth reports whether side panels should stack vertically.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small\n\nNuminary needs at least %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader draws the top bar: app name, screen title and stats.
func RenderHeader(title string, stats Stats, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("▦ Numinary")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	right := lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("✓ %d", stats.Completed))
	if stats.Streak > 0 {
		right += "   " + lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🔥 %d", stats.Streak))
	}

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return bar(content, width)
}

// RenderFooter draws the key hint bar.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	return bar(" "+strings.Join(parts, "   "), width)
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame stacks header, content and footer, padding content to fill
// the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).MaxHeight(h).Render(content)
	return header + "\n" + body + "\n" + footer
}

// ContentHeight is the height left for a screen between header and footer.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}
