package landing

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/ui/theme"
)

const bannerArt = `
█   █ █   █ █   █ ███ █   █  ███  ████  █   █
██  █ █   █ ██ ██  █  ██  █ █   █ █   █  █ █ 
█ █ █ █   █ █ █ █  █  █ █ █ █████ ████    █  
█  ██ █   █ █   █  █  █  ██ █   █ █  █    █  
█   █  ███  █   █ ███ █   █ █   █ █   █   █  `

const bannerCompact = "N U M I N A R Y"

// bannerWidth is the display width of bannerArt.
const bannerWidth = 45

// RenderBanner draws the title art, or a spaced-out word on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < bannerWidth+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
