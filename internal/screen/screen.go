package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/numinary/internal/ui/layout"
)

// Screen is one page of the TUI.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the area between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatsProvider lets a screen feed the header's progress counters.
type StatsProvider interface {
	Stats() layout.Stats
}
