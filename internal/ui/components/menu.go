package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/ui/theme"
)

// MenuItem is one entry of a Menu.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu places the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, it := range items {
		if !it.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// Move shifts the cursor by delta, skipping disabled items.
func (m *Menu) Move(delta int) {
	for i := m.Selected + delta; i >= 0 && i < len(m.Items); i += delta {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Current returns the item under the cursor.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// Update handles up/down/enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch kmsg.String() {
	case "up", "k":
		m.Move(-1)
	case "down", "j":
		m.Move(1)
	case "enter":
		if it, ok := m.Current(); ok && !it.Disabled && it.Action != nil {
			return m, it.Action()
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, it := range m.Items {
		line := "    " + it.Label
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case it.Disabled:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			line = "  ▸ " + it.Label
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		if it.Detail != "" {
			b.WriteString("  " + theme.Hint.Render(it.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
