package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/ui/theme"
)

// TextInput is a single-line prompt with a label.
type TextInput struct {
	Label string
	Model textinput.Model
}

// NewTextInput returns a focused input holding value.
func NewTextInput(label, value string, limit int) TextInput {
	ti := textinput.New()
	ti.SetValue(value)
	ti.CharLimit = limit
	ti.Focus()
	return TextInput{Label: label, Model: ti}
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label+" ") + t.Model.View()
}

func (t TextInput) Value() string { return t.Model.Value() }
