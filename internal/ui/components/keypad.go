package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/ui/theme"
)

// KeypadRows is the on-screen calculator layout. Labels are the key names
// ResolveKey understands, except "=" which stands for enter.
var KeypadRows = [][]string{
	{"(", ")", "^", "/"},
	{"7", "8", "9", "*"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
	{"0", ".", "⌫", "="},
}

var functionRow = []string{"s sin", "c cos", "l log", "q sqrt"}

// Keypad renders the calculator keys, highlighting the last pressed one.
type Keypad struct {
	Pressed string
}

// Press records key (a terminal key name) for highlighting.
func (k *Keypad) Press(key string) {
	switch key {
	case "enter":
		k.Pressed = "="
	case "backspace":
		k.Pressed = "⌫"
	default:
		k.Pressed = key
	}
}

func (k Keypad) View() string {
	rows := make([]string, 0, len(KeypadRows)+1)
	for _, row := range KeypadRows {
		cells := make([]string, len(row))
		for i, label := range row {
			style := theme.Key
			if label == k.Pressed {
				style = theme.KeyActive
			}
			cells[i] = style.Render(label)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	rows = append(rows, theme.Hint.Render(strings.Join(functionRow, "  ")))
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}
