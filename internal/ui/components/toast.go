package components

import (
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/ui/theme"
)

// MaxToasts is how many notifications are shown at once.
const MaxToasts = 3

// ToastExpiredMsg removes the toast with the given id.
type ToastExpiredMsg struct{ ID int }

type toast struct {
	id int
	n  session.Notification
}

// Toasts is a short stack of notifications that expire on their own.
type Toasts struct {
	items  []toast
	nextID int
}

// ToastDuration is how long a notification stays on screen.
func ToastDuration(n session.Notification) time.Duration {
	switch {
	case strings.HasPrefix(n.Message, "Incorrect."):
		return 5 * time.Second
	case n.Level == session.LevelError, n.Level == session.LevelSuccess && n.Message == session.MsgCorrect:
		return 3 * time.Second
	default:
		return 2 * time.Second
	}
}

// Push shows n and returns the command that expires it.
func (t *Toasts) Push(n session.Notification) tea.Cmd {
	t.nextID++
	id := t.nextID
	t.items = append(t.items, toast{id: id, n: n})
	if len(t.items) > MaxToasts {
		t.items = t.items[len(t.items)-MaxToasts:]
	}
	return tea.Tick(ToastDuration(n), func(time.Time) tea.Msg { return ToastExpiredMsg{ID: id} })
}

// Expire drops the toast with id, if still shown.
func (t *Toasts) Expire(id int) {
	for i, it := range t.items {
		if it.id == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Len is the number of visible toasts.
func (t Toasts) Len() int { return len(t.items) }

// Messages returns the visible messages, oldest first.
func (t Toasts) Messages() []string {
	out := make([]string, len(t.items))
	for i, it := range t.items {
		out[i] = it.n.Message
	}
	return out
}

func (t Toasts) View(width int) string {
	lines := make([]string, 0, len(t.items))
	for _, it := range t.items {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(levelColor(it.n.Level)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(levelColor(it.n.Level)).
			Padding(0, 1).
			Render(it.n.Message))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, lipgloss.JoinVertical(lipgloss.Right, lines...))
}

func levelColor(l session.Level) color.Color {
	switch l {
	case session.LevelSuccess:
		return theme.Success
	case session.LevelError:
		return theme.Error
	}
	return theme.Info
}
