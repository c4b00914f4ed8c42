package session

import (
	"fmt"
	"sync"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Notification is a short message for the user, shown as a toast.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives notifications. Implementations must not call back
// into the State that notified them.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Queue buffers notifications until the UI drains them.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

// Drain returns and forgets everything queued so far.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// Notification messages.
const (
	MsgCleared           = "Cleared"
	MsgEnterExpression   = "Please enter an expression"
	MsgCalculated        = "Calculation successful!"
	MsgInvalidExpression = "Invalid expression"
	MsgEnterAnswer       = "Please enter an answer"
	MsgCorrect           = "Correct! Great job!"
	MsgInvalidInput      = "Invalid input"
	MsgWrongMode         = "Switch to Calculate mode to evaluate expressions"
)

// IncorrectMessage is the notification for a wrong answer.
func IncorrectMessage(expected string) string {
	return fmt.Sprintf("Incorrect. The answer is %s. Try again!", expected)
}

// StreakMessage is the notification for reaching a streak milestone.
func StreakMessage(streak int) string {
	return fmt.Sprintf("%d in a row! Keep it going!", streak)
}

// ThemeMessage is the notification for a theme switch.
func ThemeMessage(dark bool) string {
	if dark {
		return "Switched to Dark Mode"
	}
	return "Switched to Light Mode"
}
