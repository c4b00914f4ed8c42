package history

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/router"
	"github.com/abhisek/numinary/internal/screen"
	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/store"
	"github.com/abhisek/numinary/internal/ui/components"
	"github.com/abhisek/numinary/internal/ui/layout"
	"github.com/abhisek/numinary/internal/ui/theme"
)

// recentLimit is how many answer events are listed.
const recentLimit = 20

type answersLoadedMsg struct {
	Answers []store.AnswerEvent
	Err     error
}

type exportedMsg struct {
	Path string
	Err  error
}

// HistoryScreen lists the calculation history and recent answers, and
// exports the history to a text file.
type HistoryScreen struct {
	state      *session.State
	events     store.EventRepo
	exportPath string

	answers  []store.AnswerEvent
	selected int
	loaded   bool
	errMsg   string

	exporting bool
	input     components.TextInput
	toasts    components.Toasts
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

// New creates a HistoryScreen. events may be nil.
func New(state *session.State, events store.EventRepo, exportPath string) *HistoryScreen {
	return &HistoryScreen{state: state, events: events, exportPath: exportPath}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.events == nil {
		s.loaded = true
		return nil
	}
	events := s.events
	return func() tea.Msg {
		local := ""
		answers, err := events.QueryAnswers(context.Background(), store.QueryOpts{Limit: recentLimit, Namespace: &local})
		return answersLoadedMsg{Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.exporting {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "e", Description: "Export"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.answers = msg.Answers
		}
		s.loaded = true
		return s, nil

	case exportedMsg:
		if msg.Err != nil {
			return s, s.toasts.Push(session.Notification{Level: session.LevelError, Message: "Export failed: " + msg.Err.Error()})
		}
		return s, s.toasts.Push(session.Notification{Level: session.LevelSuccess, Message: "History exported to " + msg.Path})

	case components.ToastExpiredMsg:
		s.toasts.Expire(msg.ID)
		return s, nil

	case tea.KeyPressMsg:
		if s.exporting {
			return s.handleExportKey(msg)
		}
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.state.View().History)-1 {
				s.selected++
			}
		case "e", "ctrl+x":
			s.exporting = true
			s.input = components.NewTextInput("File:", s.exportPath, 255)
		}
		return s, nil
	}

	if s.exporting {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *HistoryScreen) handleExportKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.exporting = false
		return s, nil
	case "enter":
		s.exporting = false
		path := strings.TrimSpace(s.input.Value())
		if path == "" {
			return s, nil
		}
		text := s.state.ExportHistory()
		return s, func() tea.Msg {
			return exportedMsg{Path: path, Err: os.WriteFile(path, []byte(text+"\n"), 0o644)}
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *HistoryScreen) View(width, height int) string {
	var sections []string
	if s.toasts.Len() > 0 {
		sections = append(sections, s.toasts.View(width))
	}

	panelWidth := min(width-4, 60)
	sections = append(sections, components.Panel("Calculations", s.renderHistory(), panelWidth))
	if s.exporting {
		sections = append(sections, s.input.View())
	}
	sections = append(sections, components.Panel("Recent answers", s.renderAnswers(), panelWidth))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s *HistoryScreen) renderHistory() string {
	history := s.state.View().History
	if len(history) == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("No calculations yet.")
	}
	var b strings.Builder
	for i, e := range history {
		line := fmt.Sprintf("%2d. %s", i+1, e.String())
		if i == s.selected {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (s *HistoryScreen) renderAnswers() string {
	switch {
	case s.errMsg != "":
		return lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + s.errMsg)
	case !s.loaded:
		return theme.Hint.Render("Loading...")
	case len(s.answers) == 0:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("No answers yet. Start practicing!")
	}

	lines := make([]string, len(s.answers))
	for i, a := range s.answers {
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		lines[i] = fmt.Sprintf("%s %s  %s  %s",
			mark,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(a.Timestamp.Format("Jan 02 15:04")),
			a.Question,
			theme.Hint.Render("→ "+a.Given))
	}
	return strings.Join(lines, "\n")
}
