// Package workspace is the calculator screen: keypad, practice problems,
// lessons, history and the tutor panel.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/numinary/internal/problemgen"
	"github.com/abhisek/numinary/internal/router"
	"github.com/abhisek/numinary/internal/screen"
	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/tutor"
	"github.com/abhisek/numinary/internal/ui/components"
	"github.com/abhisek/numinary/internal/ui/layout"
	"github.com/abhisek/numinary/internal/ui/theme"
)

// DefaultExportPath is where ctrl+x writes the history.
const DefaultExportPath = "numinary-history.txt"

var modeCycle = []session.Mode{session.ModeCalculate, session.ModeLearn, session.ModePractice}

// Options are the workspace collaborators. State and Notices are required;
// State must have been built with Notices as its notifier.
type Options struct {
	State   *session.State
	Notices *session.Queue

	// Tutor is nil when no LLM provider is configured.
	Tutor *tutor.Service

	History       func() screen.Screen
	OnThemeChange func(theme.Palette)
	ExportPath    string
}

// WorkspaceScreen implements screen.Screen for the calculator.
type WorkspaceScreen struct {
	opts   Options
	keypad components.Keypad
	toasts components.Toasts

	lessonCursor int
	lastAttempt  string

	thinking    bool
	explanation *tutor.Explanation
	hint        *tutor.Hint
}

var (
	_ screen.Screen          = (*WorkspaceScreen)(nil)
	_ screen.KeyHintProvider = (*WorkspaceScreen)(nil)
	_ screen.StatsProvider   = (*WorkspaceScreen)(nil)
)

func New(opts Options) *WorkspaceScreen {
	if opts.ExportPath == "" {
		opts.ExportPath = DefaultExportPath
	}
	return &WorkspaceScreen{opts: opts}
}

func (s *WorkspaceScreen) Init() tea.Cmd { return nil }

func (s *WorkspaceScreen) Title() string {
	return s.opts.State.View().Mode.Heading()
}

func (s *WorkspaceScreen) Stats() layout.Stats {
	p := s.opts.State.View().Progress
	return layout.Stats{Completed: p.Completed, Streak: p.Streak}
}

func (s *WorkspaceScreen) KeyHints() []layout.KeyHint {
	v := s.opts.State.View()
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "="},
		{Key: "Esc", Description: "Clear"},
		{Key: "Tab", Description: "Mode"},
	}
	switch {
	case v.Mode == session.ModeLearn && v.Active == nil:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Lesson"},
			layout.KeyHint{Key: "Ctrl+N", Description: "New lesson"})
	case v.Mode == session.ModePractice:
		hints = append(hints,
			layout.KeyHint{Key: "Ctrl+T", Description: v.TopicFilter.Title()},
			layout.KeyHint{Key: "Ctrl+N", Description: "Skip"})
	}
	if v.Active != nil && s.opts.Tutor != nil {
		hints = append(hints,
			layout.KeyHint{Key: "Ctrl+E", Description: "Explain"},
			layout.KeyHint{Key: "Ctrl+G", Description: "Hint"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+R", Description: "History"},
		layout.KeyHint{Key: "Ctrl+D", Description: "Theme"})
}

func (s *WorkspaceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.ToastExpiredMsg:
		s.toasts.Expire(msg.ID)
		return s, nil

	case explainDoneMsg:
		s.thinking = false
		if msg.Err != nil {
			return s, s.toast(session.LevelError, tutorError(msg.Err))
		}
		if s.isActive(msg.ProblemID) {
			s.explanation = msg.Explanation
		}
		return s, nil

	case hintDoneMsg:
		s.thinking = false
		if msg.Err != nil {
			return s, s.toast(session.LevelError, tutorError(msg.Err))
		}
		if s.isActive(msg.ProblemID) {
			s.hint = msg.Hint
		}
		return s, nil

	case exportDoneMsg:
		if msg.Err != nil {
			return s, s.toast(session.LevelError, "Export failed: "+msg.Err.Error())
		}
		return s, s.toast(session.LevelSuccess, "History exported to "+msg.Path)

	case tea.KeyPressMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *WorkspaceScreen) handleKey(key string) tea.Cmd {
	st := s.opts.State
	v := st.View()

	switch key {
	case "tab":
		next := modeCycle[0]
		for i, m := range modeCycle {
			if m == v.Mode {
				next = modeCycle[(i+1)%len(modeCycle)]
			}
		}
		st.SwitchMode(next)
		if next == session.ModePractice {
			st.StartPractice(v.TopicFilter)
		}
		s.resetProblemState()
		return nil

	case "ctrl+t":
		filters := problemgen.Filters()
		next := filters[0]
		for i, f := range filters {
			if f == v.TopicFilter {
				next = filters[(i+1)%len(filters)]
			}
		}
		st.SetTopicFilter(next)
		if v.Mode == session.ModePractice {
			st.StartPractice(next)
			s.resetProblemState()
		}
		return s.toast(session.LevelInfo, "Topic: "+next.Title())

	case "ctrl+n":
		switch v.Mode {
		case session.ModePractice:
			st.StartPractice(v.TopicFilter)
			s.resetProblemState()
		case session.ModeLearn:
			st.GenerateLesson()
			s.lessonCursor = len(st.View().Lessons) - 1
		case session.ModeCalculate:
		}
		return nil

	case "up", "down":
		if v.Mode == session.ModeLearn && v.Active == nil && len(v.Lessons) > 0 {
			delta := 1
			if key == "up" {
				delta = -1
			}
			s.lessonCursor = min(max(s.lessonCursor+delta, 0), len(v.Lessons)-1)
		}
		return nil

	case "ctrl+d":
		p := theme.Toggle()
		if s.opts.OnThemeChange != nil {
			s.opts.OnThemeChange(p)
		}
		return s.toast(session.LevelInfo, session.ThemeMessage(p.Dark))

	case "ctrl+r":
		if s.opts.History == nil {
			return nil
		}
		return router.Push(s.opts.History())

	case "ctrl+x":
		return s.export(st.ExportHistory())

	case "ctrl+e":
		return s.explain(v.Active)

	case "ctrl+g":
		attempt := s.lastAttempt
		if attempt == "" {
			attempt = v.Buffer
		}
		return s.requestHint(v.Active, attempt)

	case "enter":
		if v.Mode == session.ModeLearn && v.Active == nil && len(v.Lessons) > 0 {
			s.lessonCursor = min(s.lessonCursor, len(v.Lessons)-1)
			st.StartLesson(v.Lessons[s.lessonCursor])
			s.resetProblemState()
			return nil
		}
	}

	handled, out, err := st.HandleKey(key)
	if !handled {
		return nil
	}
	s.keypad.Press(key)
	if out != nil && out.Problem != nil {
		if out.Correct {
			s.resetProblemState()
		} else {
			s.lastAttempt = out.Expression
		}
	}
	if err != nil && !session.IsInputError(err) {
		s.opts.Notices.Notify(session.Notification{Level: session.LevelError, Message: err.Error()})
	}
	if key == "esc" {
		s.resetProblemState()
	}
	return s.drain()
}

// drain moves queued notifications into toasts.
func (s *WorkspaceScreen) drain() tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range s.opts.Notices.Drain() {
		cmds = append(cmds, s.toasts.Push(n))
	}
	return tea.Batch(cmds...)
}

func (s *WorkspaceScreen) toast(level session.Level, msg string) tea.Cmd {
	return s.toasts.Push(session.Notification{Level: level, Message: msg})
}

func (s *WorkspaceScreen) resetProblemState() {
	s.lastAttempt = ""
	s.explanation = nil
	s.hint = nil
}

func (s *WorkspaceScreen) isActive(id string) bool {
	p := s.opts.State.View().Active
	return p != nil && p.ID == id
}

func (s *WorkspaceScreen) explain(p *problemgen.Problem) tea.Cmd {
	if cmd := s.tutorReady(p); cmd != nil {
		return cmd
	}
	s.thinking = true
	svc := s.opts.Tutor
	return func() tea.Msg {
		e, err := svc.Explain(context.Background(), p)
		return explainDoneMsg{ProblemID: p.ID, Explanation: e, Err: err}
	}
}

func (s *WorkspaceScreen) requestHint(p *problemgen.Problem, attempt string) tea.Cmd {
	if cmd := s.tutorReady(p); cmd != nil {
		return cmd
	}
	s.thinking = true
	svc := s.opts.Tutor
	return func() tea.Msg {
		h, err := svc.Hint(context.Background(), p, attempt)
		return hintDoneMsg{ProblemID: p.ID, Hint: h, Err: err}
	}
}

// tutorReady returns a toast command when the tutor cannot be asked.
func (s *WorkspaceScreen) tutorReady(p *problemgen.Problem) tea.Cmd {
	switch {
	case s.opts.Tutor == nil:
		return s.toast(session.LevelInfo, "No LLM provider configured")
	case p == nil:
		return s.toast(session.LevelInfo, "Start a lesson or practice first")
	case s.thinking:
		return s.toast(session.LevelInfo, "Still thinking...")
	}
	return nil
}

func (s *WorkspaceScreen) export(text string) tea.Cmd {
	path := s.opts.ExportPath
	return func() tea.Msg {
		err := os.WriteFile(path, []byte(text+"\n"), 0o644)
		return exportDoneMsg{Path: path, Err: err}
	}
}

func tutorError(err error) string {
	if errors.Is(err, tutor.ErrHintRevealsAnswer) {
		return "No hint this time, try Ctrl+E for the full solution"
	}
	return fmt.Sprintf("Tutor unavailable: %v", err)
}
