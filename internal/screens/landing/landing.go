package landing

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numinary/internal/router"
	"github.com/abhisek/numinary/internal/screen"
	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/ui/components"
	"github.com/abhisek/numinary/internal/ui/layout"
	"github.com/abhisek/numinary/internal/ui/theme"
)

const (
	headline = "Illuminate Your Calculations with Numinary"
	blurb    = "Fast calculations from the keyboard. From simple sums to\nsin, cos and square roots, then practice what you learned."
)

var features = []struct{ title, text string }{
	{"Blazing Fast", "Type an expression, press Enter."},
	{"Learn & Practice", "Arithmetic, linear equations, trigonometry."},
	{"Smart Features", "History, streaks and step-by-step explanations."},
}

// Options wires the landing page to the rest of the app.
type Options struct {
	// Workspace builds the calculator screen that replaces the landing page.
	Workspace func() screen.Screen
	// History builds the history screen.
	History func() screen.Screen
	// OnThemeChange is called after the palette is toggled.
	OnThemeChange func(theme.Palette)
}

// LandingScreen is the first page: title, pitch and a small menu.
type LandingScreen struct {
	opts   Options
	menu   components.Menu
	toasts components.Toasts
}

var (
	_ screen.Screen          = (*LandingScreen)(nil)
	_ screen.KeyHintProvider = (*LandingScreen)(nil)
)

func New(opts Options) *LandingScreen {
	s := &LandingScreen{opts: opts}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Get Started", Action: s.start},
		{Label: "History", Action: s.history, Disabled: opts.History == nil},
		{Label: "Toggle Theme", Action: s.toggleTheme},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *LandingScreen) Init() tea.Cmd { return nil }
func (s *LandingScreen) Title() string { return "" }

func (s *LandingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "t", Description: "Theme"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LandingScreen) start() tea.Cmd {
	ws := s.opts.Workspace()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: ws} }
}

func (s *LandingScreen) history() tea.Cmd {
	return router.Push(s.opts.History())
}

func (s *LandingScreen) toggleTheme() tea.Cmd {
	p := theme.Toggle()
	if s.opts.OnThemeChange != nil {
		s.opts.OnThemeChange(p)
	}
	return s.toasts.Push(session.Notification{Level: session.LevelInfo, Message: session.ThemeMessage(p.Dark)})
}

func (s *LandingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.ToastExpiredMsg:
		s.toasts.Expire(msg.ID)
		return s, nil
	case tea.KeyPressMsg:
		if msg.String() == "t" {
			return s, s.toggleTheme()
		}
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *LandingScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		theme.Title.Render(headline),
		theme.Subtitle.Render(blurb),
		"",
	}

	cards := make([]string, len(features))
	for i, f := range features {
		cards[i] = components.Panel(f.title, theme.Hint.Render(f.text), 24)
	}
	if layout.IsCompactWidth(width) {
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Center, cards...))
	} else {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	sections = append(sections, "", s.menu.View())

	body := lipgloss.Place(width, max(height-s.toasts.Len()*3, 0), lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
	if s.toasts.Len() == 0 {
		return body
	}
	return strings.Join([]string{s.toasts.View(width), body}, "\n")
}
