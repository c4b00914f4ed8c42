// Package app is the root Bubble Tea model: it owns the router, the
// session and the frame around the active screen.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/numinary/internal/router"
	"github.com/abhisek/numinary/internal/screen"
	"github.com/abhisek/numinary/internal/screens/history"
	"github.com/abhisek/numinary/internal/screens/landing"
	"github.com/abhisek/numinary/internal/screens/workspace"
	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/store"
	"github.com/abhisek/numinary/internal/tutor"
	"github.com/abhisek/numinary/internal/ui/layout"
	"github.com/abhisek/numinary/internal/ui/theme"
)

// KeyTheme stores the selected palette ("dark" or "light").
const KeyTheme = "theme"

// Options holds the dependencies injected into the app.
type Options struct {
	KV        store.KVRepo
	Events    store.EventRepo // may be nil
	Generator session.ProblemGenerator
	Tutor     *tutor.Service // nil disables explanations

	ExportPath string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	state  *session.State
	kv     store.KVRepo
	width  int
	height int
}

// New builds the app and its session. The stored theme is applied.
func New(ctx context.Context, opts Options) *AppModel {
	notices := &session.Queue{}
	state := session.New(ctx, session.Config{
		Generator: opts.Generator,
		Persister: session.NewStorePersister(opts.KV, ""),
		Notifier:  notices,
		Events:    opts.Events,
	})
	notices.Drain()

	m := &AppModel{state: state, kv: opts.KV}
	m.loadTheme(ctx)

	historyScreen := func() screen.Screen {
		return history.New(state, opts.Events, exportPath(opts.ExportPath))
	}
	workspaceScreen := func() screen.Screen {
		return workspace.New(workspace.Options{
			State:         state,
			Notices:       notices,
			Tutor:         opts.Tutor,
			History:       historyScreen,
			OnThemeChange: m.saveTheme,
			ExportPath:    opts.ExportPath,
		})
	}
	m.router = router.New(landing.New(landing.Options{
		Workspace:     workspaceScreen,
		History:       historyScreen,
		OnThemeChange: m.saveTheme,
	}))
	return m
}

func exportPath(p string) string {
	if p == "" {
		return workspace.DefaultExportPath
	}
	return p
}

func (m *AppModel) loadTheme(ctx context.Context) {
	v, ok, err := m.kv.Get(ctx, KeyTheme)
	if err != nil {
		log.Printf("app: load theme: %v", err)
		return
	}
	if ok && string(v) == "light" {
		theme.Apply(theme.LightPalette)
	} else {
		theme.Apply(theme.DarkPalette)
	}
}

func (m *AppModel) saveTheme(p theme.Palette) {
	v := "dark"
	if !p.Dark {
		v = "light"
	}
	if err := m.kv.Set(context.Background(), KeyTheme, []byte(v)); err != nil {
		log.Printf("app: save theme: %v", err)
	}
}

// State returns the session behind the workspace.
func (m *AppModel) State() *session.State { return m.state }

func (m *AppModel) Init() tea.Cmd {
	return nil
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m *AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var stats layout.Stats
	if sp, ok := active.(screen.StatsProvider); ok {
		stats = sp.Stats()
	} else {
		p := m.state.View().Progress
		stats = layout.Stats{Completed: p.Completed, Streak: p.Streak}
	}
	header := layout.RenderHeader(title, stats, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program. Logs go to the file named by
// NUMINARY_DEBUG, or nowhere.
func Run(ctx context.Context, opts Options) error {
	if path := os.Getenv("NUMINARY_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "numinary")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := New(ctx, opts)
	defer m.state.Close(context.WithoutCancel(ctx))

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
