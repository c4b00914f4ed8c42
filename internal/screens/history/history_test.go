package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/numinary/internal/evaluator"
	"github.com/abhisek/numinary/internal/problemgen"
	"github.com/abhisek/numinary/internal/router"
	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/store"
)

func newState(t *testing.T, events store.EventRepo, exprs ...string) *session.State {
	t.Helper()
	st := session.New(context.Background(), session.Config{
		Generator: problemgen.NewSeeded(7, evaluator.New()),
		Events:    events,
	})
	for _, e := range exprs {
		st.AppendToken(e)
		if _, err := st.Calculate(); err != nil {
			t.Fatalf("Calculate(%q): %v", e, err)
		}
		st.Clear()
	}
	return st
}

func TestHistory_EscPops(t *testing.T) {
	s := New(newState(t, nil), nil, "out.txt")
	s.Init()

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop the screen")
	}
}

func TestHistory_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.txt")
	s := New(newState(t, nil, "1+2", "3*3"), nil, path)

	s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	if !s.exporting {
		t.Fatal("e should open the export prompt")
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should start the export")
	}
	s.Update(cmd())

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "1+2 = 3\n3*3 = 9\n"; got != want {
		t.Errorf("export = %q, want %q", got, want)
	}
	if msgs := s.toasts.Messages(); len(msgs) != 1 || !strings.HasSuffix(msgs[0], path) {
		t.Errorf("toasts = %v", msgs)
	}
}

func TestHistory_ExportCancel(t *testing.T) {
	s := New(newState(t, nil), nil, "out.txt")
	s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	if s.exporting {
		t.Error("esc should close the export prompt")
	}
	if cmd != nil {
		t.Error("esc in the prompt should not pop the screen")
	}
}

func TestHistory_RecentAnswers(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	events := st.EventRepo()
	if err := events.AppendAnswer(context.Background(), store.AnswerEventData{
		Question: "Solve: 3 + 4", Expected: "7", Given: "7", Correct: true,
	}); err != nil {
		t.Fatal(err)
	}

	s := New(newState(t, events, "2+2"), events, "out.txt")
	s.Update(s.Init()())

	if len(s.answers) != 1 {
		t.Fatalf("answers = %d, want 1", len(s.answers))
	}
	view := s.View(100, 30)
	for _, want := range []string{"2+2 = 4", "Solve: 3 + 4"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
