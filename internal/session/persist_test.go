package session

import (
	"context"
	"testing"

	"github.com/abhisek/numinary/internal/problemgen"
	"github.com/abhisek/numinary/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePersister_RoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	p := NewStorePersister(st.KVRepo(), "")

	snap, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load (empty): %v", err)
	}
	if snap.Lessons != nil || snap.History != nil || snap.Progress != (Progress{}) {
		t.Errorf("empty store should load zero snapshot, got %+v", snap)
	}

	want := Snapshot{
		History:  []HistoryEntry{{Expression: "2+2", Result: "4"}},
		Progress: Progress{Completed: 3, Streak: 1},
		Lessons:  []*problemgen.Problem{problemgen.Fallback()},
	}
	if err := p.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.History) != 1 || got.History[0] != want.History[0] {
		t.Errorf("History = %+v", got.History)
	}
	if got.Progress != want.Progress {
		t.Errorf("Progress = %+v", got.Progress)
	}
	if len(got.Lessons) != 1 || *got.Lessons[0] != *want.Lessons[0] {
		t.Errorf("Lessons = %+v", got.Lessons)
	}

	keys, err := st.KVRepo().Keys(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	wantKeys := []string{KeyLessons, KeyHistory, KeyProgress}
	if len(keys) != 3 || keys[0] != wantKeys[0] || keys[1] != wantKeys[1] || keys[2] != wantKeys[2] {
		t.Errorf("keys = %v, want %v", keys, wantKeys)
	}
}

func TestStorePersister_EmptyShelfIsStored(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	p := NewStorePersister(st.KVRepo(), "")

	if err := p.Save(ctx, Snapshot{}); err != nil {
		t.Fatal(err)
	}
	got, err := p.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Lessons == nil {
		t.Error("a saved empty shelf should load as non-nil")
	}
}

func TestStorePersister_Namespaces(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	a := NewStorePersister(st.KVRepo(), NamespacePrefix("chat:1"))
	b := NewStorePersister(st.KVRepo(), NamespacePrefix("chat:2"))

	if err := a.Save(ctx, Snapshot{Progress: Progress{Completed: 7}}); err != nil {
		t.Fatal(err)
	}
	got, err := b.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Progress.Completed != 0 {
		t.Errorf("namespace leak: %+v", got.Progress)
	}
	keys, _ := st.KVRepo().Keys(ctx, "chat:1:")
	if len(keys) != 3 {
		t.Errorf("keys under chat:1: = %v", keys)
	}
}

func TestState_PersistsAcrossRestarts(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	gen := problemgen.NewSeeded(1, nil)

	s1 := New(ctx, Config{Generator: gen, Persister: NewStorePersister(st.KVRepo(), ""), Events: st.EventRepo()})
	shelf := s1.View().Lessons
	s1.AppendToken("3*3")
	if _, err := s1.Calculate(); err != nil {
		t.Fatal(err)
	}
	p := s1.StartPractice(problemgen.TopicArithmetic)
	s1.AppendToken(p.Answer)
	if _, err := s1.SubmitAnswer(); err != nil {
		t.Fatal(err)
	}
	s1.Close(ctx)

	s2 := New(ctx, Config{Generator: gen, Persister: NewStorePersister(st.KVRepo(), ""), Events: st.EventRepo()})
	v := s2.View()
	if len(v.History) != 1 || v.History[0].Result != "9" {
		t.Errorf("History = %+v", v.History)
	}
	if v.Progress != (Progress{Completed: 1, Streak: 1}) {
		t.Errorf("Progress = %+v", v.Progress)
	}
	if len(v.Lessons) != len(shelf) || v.Lessons[0].ID != shelf[0].ID {
		t.Error("lesson shelf should be reloaded, not reseeded")
	}
	if v.Mode != ModeCalculate || v.Buffer != "" {
		t.Error("mode and buffer are not persisted")
	}

	stats, err := st.EventRepo().Stats(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Calculations != 1 || stats.Answers != 1 || stats.CorrectAnswers != 1 || stats.Sessions != 2 {
		t.Errorf("stats = %+v", stats)
	}
}
