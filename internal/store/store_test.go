package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, dialect.SQLite, s.Dialect())
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "numinary.db")
	require.NoError(t, EnsureDir(path))

	s, err := Open(path)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.KVRepo().Set(ctx, "k", []byte(`{"a":1}`)))
	require.NoError(t, s.Close())

	// Reopening runs the migration again over an existing schema.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	raw, ok, err := s.KVRepo().Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode reports "memory" for in-memory databases; it is
		// covered by TestOpen_FileDatabase.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://user@localhost/numinary"))
	assert.True(t, IsPostgresDSN("postgresql://localhost/numinary?sslmode=disable"))
	assert.False(t, IsPostgresDSN("/tmp/numinary.db"))
	assert.False(t, IsPostgresDSN("file::memory:"))
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("NUMINARY_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "numinary", "numinary.db"), p)
	assert.DirExists(t, filepath.Join(dir, "numinary"))

	custom := filepath.Join(dir, "custom", "x.db")
	t.Setenv("NUMINARY_DB", custom)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, custom, p)
	assert.DirExists(t, filepath.Join(dir, "custom"))
}

func TestKVRepo(t *testing.T) {
	s := openTestStore(t)
	kv := s.KVRepo()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "calcHistory")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report ok=false")

	require.NoError(t, kv.Set(ctx, "calcHistory", []byte(`["1 + 1 = 2"]`)))
	require.NoError(t, kv.Set(ctx, "calcHistory", []byte(`["1 + 1 = 2","2 * 3 = 6"]`)))

	raw, ok, err := kv.Get(ctx, "calcHistory")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["1 + 1 = 2","2 * 3 = 6"]`, string(raw))

	require.NoError(t, kv.Delete(ctx, "calcHistory"))
	require.NoError(t, kv.Delete(ctx, "calcHistory"), "deleting an absent key")
	_, ok, err = kv.Get(ctx, "calcHistory")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVRepo_RejectsInvalidJSON(t *testing.T) {
	s := openTestStore(t)
	err := s.KVRepo().Set(context.Background(), "k", []byte("{not json"))
	assert.Error(t, err)
}

func TestKVRepo_Prefixes(t *testing.T) {
	s := openTestStore(t)
	kv := s.KVRepo()
	ctx := context.Background()

	for _, k := range []string{"chat:1:lessons", "chat:1:calcHistory", "chat:2:lessons", "lessons"} {
		require.NoError(t, kv.Set(ctx, k, []byte(`{}`)))
	}

	keys, err := kv.Keys(ctx, "chat:1:")
	require.NoError(t, err)
	assert.Equal(t, []string{"chat:1:calcHistory", "chat:1:lessons"}, keys)

	all, err := kv.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	n, err := kv.DeletePrefix(ctx, "chat:1:")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	all, err = kv.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"chat:2:lessons", "lessons"}, all)
}

func TestJSONHelpers(t *testing.T) {
	s := openTestStore(t)
	kv := s.KVRepo()
	ctx := context.Background()

	type progress struct {
		Completed int `json:"completed"`
		Streak    int `json:"streak"`
	}

	var got progress
	ok, err := GetJSON(ctx, kv, "lessons", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetJSON(ctx, kv, "lessons", progress{Completed: 3, Streak: 2}))
	ok, err = GetJSON(ctx, kv, "lessons", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, progress{Completed: 3, Streak: 2}, got)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.seq.Next(ctx)
	require.NoError(t, err)
	second, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestSequenceCounter_Concurrent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var (
		mu   sync.Mutex
		seen = map[int64]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				n, err := s.seq.Next(ctx)
				if err != nil {
					t.Errorf("Next: %v", err)
					return
				}
				mu.Lock()
				if seen[n] {
					t.Errorf("duplicate sequence %d", n)
				}
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}

func TestEventRepo_Calculations(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendCalculation(ctx, CalculationEventData{Expression: "2+2", Result: "4", Success: true}))
	require.NoError(t, repo.AppendCalculation(ctx, CalculationEventData{Expression: "2+", Success: false}))
	require.NoError(t, repo.AppendCalculation(ctx, CalculationEventData{Namespace: "chat:7", Expression: "3*3", Result: "9", Success: true}))

	events, err := repo.QueryCalculations(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "3*3", events[0].Expression, "newest first")
	assert.Greater(t, events[0].Sequence, events[1].Sequence)
	assert.False(t, events[1].Success)
	assert.WithinDuration(t, time.Now(), events[2].Timestamp, time.Minute)

	limited, err := repo.QueryCalculations(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	local, err := repo.QueryCalculations(ctx, QueryOpts{Namespace: strPtr("")})
	require.NoError(t, err)
	assert.Len(t, local, 2)

	after, err := repo.QueryCalculations(ctx, QueryOpts{After: events[1].Sequence})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "3*3", after[0].Expression)
}

func TestEventRepo_AnswersAndStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "s1", Mode: "practice", ProblemID: "p1", Topic: "arithmetic", Question: "Solve: 2 + 2", Expected: "4", Given: "4", Correct: true, Streak: 1},
		{SessionID: "s1", Mode: "practice", ProblemID: "p2", Topic: "arithmetic", Question: "Solve: 3 * 3", Expected: "9", Given: "6", Correct: false},
		{SessionID: "s1", Mode: "learn", ProblemID: "p3", Topic: "trigonometry", Question: "Find: sin(30°)", Expected: "0.5000", Given: "0.5", Correct: true, Streak: 1},
		{Namespace: "chat:1", SessionID: "s2", Mode: "practice", ProblemID: "p4", Topic: "algebra", Question: "Solve for x: 2x + 1 = 5", Expected: "2", Given: "2", Correct: true, Streak: 1},
	}
	for _, a := range answers {
		require.NoError(t, repo.AppendAnswer(ctx, a))
	}
	require.NoError(t, repo.AppendSession(ctx, SessionEventData{SessionID: "s1", Action: "start"}))
	require.NoError(t, repo.AppendSession(ctx, SessionEventData{SessionID: "s1", Action: "end", Completed: 2, DurationSecs: 60}))
	require.NoError(t, repo.AppendCalculation(ctx, CalculationEventData{Expression: "1/", Success: false}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "explain", Success: true}))

	got, err := repo.QueryAnswers(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "Solve for x: 2x + 1 = 5", got[0].Question)
	assert.Equal(t, "chat:1", got[0].Namespace)
	assert.Equal(t, "Find: sin(30°)", got[1].Question)

	st, err := repo.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Answers)
	assert.Equal(t, 3, st.CorrectAnswers)
	assert.Equal(t, 1, st.Sessions)
	assert.Equal(t, 1, st.Calculations)
	assert.Equal(t, 1, st.FailedCalculations)
	assert.Equal(t, 1, st.LLMRequests)
	require.Len(t, st.Topics, 3)
	assert.Equal(t, TopicStats{Topic: "algebra", Answered: 1, Correct: 1}, st.Topics[0])
	assert.Equal(t, TopicStats{Topic: "arithmetic", Answered: 2, Correct: 1}, st.Topics[1])
	assert.InDelta(t, 0.5, st.Topics[1].Accuracy(), 1e-9)

	local, err := repo.Stats(ctx, strPtr(""))
	require.NoError(t, err)
	assert.Equal(t, 3, local.Answers)
	assert.Len(t, local.Topics, 2)
}

func TestStats_Empty(t *testing.T) {
	s := openTestStore(t)
	st, err := s.EventRepo().Stats(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, st.Answers)
	assert.Zero(t, st.CorrectAnswers)
	assert.Empty(t, st.Topics)
}

func TestEventRepo_LLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "anthropic",
			Model:        "claude",
			Purpose:      "explain",
			InputTokens:  100 + i,
			OutputTokens: 50,
			LatencyMs:    int64(200 * i),
			Success:      i != 1,
			ErrorMessage: fmt.Sprintf("err-%d", i),
		}))
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 102, events[0].InputTokens)
	assert.EqualValues(t, 400, events[0].LatencyMs)
	assert.False(t, events[1].Success)

	one, err := repo.GetLLMEvent(ctx, events[1].ID)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "err-1", one.ErrorMessage)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.KVRepo().Set(ctx, "lessons", []byte(`{"completed":1,"streak":1}`)))
	require.NoError(t, s.EventRepo().AppendCalculation(ctx, CalculationEventData{Expression: "1+1", Result: "2", Success: true}))
	before, err := s.seq.Next(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	keys, err := s.KVRepo().Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	st, err := s.EventRepo().Stats(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, st.Calculations)

	after, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Greater(t, after, before, "sequence keeps counting across resets")
}
