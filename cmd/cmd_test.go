package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the root command with args and returns stdout. Flag values
// are reset first since the command tree is package-global.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "numinary.db")
}

func TestEval(t *testing.T) {
	out, err := execute(t, "eval", "2 * (3 + 4)")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if strings.TrimSpace(out) != "14" {
		t.Errorf("output = %q, want 14", out)
	}
}

func TestEval_Invalid(t *testing.T) {
	if _, err := execute(t, "eval", "2 +"); err == nil {
		t.Error("expected error for incomplete expression")
	}
}

func TestProblems(t *testing.T) {
	out, err := execute(t, "problems", "--seed", "7", "-t", "algebra", "-n", "5")
	if err != nil {
		t.Fatalf("problems: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want header + 5:\n%s", len(lines), out)
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, "algebra") || !strings.HasSuffix(l, "ok") {
			t.Errorf("unexpected row %q", l)
		}
	}
}

func TestProblems_UnknownTopic(t *testing.T) {
	if _, err := execute(t, "problems", "-t", "geometry"); err == nil {
		t.Error("expected error for unknown topic")
	}
}

func TestHistory(t *testing.T) {
	db := tempDB(t)
	s, err := store.Open(db)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	history := []session.HistoryEntry{
		{Expression: "2+2", Result: "4"},
		{Expression: "6*7", Result: "42"},
	}
	if err := store.SetJSON(context.Background(), s.KVRepo(), session.KeyHistory, history); err != nil {
		t.Fatalf("seed history: %v", err)
	}
	s.Close()

	out, err := execute(t, "history", "--db", db)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if out != "2+2 = 4\n6*7 = 42\n" {
		t.Errorf("output = %q", out)
	}

	file := filepath.Join(t.TempDir(), "out.txt")
	if _, err := execute(t, "history", "--db", db, "--export="+file); err != nil {
		t.Fatalf("history --export: %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != "2+2 = 4\n6*7 = 42\n" {
		t.Errorf("export = %q", data)
	}
}

func TestHistory_Empty(t *testing.T) {
	out, err := execute(t, "history", "--db", tempDB(t))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.TrimSpace(out) != "No calculations yet." {
		t.Errorf("output = %q", out)
	}
}

func TestReset_RequiresConfirmation(t *testing.T) {
	db := tempDB(t)
	if _, err := execute(t, "reset", "--db", db); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("err = %v, want confirmation error", err)
	}
	out, err := execute(t, "reset", "--db", db, "--yes")
	if err != nil {
		t.Fatalf("reset --yes: %v", err)
	}
	if !strings.Contains(out, "All data deleted.") {
		t.Errorf("output = %q", out)
	}
}

func TestResetChat(t *testing.T) {
	db := tempDB(t)
	s, err := store.Open(db)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	for _, k := range []string{"chat:5:calcHistory", "chat:5:lessons", "chat:6:lessons", "calcHistory"} {
		if err := s.KVRepo().Set(ctx, k, []byte(`[]`)); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
	s.Close()

	if _, err := execute(t, "reset", "--db", db, "--chat", "5"); err == nil {
		t.Fatal("expected confirmation error")
	}
	out, err := execute(t, "reset", "--db", db, "--chat", "5", "--yes")
	if err != nil {
		t.Fatalf("reset --chat: %v", err)
	}
	if !strings.Contains(out, "Deleted 2 keys for chat 5.") {
		t.Errorf("output = %q", out)
	}

	out, err = execute(t, "stats", "--db", db, "--all")
	if err != nil {
		t.Fatalf("stats --all: %v", err)
	}
	if !strings.Contains(out, "Bot chats:     1") {
		t.Errorf("stats output:\n%s", out)
	}
}

func TestLLMStatsAndView(t *testing.T) {
	db := tempDB(t)
	s, err := store.Open(db)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	for range 2 {
		err := s.EventRepo().AppendLLMRequest(ctx, store.LLMRequestEventData{
			Provider:     "anthropic",
			Model:        "claude-haiku-4-5",
			Purpose:      "explain",
			InputTokens:  500,
			OutputTokens: 100,
			Success:      true,
			RequestBody:  `{"q":"Solve: 3 + 4"}`,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	s.Close()

	out, err := execute(t, "llm", "stats", "--db", db)
	if err != nil {
		t.Fatalf("llm stats: %v", err)
	}
	if !strings.Contains(out, "claude-haiku-4-5") || !strings.Contains(out, "$0.0020") {
		t.Errorf("stats output missing model or cost:\n%s", out)
	}

	out, err = execute(t, "llm", "view", "1", "--db", db)
	if err != nil {
		t.Fatalf("llm view: %v", err)
	}
	if !strings.Contains(out, `{"q":"Solve: 3 + 4"}`) || !strings.Contains(out, "(not captured)") {
		t.Errorf("view output:\n%s", out)
	}

	if _, err := execute(t, "llm", "view", "99", "--db", db); err == nil {
		t.Error("expected error for missing event")
	}
}

func TestAggregateUsage(t *testing.T) {
	events := []store.LLMRequestEvent{
		{LLMRequestEventData: store.LLMRequestEventData{Model: "a", InputTokens: 1, OutputTokens: 2}},
		{LLMRequestEventData: store.LLMRequestEventData{Model: "b", InputTokens: 3}},
		{LLMRequestEventData: store.LLMRequestEventData{Model: "b", InputTokens: 4}},
	}
	got := aggregateUsage(events)
	if len(got) != 2 || got[0].Model != "b" || got[0].Calls != 2 || got[0].InputTokens != 7 {
		t.Errorf("aggregateUsage = %+v", got)
	}
}
