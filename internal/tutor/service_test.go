package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/numinary/internal/llm"
	"github.com/abhisek/numinary/internal/problemgen"
)

func linearProblem() *problemgen.Problem {
	return &problemgen.Problem{
		ID:       "p-1",
		Topic:    problemgen.TopicAlgebra,
		Title:    "Linear Equations",
		Question: "Solve for x: 2x - 3 = 5",
		Answer:   "4",
	}
}

func reply(content string) llm.MockResponse {
	return llm.MockResponse{Content: []byte(content)}
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(reply(`{"steps":["Add 3 to both sides: 2x = 8","Divide by 2: x = 4"],"answer":"4","tip":"Undo operations in reverse order."}`))
	svc := NewService(mock, DefaultConfig())

	e, err := svc.Explain(context.Background(), linearProblem())
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if !e.Agrees {
		t.Error("Agrees = false, want true")
	}
	if len(e.Steps) != 2 {
		t.Errorf("Steps = %v", e.Steps)
	}
	want := "1. Add 3 to both sides: 2x = 8\n2. Divide by 2: x = 4\nAnswer: 4\nTip: Undo operations in reverse order."
	if got := e.Text(); got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d", len(calls))
	}
	if calls[0].Schema != ExplanationSchema {
		t.Error("Explain should request ExplanationSchema")
	}
	if !strings.Contains(calls[0].Messages[0].Content, "Solve for x: 2x - 3 = 5") {
		t.Errorf("prompt = %q", calls[0].Messages[0].Content)
	}
}

func TestExplain_Cached(t *testing.T) {
	mock := llm.NewMockProvider(reply(`{"steps":["x = 4"],"answer":"4","tip":""}`))
	svc := NewService(mock, DefaultConfig())
	p := linearProblem()

	first, err := svc.Explain(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Explain(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second Explain should come from the cache")
	}
	if n := len(mock.Calls()); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestExplain_CacheEviction(t *testing.T) {
	mock := llm.NewMockProvider(
		reply(`{"steps":["a"],"answer":"4","tip":""}`),
		reply(`{"steps":["b"],"answer":"4","tip":""}`),
		reply(`{"steps":["c"],"answer":"4","tip":""}`),
	)
	cfg := DefaultConfig()
	cfg.CacheSize = 1
	svc := NewService(mock, cfg)

	p1 := linearProblem()
	p2 := linearProblem()
	p2.ID = "p-2"
	for _, p := range []*problemgen.Problem{p1, p2, p1} {
		if _, err := svc.Explain(context.Background(), p); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(mock.Calls()); n != 3 {
		t.Errorf("calls = %d, want 3 after eviction", n)
	}
}

func TestExplain_Disagrees(t *testing.T) {
	mock := llm.NewMockProvider(reply(`{"steps":["x = 5"],"answer":"5","tip":""}`))
	e, err := NewService(mock, DefaultConfig()).Explain(context.Background(), linearProblem())
	if err != nil {
		t.Fatal(err)
	}
	if e.Agrees {
		t.Error("Agrees = true for a wrong answer")
	}
	if !strings.Contains(e.Text(), "does not match") {
		t.Errorf("Text() = %q", e.Text())
	}
}

func TestExplain_Errors(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), DefaultConfig())
	if _, err := svc.Explain(context.Background(), nil); !errors.Is(err, ErrNoProblem) {
		t.Errorf("nil problem: err = %v", err)
	}

	_, err := svc.Explain(context.Background(), linearProblem())
	var down *llm.ErrProviderUnavailable
	if !errors.As(err, &down) {
		t.Errorf("empty mock: err = %v, want ErrProviderUnavailable", err)
	}

	bad := NewService(llm.NewMockProvider(reply(`{"answer":"4"}`)), DefaultConfig())
	_, err = bad.Explain(context.Background(), linearProblem())
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Errorf("schema violation: err = %v, want ErrInvalidResponse", err)
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name    string
		hint    string
		wantErr error
	}{
		{"safe", `{"hint":"Start by adding 3 to both sides."}`, nil},
		{"reveals answer", `{"hint":"x is 4."}`, ErrHintRevealsAnswer},
		{"reveals answer as decimal", `{"hint":"Try 4.0"}`, ErrHintRevealsAnswer},
		{"number from the question", `{"hint":"What is 5 plus 3?"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(reply(tt.hint))
			h, err := NewService(mock, DefaultConfig()).Hint(context.Background(), linearProblem(), "3")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && h.Text == "" {
				t.Error("empty hint text")
			}
			if prompt := mock.Calls()[0].Messages[0].Content; !strings.Contains(prompt, `"3"`) {
				t.Errorf("prompt should mention the attempt: %q", prompt)
			}
		})
	}
}
