package session

import (
	"context"
	"testing"

	"github.com/abhisek/numinary/internal/problemgen"
)

func TestResolveKey(t *testing.T) {
	tests := []struct {
		key    string
		action KeyAction
		tok    string
	}{
		{"7", KeyAppend, "7"},
		{"0", KeyAppend, "0"},
		{"+", KeyAppend, "+"},
		{"^", KeyAppend, "^"},
		{"(", KeyAppend, "("},
		{".", KeyAppend, "."},
		{"s", KeyAppend, "sin("},
		{"c", KeyAppend, "cos("},
		{"l", KeyAppend, "log("},
		{"q", KeyAppend, "sqrt("},
		{"enter", KeySubmit, ""},
		{"backspace", KeyBackspace, ""},
		{"esc", KeyClear, ""},
		{"x", KeyNone, ""},
		{"ctrl+c", KeyNone, ""},
		{"12", KeyNone, ""},
	}
	for _, tt := range tests {
		action, tok := ResolveKey(tt.key)
		if action != tt.action || tok != tt.tok {
			t.Errorf("ResolveKey(%q) = %v, %q; want %v, %q", tt.key, action, tok, tt.action, tt.tok)
		}
	}
}

func TestHandleKey_CalculatorSequence(t *testing.T) {
	f := newFixture(t, Snapshot{})
	s := f.state

	for _, k := range []string{"q", "1", "6", ")", "+", "2", "^", "3"} {
		if handled, _, _ := s.HandleKey(k); !handled {
			t.Fatalf("key %q not handled", k)
		}
	}
	if got := s.View().Buffer; got != "sqrt(16)+2^3" {
		t.Fatalf("Buffer = %q", got)
	}

	handled, out, err := s.HandleKey("enter")
	if !handled || err != nil {
		t.Fatalf("enter: handled=%v err=%v", handled, err)
	}
	if out.Result != "12" {
		t.Errorf("Result = %q, want 12", out.Result)
	}

	s.HandleKey("backspace")
	if got := s.View().Buffer; got != "1" {
		t.Errorf("Buffer after backspace = %q, want 1", got)
	}
	s.HandleKey("esc")
	if got := s.View().Buffer; got != "" {
		t.Errorf("Buffer after esc = %q", got)
	}

	if handled, _, _ := s.HandleKey("z"); handled {
		t.Error("unmapped key should not be handled")
	}
}

func TestHandleKey_AnswersInPractice(t *testing.T) {
	gen := problemgen.NewSeeded(9, nil)
	s := New(context.Background(), Config{Generator: gen})

	p := s.StartPractice(problemgen.TopicArithmetic)
	for _, r := range p.Answer {
		if handled, _, _ := s.HandleKey(string(r)); !handled {
			t.Fatalf("key %q not handled", string(r))
		}
	}
	_, out, err := s.HandleKey("enter")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Correct {
		t.Errorf("Outcome = %+v, want correct", out)
	}
}
