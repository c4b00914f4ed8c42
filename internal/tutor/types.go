package tutor

import (
	"fmt"
	"strings"
)

// Explanation is a worked solution for one problem.
type Explanation struct {
	ProblemID string
	Steps     []string
	Answer    string
	Tip       string

	// Agrees is false when the model's final answer does not match the
	// problem's expected answer. The UI shows such explanations with a warning.
	Agrees bool
}

// Hint is a nudge toward the answer that does not reveal it.
type Hint struct {
	ProblemID string
	Text      string
}

// Text renders the explanation as numbered plain-text lines.
func (e *Explanation) Text() string {
	var b strings.Builder
	for i, s := range e.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	fmt.Fprintf(&b, "Answer: %s", e.Answer)
	if !e.Agrees {
		b.WriteString(" (this does not match the expected answer)")
	}
	if e.Tip != "" {
		fmt.Fprintf(&b, "\nTip: %s", e.Tip)
	}
	return b.String()
}
