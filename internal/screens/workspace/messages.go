package workspace

import "github.com/abhisek/numinary/internal/tutor"

// explainDoneMsg carries the tutor's answer for ProblemID.
type explainDoneMsg struct {
	ProblemID   string
	Explanation *tutor.Explanation
	Err         error
}

// hintDoneMsg carries a hint for ProblemID.
type hintDoneMsg struct {
	ProblemID string
	Hint      *tutor.Hint
	Err       error
}

// exportDoneMsg reports where the history was written.
type exportDoneMsg struct {
	Path string
	Err  error
}
