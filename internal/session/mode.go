package session

import "fmt"

// Mode is the workspace mode.
type Mode int

const (
	ModeCalculate Mode = iota // free calculator
	ModeLearn                 // working a lesson from the shelf
	ModePractice              // endless generated problems
)

func (m Mode) String() string {
	switch m {
	case ModeCalculate:
		return "calculate"
	case ModeLearn:
		return "learn"
	case ModePractice:
		return "practice"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Heading returns the workspace heading for the mode.
func (m Mode) Heading() string {
	switch m {
	case ModeCalculate:
		return "Calculate"
	case ModeLearn:
		return "Learn Math"
	case ModePractice:
		return "Practice Math"
	}
	return m.String()
}
