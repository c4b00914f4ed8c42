package problemgen

import (
	"fmt"
	"strings"
)

// Topic identifies a problem template. TopicAll is only meaningful as a
// filter: it asks the generator to pick one of the concrete topics.
type Topic string

const (
	TopicAll          Topic = "all"
	TopicArithmetic   Topic = "arithmetic"
	TopicAlgebra      Topic = "algebra"
	TopicTrigonometry Topic = "trigonometry"
)

// Topics returns the concrete topics in display order.
func Topics() []Topic {
	return []Topic{TopicArithmetic, TopicAlgebra, TopicTrigonometry}
}

// Filters returns every value accepted as a topic filter, TopicAll first.
func Filters() []Topic {
	return append([]Topic{TopicAll}, Topics()...)
}

// Title returns the display name for the topic.
func (t Topic) Title() string {
	switch t {
	case TopicArithmetic:
		return "Arithmetic"
	case TopicAlgebra:
		return "Linear Equations"
	case TopicTrigonometry:
		return "Trigonometry"
	case TopicAll:
		return "All Topics"
	}
	return string(t)
}

// Valid reports whether t is a concrete topic.
func (t Topic) Valid() bool {
	switch t {
	case TopicArithmetic, TopicAlgebra, TopicTrigonometry:
		return true
	}
	return false
}

// ParseTopic parses a topic filter. The empty string means TopicAll.
// "trig" and "linear" are accepted as shorthands.
func ParseTopic(s string) (Topic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return TopicAll, nil
	case "arithmetic":
		return TopicArithmetic, nil
	case "algebra", "linear":
		return TopicAlgebra, nil
	case "trigonometry", "trig":
		return TopicTrigonometry, nil
	}
	return "", fmt.Errorf("unknown topic %q", s)
}

// Problem is a generated practice problem. Problems are immutable once
// created; callers share them by pointer.
type Problem struct {
	// ID is a UUID, unique per generated problem.
	ID string `json:"id"`

	Topic Topic  `json:"topic"`
	Title string `json:"title"`

	// Question is the prompt shown to the learner, e.g. "Solve: 3 + 4",
	// "Solve for x: 2x - 3 = 5" or "Find: sin(30°)".
	Question string `json:"question"`

	// Answer is the expected answer in canonical form.
	Answer string `json:"answer"`
}
