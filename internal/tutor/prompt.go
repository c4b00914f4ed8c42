package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/numinary/internal/problemgen"
)

const explainSystemPrompt = `You are a patient math tutor inside a calculator app.
Explain how to solve the problem you are given in at most six short steps.
Angles written with a degree sign are in degrees. Round decimal answers to four places.
Do not add greetings or encouragement outside the tip.`

const hintSystemPrompt = `You are a patient math tutor inside a calculator app.
Give exactly one hint for the problem. Never state the final answer or a value that equals it.`

func explainPrompt(p problemgen.Problem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", p.Title)
	fmt.Fprintf(&b, "Problem: %s\n", p.Question)
	fmt.Fprintf(&b, "Expected answer: %s\n", p.Answer)
	return b.String()
}

func hintPrompt(p problemgen.Problem, attempt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", p.Title)
	fmt.Fprintf(&b, "Problem: %s\n", p.Question)
	if attempt = strings.TrimSpace(attempt); attempt != "" {
		fmt.Fprintf(&b, "The student entered %q, which is not correct.\n", attempt)
	}
	return b.String()
}
