package problemgen

import (
	"math"
	"strconv"
	"strings"
)

// AnswerTolerance is the largest numeric difference still accepted as a
// correct answer.
const AnswerTolerance = 1e-4

// CheckAnswer compares an evaluated result against the expected answer.
// It accepts an exact string match, or two numbers closer than
// AnswerTolerance ("4.00001" matches "4", "0.5" matches "0.5000").
func CheckAnswer(result, expected string) bool {
	result = strings.TrimSpace(result)
	expected = strings.TrimSpace(expected)
	if result == "" {
		return false
	}
	if result == expected {
		return true
	}

	r, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return false
	}
	e, err := strconv.ParseFloat(expected, 64)
	if err != nil {
		return false
	}
	return math.Abs(r-e) < AnswerTolerance
}
