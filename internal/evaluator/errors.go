package evaluator

import "fmt"

// EvaluationError reports an expression that could not be evaluated.
type EvaluationError struct {
	Expression string
	Reason     string
	Err        error
}

func (e *EvaluationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("evaluate %q: %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("evaluate %q: %s", e.Expression, e.Reason)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
