package problemgen

import "fmt"

// Validator checks a generated problem for correctness.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g.
	// "structural" or "math-check".
	Name() string

	// Validate returns nil if the problem passes.
	Validate(p *Problem) *ValidationError
}

// ValidationError describes why a problem failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators returns the standard chain: structure first, then an
// independent recomputation of the answer.
func DefaultValidators(eval Evaluator) []Validator {
	return []Validator{
		&StructuralValidator{},
		&MathCheckValidator{Evaluator: eval},
	}
}

// Verify runs validators in order and returns the first failure. With no
// validators it runs DefaultValidators.
func Verify(p *Problem, validators ...Validator) *ValidationError {
	if len(validators) == 0 {
		validators = DefaultValidators(nil)
	}
	for _, v := range validators {
		if err := v.Validate(p); err != nil {
			return err
		}
	}
	return nil
}
