package problemgen

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/abhisek/numinary/internal/evaluator"
)

// MathCheckValidator recomputes the answer from the displayed question
// with the evaluator. For linear equations it also checks that the
// displayed right-hand side equals b*x + c and that the answer solves the
// equation.
type MathCheckValidator struct {
	// Evaluator defaults to a fresh evaluator.New() when nil.
	Evaluator Evaluator
}

func (v *MathCheckValidator) Name() string { return "math-check" }

var (
	arithmeticRe = regexp.MustCompile(`^Solve: (\d+ [+\-*] \d+)$`)
	linearRe     = regexp.MustCompile(`^Solve for x: (\d+)x ([+-]) (\d+) = (-?\d+)$`)
	trigRe       = regexp.MustCompile(`^Find: (sin|cos)\((\d+)°\)$`)
)

func (v *MathCheckValidator) Validate(p *Problem) *ValidationError {
	eval := v.Evaluator
	if eval == nil {
		eval = evaluator.New()
	}

	var err error
	switch p.Topic {
	case TopicArithmetic:
		err = checkArithmetic(eval, p)
	case TopicAlgebra:
		err = checkLinear(eval, p)
	case TopicTrigonometry:
		err = checkTrig(eval, p)
	default:
		err = fmt.Errorf("no check for topic %q", p.Topic)
	}
	if err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	return nil
}

func checkArithmetic(eval Evaluator, p *Problem) error {
	m := arithmeticRe.FindStringSubmatch(p.Question)
	if m == nil {
		return fmt.Errorf("question %q is not an arithmetic problem", p.Question)
	}
	got, err := eval.Evaluate(m[1])
	if err != nil {
		return err
	}
	if computed := evaluator.Format(got); computed != p.Answer {
		return fmt.Errorf("computed %q but problem claims %q", computed, p.Answer)
	}
	return nil
}

func checkLinear(eval Evaluator, p *Problem) error {
	m := linearRe.FindStringSubmatch(p.Question)
	if m == nil {
		return fmt.Errorf("question %q is not a linear equation", p.Question)
	}
	b, _ := strconv.Atoi(m[1])
	c, _ := strconv.Atoi(m[3])
	if m[2] == "-" {
		c = -c
	}
	rhs, _ := strconv.Atoi(m[4])

	x, err := strconv.Atoi(p.Answer)
	if err != nil {
		return fmt.Errorf("answer %q is not an integer", p.Answer)
	}

	lhs, err := eval.Evaluate(fmt.Sprintf("%d * %d + (%d)", b, x, c))
	if err != nil {
		return err
	}
	if lhs != float64(rhs) {
		return fmt.Errorf("%dx + (%d) at x = %d is %s, but right-hand side is %d",
			b, c, x, evaluator.Format(lhs), rhs)
	}
	return nil
}

func checkTrig(eval Evaluator, p *Problem) error {
	m := trigRe.FindStringSubmatch(p.Question)
	if m == nil {
		return fmt.Errorf("question %q is not a trigonometry problem", p.Question)
	}
	angle, _ := strconv.Atoi(m[2])
	got, err := eval.Evaluate(trigExpression(m[1], angle))
	if err != nil {
		return err
	}
	if computed := evaluator.FormatFixed(got); computed != p.Answer {
		return fmt.Errorf("computed %q but problem claims %q", computed, p.Answer)
	}
	return nil
}
