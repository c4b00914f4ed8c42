// Package evaluator evaluates calculator expressions.
//
// Parsing and evaluation are delegated to github.com/expr-lang/expr. This
// package only normalizes the display glyphs the keypad produces, registers
// the math functions the calculator offers and turns every failure into an
// *EvaluationError.
package evaluator

import (
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
)

// MaxExpressionLength bounds the input accepted by Evaluate, in bytes.
const MaxExpressionLength = 256

// glyphs maps keypad display symbols to the operators the engine parses.
var glyphs = strings.NewReplacer(
	"×", "*",
	"÷", "/",
	"−", "-",
)

// Evaluator evaluates expressions in radians with the constants pi and e
// and the functions sin, cos, tan, sqrt, log (natural), ln and abs.
// The zero value is not usable; call New.
type Evaluator struct {
	env  map[string]any
	opts []expr.Option
}

// New returns an Evaluator. It is safe for concurrent use.
func New() *Evaluator {
	env := map[string]any{
		"pi": math.Pi,
		"e":  math.E,
	}
	opts := []expr.Option{
		expr.Env(env),
		expr.AsFloat64(),
		expr.DisableAllBuiltins(),
		expr.Patch(floatPatcher{}),
	}
	for _, f := range functions {
		opts = append(opts, expr.Function(f.name, f.call))
	}
	return &Evaluator{env: env, opts: opts}
}

// Evaluate parses and evaluates text. NaN results are reported as errors;
// infinities are returned as-is.
func (ev *Evaluator) Evaluate(text string) (float64, error) {
	src := strings.TrimSpace(glyphs.Replace(text))
	if src == "" {
		return 0, &EvaluationError{Expression: text, Reason: "empty expression"}
	}
	if len(src) > MaxExpressionLength {
		return 0, &EvaluationError{Expression: text, Reason: "expression too long"}
	}

	program, err := expr.Compile(src, ev.opts...)
	if err != nil {
		return 0, &EvaluationError{Expression: text, Reason: "parse", Err: err}
	}
	out, err := expr.Run(program, ev.env)
	if err != nil {
		return 0, &EvaluationError{Expression: text, Reason: "evaluate", Err: err}
	}

	v, ok := toFloat(out)
	if !ok {
		return 0, &EvaluationError{Expression: text, Reason: "result is not a number"}
	}
	if math.IsNaN(v) {
		return 0, &EvaluationError{Expression: text, Reason: "result is not a number"}
	}
	return v, nil
}

// EvaluateString evaluates text and renders the result with Format.
func (ev *Evaluator) EvaluateString(text string) (string, error) {
	v, err := ev.Evaluate(text)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}

// floatPatcher makes every literal a float64 so arithmetic never runs on
// Go ints, and routes % to mod, which accepts fractional operands.
type floatPatcher struct{}

func (floatPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IntegerNode:
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	case *ast.BinaryNode:
		if n.Operator == "%" {
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: modFunc},
				Arguments: []ast.Node{n.Left, n.Right},
			})
		}
	}
}

var std = New()

// Evaluate evaluates text with a shared Evaluator.
func Evaluate(text string) (float64, error) {
	return std.Evaluate(text)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
