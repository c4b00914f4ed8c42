package evaluator

import (
	"fmt"
	"math"
)

type function struct {
	name string
	call func(params ...any) (any, error)
}

var functions = []function{
	unary("sin", math.Sin),
	unary("cos", math.Cos),
	unary("tan", math.Tan),
	unary("sqrt", math.Sqrt),
	unary("log", math.Log),
	unary("ln", math.Log),
	unary("abs", math.Abs),
	binary(modFunc, mod),
}

// modFunc is the function % is rewritten to.
const modFunc = "mod"

// mod is the floored remainder: the result takes the sign of y.
// mod(x, 0) is x.
func mod(x, y float64) float64 {
	if y == 0 {
		return x
	}
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

func unary(name string, fn func(float64) float64) function {
	return function{
		name: name,
		call: func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
			}
			x, ok := toFloat(params[0])
			if !ok {
				return nil, fmt.Errorf("%s: argument is not a number", name)
			}
			return fn(x), nil
		},
	}
}

func binary(name string, fn func(x, y float64) float64) function {
	return function{
		name: name,
		call: func(params ...any) (any, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(params))
			}
			x, ok := toFloat(params[0])
			y, ok2 := toFloat(params[1])
			if !ok || !ok2 {
				return nil, fmt.Errorf("%s: argument is not a number", name)
			}
			return fn(x, y), nil
		},
	}
}
