package interp

import (
	"math"
	"math/rand"
)

// mathModule mirrors the float-based arithmetic surface of the runtime:
// every operation widens to float64, domain violations (division by zero,
// negative square root) fail instead of producing Inf/NaN.
func mathModule() *Module {
	return &Module{
		Name: "math",
		Funcs: map[string]*Builtin{
			"add":      {Name: "add", Fn: mathAdd},
			"subtract": {Name: "subtract", Fn: mathSubtract},
			"multiply": {Name: "multiply", Fn: mathMultiply},
			"divide":   {Name: "divide", Fn: mathDivide},
			"power":    {Name: "power", Fn: mathPower},
			"sqrt":     {Name: "sqrt", Fn: mathSqrt},
			"abs":      {Name: "abs", Fn: mathAbs},
			"round":    {Name: "round", Fn: mathRound},
			"floor":    {Name: "floor", Fn: mathFloor},
			"ceil":     {Name: "ceil", Fn: mathCeil},
			"sin":      {Name: "sin", Fn: mathSin},
			"cos":      {Name: "cos", Fn: mathCos},
			"tan":      {Name: "tan", Fn: mathTan},
			"log":      {Name: "log", Fn: mathLog},
			"exp":      {Name: "exp", Fn: mathExp},
			"random":   {Name: "random", Fn: mathRandom},
			"max":      {Name: "max", Fn: mathMax},
			"min":      {Name: "min", Fn: mathMin},
			"modulo":   {Name: "modulo", Fn: mathModulo},
		},
	}
}

func binaryFloat(fn string, args []Value) (float64, float64, error) {
	if err := wantExact(fn, args, 2); err != nil {
		return 0, 0, err
	}
	a, err := argFloat(fn, args, 0)
	if err != nil {
		return 0, 0, err
	}
	b, err := argFloat(fn, args, 1)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func unaryFloat(fn string, args []Value) (float64, error) {
	if err := wantExact(fn, args, 1); err != nil {
		return 0, err
	}
	return argFloat(fn, args, 0)
}

func mathAdd(_ *Runtime, args []Value) (Value, error) {
	a, b, err := binaryFloat("math.add", args)
	if err != nil {
		return nil, err
	}
	return Float{a + b}, nil
}

func mathSubtract(_ *Runtime, args []Value) (Value, error) {
	a, b, err := binaryFloat("math.subtract", args)
	if err != nil {
		return nil, err
	}
	return Float{a - b}, nil
}

func mathMultiply(_ *Runtime, args []Value) (Value, error) {
	a, b, err := binaryFloat("math.multiply", args)
	if err != nil {
		return nil, err
	}
	return Float{a * b}, nil
}

func mathDivide(_ *Runtime, args []Value) (Value, error) {
	a, b, err := binaryFloat("math.divide", args)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, domainErrorf("division by zero")
	}
	return Float{a / b}, nil
}

func mathPower(_ *Runtime, args []Value) (Value, error) {
	base, exp, err := binaryFloat("math.power", args)
	if err != nil {
		return nil, err
	}
	return Float{math.Pow(base, exp)}, nil
}

func mathSqrt(_ *Runtime, args []Value) (Value, error) {
	v, err := unaryFloat("math.sqrt", args)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, domainErrorf("cannot calculate square root of negative number")
	}
	return Float{math.Sqrt(v)}, nil
}

func mathAbs(_ *Runtime, args []Value) (Value, error) {
	v, err := unaryFloat("math.abs", args)
	if err != nil {
		return nil, err
	}
	return Float{math.Abs(v)}, nil
}

func mathRound(_ *Runtime, args []Value) (Value, error) {
	v, err := unaryFloat("math.round", args)
	if err != nil {
		return nil, err
	}
	return Float{math.Round(v)}, nil
}

func mathFloor(_ *Runtime, args []Value) (Value, error) {
	v, err := unaryFloat("math.floor", args)
	if err != nil {
		return nil, err
	}
	return Float{math.Floor(v)}, nil
}

func mathCeil(_ *Runtime, args []Value) (Value, error) {
	v, err := unaryFloat("math.ceil", args)
	if err != nil {
		return nil, err
	}
	return Float{math.Ceil(v)}, nil
}

func mathSin(_ *Runtime, args []Value) (Value, error) {
	v, err := unaryFloat("math.sin", args)
	if err != nil {
		return nil, err
	}
	return Float{math.Sin(v)}, nil
}

func mathCos(_ *Runtime, args []Value) (Value, error) {
	v, err := unaryFloat("math.cos", args)
	if err != nil {
		return nil, err
	}
	return Float{math.Cos(v)}, nil
}

func mathTan(_ *Runtime, args []Value) (Value, error) {
	v, err := unaryFloat("math.tan", args)
	if err != nil {
		return nil, err
	}
	return Float{math.Tan(v)}, nil
}

func mathLog(_ *Runtime, args []Value) (Value, error) {
	v, base, err := binaryFloat("math.log", args)
	if err != nil {
		return nil, err
	}
	if v <= 0 || base <= 0 || base == 1 {
		return nil, domainErrorf("invalid arguments for logarithm")
	}
	return Float{math.Log(v) / math.Log(base)}, nil
}

func mathExp(_ *Runtime, args []Value) (Value, error) {
	v, err := unaryFloat("math.exp", args)
	if err != nil {
		return nil, err
	}
	return Float{math.Exp(v)}, nil
}

func mathRandom(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("math.random", args); err != nil {
		return nil, err
	}
	return Float{rand.Float64()}, nil
}

func mathMax(_ *Runtime, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, arityErrorf("math.max requires at least one argument")
	}
	best, err := argFloat("math.max", args, 0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		v, err := argFloat("math.max", args, i)
		if err != nil {
			return nil, err
		}
		if v > best {
			best = v
		}
	}
	return Float{best}, nil
}

func mathMin(_ *Runtime, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, arityErrorf("math.min requires at least one argument")
	}
	best, err := argFloat("math.min", args, 0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		v, err := argFloat("math.min", args, i)
		if err != nil {
			return nil, err
		}
		if v < best {
			best = v
		}
	}
	return Float{best}, nil
}

func mathModulo(_ *Runtime, args []Value) (Value, error) {
	a, b, err := binaryFloat("math.modulo", args)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, domainErrorf("modulo by zero")
	}
	return Float{math.Mod(a, b)}, nil
}
