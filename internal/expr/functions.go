package expr

import (
	"errors"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Names of the functions that draw from the compiler's random source.
const (
	RandomInt   = "ranI"
	RandomFloat = "ranF"
)

var errNoRandom = errors.New("no random source configured")

// Constants are bound as variables and cannot be redefined by a template.
var constants = map[string]float64{
	"PI": math.Pi,
	"E":  math.E,
}

// IsReserved reports whether name is a built-in constant.
func IsReserved(name string) bool {
	_, ok := constants[name]
	return ok
}

func (c *Compiler) builtinFunctions() map[string]function.Function {
	return map[string]function.Function{
		"abs":    stdlib.AbsoluteFunc,
		"floor":  stdlib.FloorFunc,
		"ceil":   stdlib.CeilFunc,
		"log":    stdlib.LogFunc,
		"pow":    stdlib.PowFunc,
		"min":    stdlib.MinFunc,
		"max":    stdlib.MaxFunc,
		"signum": stdlib.SignumFunc,
		"sin":    unaryFloat(math.Sin),
		"cos":    unaryFloat(math.Cos),
		"tan":    unaryFloat(math.Tan),
		"sqrt":   unaryFloat(math.Sqrt),
		"round":  unaryFloat(math.Round),

		RandomInt:   c.randomIntFunc(),
		RandomFloat: c.randomFloatFunc(),
	}
}

func unaryFloat(fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "num", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			in, _ := args[0].AsBigFloat().Float64()
			out := fn(in)
			if math.IsNaN(out) {
				return cty.NilVal, function.NewArgErrorf(0, "result is not a number")
			}
			return cty.NumberFloatVal(out), nil
		},
	})
}

func rangeParams() []function.Parameter {
	return []function.Parameter{
		{Name: "min", Type: cty.Number},
		{Name: "max", Type: cty.Number},
	}
}

// randomIntFunc draws a whole number from the inclusive range [min, max].
func (c *Compiler) randomIntFunc() function.Function {
	return function.New(&function.Spec{
		Params: rangeParams(),
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			if c.rng == nil {
				return cty.NilVal, errNoRandom
			}
			fmin, _ := args[0].AsBigFloat().Float64()
			fmax, _ := args[1].AsBigFloat().Float64()
			lo, hi, err := IntRange(fmin, fmax)
			if err != nil {
				return cty.NilVal, err
			}
			v, err := RandomIntn(c.rng, lo, hi)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.NumberIntVal(v), nil
		},
	})
}

// randomFloatFunc draws a number from the half-open range [min, max).
func (c *Compiler) randomFloatFunc() function.Function {
	return function.New(&function.Spec{
		Params: rangeParams(),
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			if c.rng == nil {
				return cty.NilVal, errNoRandom
			}
			lo, _ := args[0].AsBigFloat().Float64()
			hi, _ := args[1].AsBigFloat().Float64()
			return cty.NumberFloatVal(RandomFloat64(c.rng, lo, hi)), nil
		},
	})
}
