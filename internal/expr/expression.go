package expr

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Bindings supplies values for the names an expression references. Arrays
// are exposed as tuples so they can be indexed, e.g. rings[2].
type Bindings struct {
	Scalars map[string]float64
	Arrays  map[string][]float64
}

// Expression is a compiled scalar expression.
type Expression struct {
	source   string
	parsed   hclsyntax.Expression
	refs     []string
	random   bool
	compiler *Compiler
}

// Source returns the normalized expression text.
func (e *Expression) Source() string { return e.source }

// References returns the names the expression reads, excluding constants.
func (e *Expression) References() []string { return e.refs }

// Random reports whether evaluating the expression draws random numbers.
func (e *Expression) Random() bool { return e.random }

// Eval evaluates the expression. Every referenced name must be bound.
func (e *Expression) Eval(b Bindings) (float64, error) {
	vars := make(map[string]cty.Value, len(e.refs)+len(constants))
	for name, v := range constants {
		vars[name] = cty.NumberFloatVal(v)
	}
	for _, name := range e.refs {
		if v, ok := b.Scalars[name]; ok {
			vars[name] = cty.NumberFloatVal(v)
			continue
		}
		if xs, ok := b.Arrays[name]; ok {
			vars[name] = tupleOf(xs)
			continue
		}
		return 0, &ExpressionError{Source: e.source, Reason: fmt.Sprintf("unbound reference %q", name)}
	}

	ctx := &hcl.EvalContext{
		Variables: vars,
		Functions: e.compiler.functions,
	}
	val, diags := e.parsed.Value(ctx)
	if diags.HasErrors() {
		return 0, &ExpressionError{Source: e.source, Reason: "evaluation failed", Err: diags}
	}
	return e.toFloat(val)
}

func (e *Expression) toFloat(val cty.Value) (float64, error) {
	if val.IsNull() || !val.IsKnown() {
		return 0, &ExpressionError{Source: e.source, Reason: "result is null"}
	}
	if val.Type() == cty.Bool {
		if val.True() {
			return 1, nil
		}
		return 0, nil
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, &ExpressionError{Source: e.source, Reason: "result is not a number", Err: err}
	}
	var out float64
	if err := gocty.FromCtyValue(num, &out); err != nil {
		return 0, &ExpressionError{Source: e.source, Reason: "result is not a number", Err: err}
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, &ExpressionError{Source: e.source, Reason: "result is not finite"}
	}
	return out, nil
}

func tupleOf(xs []float64) cty.Value {
	if len(xs) == 0 {
		return cty.EmptyTupleVal
	}
	vals := make([]cty.Value, len(xs))
	for i, x := range xs {
		vals[i] = cty.NumberFloatVal(x)
	}
	return cty.TupleVal(vals)
}

// SetRandom sets the random source of the compiler that produced e.
func (e *Expression) SetRandom(r *rand.Rand) { e.compiler.SetRandom(r) }
