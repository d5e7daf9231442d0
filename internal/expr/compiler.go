package expr

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty/function"
)

// Compiler turns expression text into evaluable Expressions. It is not safe
// for concurrent use; each template owns one.
type Compiler struct {
	functions map[string]function.Function
	rng       *rand.Rand
}

// NewCompiler creates a compiler with the built-in function table and no
// random source. Random functions fail until SetRandom is called.
func NewCompiler() *Compiler {
	c := &Compiler{}
	c.functions = c.builtinFunctions()
	return c
}

// SetRandom replaces the source used by ranI and ranF for every expression
// compiled by c.
func (c *Compiler) SetRandom(r *rand.Rand) {
	c.rng = r
}

// Functions returns the sorted names of the available functions.
func (c *Compiler) Functions() []string {
	names := make([]string, 0, len(c.functions))
	for name := range c.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile parses text and checks that every called function exists.
func (c *Compiler) Compile(text string) (*Expression, error) {
	source := strings.TrimSpace(text)
	if source == "" {
		return nil, &ExpressionError{Source: text, Reason: "empty expression"}
	}

	parsed, diags := hclsyntax.ParseExpression([]byte(source), "expression", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, &ExpressionError{Source: source, Reason: "parse failed", Err: diags}
	}

	random := false
	for name := range functionCalls(parsed) {
		if _, ok := c.functions[name]; !ok {
			return nil, &ExpressionError{Source: source, Reason: fmt.Sprintf("unknown function %q", name)}
		}
		if name == RandomInt || name == RandomFloat {
			random = true
		}
	}

	var refs []string
	for _, name := range references(parsed) {
		if !IsReserved(name) {
			refs = append(refs, name)
		}
	}

	return &Expression{
		source:   source,
		parsed:   parsed,
		refs:     refs,
		random:   random,
		compiler: c,
	}, nil
}
