package expr

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// references returns the unique root names referenced by expr, in order of
// first appearance.
func references(expr hclsyntax.Expression) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, traversal := range expr.Variables() {
		name := traversal.RootName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// functionCalls returns the names of every function called anywhere in expr,
// including inside for-expressions and object constructors.
func functionCalls(expr hclsyntax.Expression) map[string]struct{} {
	called := make(map[string]struct{})
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			called[call.Name] = struct{}{}
		}
		return nil
	})
	return called
}
