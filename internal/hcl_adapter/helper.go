package hcl_adapter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/iwgo/internal/config"
)

// sortedAttributes returns the attributes of body in source order.
func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}

// attributeText returns the value of a string literal, or the source text of
// any other expression.
func attributeText(attr *hclsyntax.Attribute, src []byte) string {
	if tmpl, ok := attr.Expr.(*hclsyntax.TemplateExpr); ok && tmpl.IsStringLiteral() {
		if v, diags := tmpl.Value(nil); !diags.HasErrors() && v.IsKnown() && !v.IsNull() {
			return v.AsString()
		}
	}
	return strings.TrimSpace(string(attr.Expr.Range().SliceBytes(src)))
}

// translator carries the file being translated.
type translator struct {
	src  []byte
	file string
}

func (t *translator) errorf(line int, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", t.file, line, fmt.Sprintf(format, args...))
}

func (t *translator) source(line int) config.Source {
	return config.Source{File: t.file, Line: line}
}

func (t *translator) properties(body *hclsyntax.Body) []config.Property {
	attrs := sortedAttributes(body)
	out := make([]config.Property, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, config.Property{
			Name:   attr.Name,
			Value:  attributeText(attr, t.src),
			Source: t.source(attr.SrcRange.Start.Line),
		})
	}
	return out
}

func (t *translator) noBlocks(block *hclsyntax.Block) error {
	if len(block.Body.Blocks) > 0 {
		inner := block.Body.Blocks[0]
		return t.errorf(inner.TypeRange.Start.Line, "block %q is not allowed inside %q", inner.Type, block.Type)
	}
	return nil
}

func (t *translator) label(block *hclsyntax.Block) (string, error) {
	if len(block.Labels) != 1 {
		return "", t.errorf(block.TypeRange.Start.Line, "block %q requires exactly one label", block.Type)
	}
	return block.Labels[0], nil
}
