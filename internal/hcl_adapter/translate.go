package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/iwgo/internal/config"
)

// object translates an `object "name" {}` block.
func (t *translator) object(block *hclsyntax.Block) (*config.Template, error) {
	name, err := t.label(block)
	if err != nil {
		return nil, err
	}
	tpl := &config.Template{Name: name, Source: t.source(block.TypeRange.Start.Line)}

	if attrs := sortedAttributes(block.Body); len(attrs) > 0 {
		return nil, t.errorf(attrs[0].SrcRange.Start.Line, "unexpected attribute %q in object %q", attrs[0].Name, name)
	}

	for _, b := range block.Body.Blocks {
		switch b.Type {
		case "variables":
			if err := t.noBlocks(b); err != nil {
				return nil, err
			}
			tpl.Variables = append(tpl.Variables, t.properties(b.Body)...)
		case "list":
			l, err := t.list(b)
			if err != nil {
				return nil, err
			}
			tpl.Lists = append(tpl.Lists, l)
		case "setter", "condition", "instruction":
			c, err := t.component(b, b.Type)
			if err != nil {
				return nil, err
			}
			switch b.Type {
			case "setter":
				tpl.Setters = append(tpl.Setters, c)
			case "condition":
				tpl.Conditions = append(tpl.Conditions, c)
			default:
				tpl.Instructions = append(tpl.Instructions, c)
			}
		default:
			return nil, t.errorf(b.TypeRange.Start.Line, "unexpected block %q in object %q", b.Type, name)
		}
	}
	return tpl, nil
}

// list translates a `list "name" {}` block.
func (t *translator) list(block *hclsyntax.Block) (*config.List, error) {
	name, err := t.label(block)
	if err != nil {
		return nil, err
	}
	if err := t.noBlocks(block); err != nil {
		return nil, err
	}
	l := &config.List{Name: name, Source: t.source(block.TypeRange.Start.Line)}
	for _, p := range t.properties(block.Body) {
		switch p.Name {
		case "size":
			l.Size = p.Value
		case "value":
			l.Value = p.Value
		case "increment":
			l.Increment = p.Value
		case "index":
			l.Index = p.Value
		default:
			return nil, t.errorf(p.Source.Line, "unexpected attribute %q in list %q", p.Name, name)
		}
	}
	return l, nil
}

// component translates setter, condition, instruction, shape and body
// blocks. The type comes from the `type` attribute, or from the label of a
// shape block.
func (t *translator) component(block *hclsyntax.Block, kind string) (*config.Component, error) {
	c := &config.Component{Kind: kind, Source: t.source(block.TypeRange.Start.Line)}
	switch {
	case block.Type == "shape" && len(block.Labels) == 1:
		c.Type = block.Labels[0]
	case block.Type == "body":
		if len(block.Labels) != 0 {
			return nil, t.errorf(block.TypeRange.Start.Line, "block \"body\" takes no labels")
		}
	default:
		name, err := t.label(block)
		if err != nil {
			return nil, err
		}
		c.Name = name
	}

	for _, p := range t.properties(block.Body) {
		if p.Name == "type" && c.Type == "" {
			c.Type = p.Value
			continue
		}
		c.Properties = append(c.Properties, p)
	}
	if c.Type == "" {
		return nil, t.errorf(block.TypeRange.Start.Line, "%s block requires a type", block.Type)
	}

	for _, b := range block.Body.Blocks {
		switch b.Type {
		case "variables", "increments":
			if err := t.noBlocks(b); err != nil {
				return nil, err
			}
			if b.Type == "variables" {
				c.Variables = append(c.Variables, t.properties(b.Body)...)
			} else {
				c.Increments = append(c.Increments, t.properties(b.Body)...)
			}
		case "list":
			l, err := t.list(b)
			if err != nil {
				return nil, err
			}
			c.Lists = append(c.Lists, l)
		case "shape":
			child, err := t.component(b, "shape")
			if err != nil {
				return nil, err
			}
			c.Children = append(c.Children, child)
		case "body":
			child, err := t.component(b, "instruction")
			if err != nil {
				return nil, err
			}
			c.Children = append(c.Children, child)
		default:
			return nil, t.errorf(b.TypeRange.Start.Line, "unexpected block %q in %s", b.Type, block.Type)
		}
	}
	return c, nil
}
