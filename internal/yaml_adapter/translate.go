package yaml_adapter

import (
	"fmt"
	"strings"

	"github.com/vk/iwgo/internal/config"
	"gopkg.in/yaml.v3"
)

type translator struct {
	file string
}

func (t *translator) errorf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", t.file, n.Line, fmt.Sprintf(format, args...))
}

func (t *translator) source(n *yaml.Node) config.Source {
	return config.Source{File: t.file, Line: n.Line}
}

// pair is one key/value entry of a mapping node.
type pair struct {
	key   *yaml.Node
	value *yaml.Node
}

func (t *translator) mapping(n *yaml.Node, what string) ([]pair, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, t.errorf(n, "%s must be a mapping", what)
	}
	pairs := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, pair{key: n.Content[i], value: n.Content[i+1]})
	}
	return pairs, nil
}

// scalar returns the text of a scalar. A sequence of scalars is joined with
// commas, which is how material sets are written.
func (t *translator) scalar(n *yaml.Node, what string) (string, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return strings.TrimSpace(n.Value), nil
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return "", t.errorf(item, "%s: sequence items must be scalars", what)
			}
			parts = append(parts, strings.TrimSpace(item.Value))
		}
		return strings.Join(parts, ","), nil
	}
	return "", t.errorf(n, "%s must be a scalar", what)
}

func (t *translator) properties(n *yaml.Node, what string) ([]config.Property, error) {
	pairs, err := t.mapping(n, what)
	if err != nil {
		return nil, err
	}
	out := make([]config.Property, 0, len(pairs))
	for _, p := range pairs {
		v, err := t.scalar(p.value, what+"."+p.key.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, config.Property{Name: p.key.Value, Value: v, Source: t.source(p.key)})
	}
	return out, nil
}

func (t *translator) template(root *yaml.Node) (*config.Template, error) {
	pairs, err := t.mapping(root, "template")
	if err != nil {
		return nil, err
	}
	tpl := &config.Template{Source: t.source(root)}

	for _, p := range pairs {
		switch p.key.Value {
		case "name":
			if tpl.Name, err = t.scalar(p.value, "name"); err != nil {
				return nil, err
			}
		case "variables":
			if tpl.Variables, err = t.properties(p.value, "variables"); err != nil {
				return nil, err
			}
		case "lists":
			if tpl.Lists, err = t.lists(p.value); err != nil {
				return nil, err
			}
		case "setters", "conditions", "instructions":
			kind := strings.TrimSuffix(p.key.Value, "s")
			named, err := t.mapping(p.value, p.key.Value)
			if err != nil {
				return nil, err
			}
			for _, np := range named {
				c, err := t.component(np.value, kind, np.key.Value)
				if err != nil {
					return nil, err
				}
				switch kind {
				case "setter":
					tpl.Setters = append(tpl.Setters, c)
				case "condition":
					tpl.Conditions = append(tpl.Conditions, c)
				default:
					tpl.Instructions = append(tpl.Instructions, c)
				}
			}
		default:
			return nil, t.errorf(p.key, "unexpected key %q in template", p.key.Value)
		}
	}
	if tpl.Name == "" {
		return nil, t.errorf(root, "template requires a name")
	}
	return tpl, nil
}

func (t *translator) lists(n *yaml.Node) ([]*config.List, error) {
	named, err := t.mapping(n, "lists")
	if err != nil {
		return nil, err
	}
	out := make([]*config.List, 0, len(named))
	for _, np := range named {
		props, err := t.properties(np.value, "lists."+np.key.Value)
		if err != nil {
			return nil, err
		}
		l := &config.List{Name: np.key.Value, Source: t.source(np.key)}
		for _, p := range props {
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
				return nil, fmt.Errorf("%s: unexpected key %q in list %q", p.Source, p.Name, l.Name)
			}
		}
		out = append(out, l)
	}
	return out, nil
}

// component translates a setter, condition, instruction or shape mapping.
func (t *translator) component(n *yaml.Node, kind, name string) (*config.Component, error) {
	pairs, err := t.mapping(n, kind)
	if err != nil {
		return nil, err
	}
	c := &config.Component{Kind: kind, Name: name, Source: t.source(n)}
	for _, p := range pairs {
		switch p.key.Value {
		case "type":
			if c.Type, err = t.scalar(p.value, "type"); err != nil {
				return nil, err
			}
		case "variables":
			if c.Variables, err = t.properties(p.value, "variables"); err != nil {
				return nil, err
			}
		case "increments":
			if c.Increments, err = t.properties(p.value, "increments"); err != nil {
				return nil, err
			}
		case "lists":
			if c.Lists, err = t.lists(p.value); err != nil {
				return nil, err
			}
		case "shapes":
			if p.value.Kind != yaml.SequenceNode {
				return nil, t.errorf(p.value, "shapes must be a sequence")
			}
			for _, item := range p.value.Content {
				child, err := t.component(item, "shape", "")
				if err != nil {
					return nil, err
				}
				c.Children = append(c.Children, child)
			}
		case "body":
			child, err := t.component(p.value, "instruction", "")
			if err != nil {
				return nil, err
			}
			c.Children = append(c.Children, child)
		default:
			v, err := t.scalar(p.value, p.key.Value)
			if err != nil {
				return nil, err
			}
			c.Properties = append(c.Properties, config.Property{Name: p.key.Value, Value: v, Source: t.source(p.key)})
		}
	}
	if c.Type == "" {
		return nil, t.errorf(n, "%s requires a type", kind)
	}
	return c, nil
}
