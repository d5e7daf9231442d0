package app

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/iwgo/internal/object"
	"github.com/vk/iwgo/internal/value"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// inspection is the YAML document printed by Inspect.
type inspection struct {
	Object       string              `yaml:"object"`
	Source       string              `yaml:"source,omitempty"`
	Seed         int64               `yaml:"seed"`
	Folded       int                 `yaml:"folded"`
	Instructions []string            `yaml:"instructions,omitempty"`
	Variables    []object.NamedValue `yaml:"variables,omitempty"`
	Lists        []object.NamedList  `yaml:"lists,omitempty"`
}

// Inspect randomizes the configured object once and prints its variables
// and lists.
func (a *App) Inspect(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Inspect started.", "object", a.config.Object)

	if err := a.requireObject(); err != nil {
		return err
	}
	if _, err := a.load(ctx); err != nil {
		return err
	}
	t, err := a.registry.Instantiate(ctx, a.config.Object, a.config.Seed)
	if err != nil {
		return err
	}

	out, closeOut, err := a.output()
	if err != nil {
		return err
	}
	switch a.config.Format {
	case FormatHCL:
		err = writeInspectionHCL(out, t)
	default:
		err = writeInspectionYAML(out, t)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}

func writeInspectionYAML(w io.Writer, t *object.Template) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(inspection{
		Object:       t.Name(),
		Source:       t.Source(),
		Seed:         t.Seed(),
		Folded:       t.Folded(),
		Instructions: t.Instructions(),
		Variables:    t.Variables(),
		Lists:        t.Lists(),
	}); err != nil {
		return fmt.Errorf("failed to encode inspection: %w", err)
	}
	return enc.Close()
}

// writeInspectionHCL renders the randomized values as an object block with
// literal values, which loads back as a fully constant template.
func writeInspectionHCL(w io.Writer, t *object.Template) error {
	f := hclwrite.NewEmptyFile()
	block := f.Body().AppendNewBlock("object", []string{t.Name()})
	body := block.Body()

	vars := t.Variables()
	if len(vars) > 0 {
		vb := body.AppendNewBlock("variables", nil).Body()
		for _, v := range vars {
			vb.SetAttributeValue(v.Name, cty.NumberFloatVal(v.Value))
		}
	}

	for _, l := range t.Lists() {
		body.AppendNewline()
		lb := body.AppendNewBlock("list", []string{l.Name}).Body()
		lb.SetAttributeValue("size", cty.NumberIntVal(int64(len(l.Values))))
		if len(l.Values) == 0 {
			lb.SetAttributeValue("value", cty.NumberIntVal(0))
			continue
		}
		elems := make([]cty.Value, len(l.Values))
		for i, v := range l.Values {
			elems[i] = cty.NumberFloatVal(v)
		}
		// value = [v0, v1, ...][i]
		tokens := hclwrite.TokensForValue(cty.TupleVal(elems))
		tokens = append(tokens,
			&hclwrite.Token{Type: hclsyntax.TokenOBrack, Bytes: []byte("[")},
			&hclwrite.Token{Type: hclsyntax.TokenIdent, Bytes: []byte(value.DefaultIndex)},
			&hclwrite.Token{Type: hclsyntax.TokenCBrack, Bytes: []byte("]")},
		)
		lb.SetAttributeRaw("value", tokens)
	}

	fmt.Fprintf(w, "# seed: %d\n", t.Seed())
	_, err := w.Write(f.Bytes())
	return err
}
