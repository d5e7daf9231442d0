// Package hcl_adapter reads object templates written in HCL into the
// format-agnostic config model.
package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/ctxlog"
)

// Extension is the file extension handled by this loader.
const Extension = ".hcl"

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL template loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses one HCL file. Every top-level `object "name"` block becomes a
// template.
func (l *Loader) Load(ctx context.Context, path string) ([]*config.Template, error) {
	logger := ctxlog.FromContext(ctx).With("file", path)
	logger.Debug("HCL loader started.")

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read HCL file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("HCL file %s: unexpected body type %T", path, file.Body)
	}

	t := &translator{src: src, file: path}
	if attrs := sortedAttributes(body); len(attrs) > 0 {
		return nil, t.errorf(attrs[0].SrcRange.Start.Line, "unexpected top-level attribute %q", attrs[0].Name)
	}

	var templates []*config.Template
	for _, block := range body.Blocks {
		if block.Type != "object" {
			return nil, t.errorf(block.TypeRange.Start.Line, "unexpected top-level block %q, expected \"object\"", block.Type)
		}
		tpl, err := t.object(block)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}

	logger.Debug("HCL loading complete.", "templates", len(templates))
	return templates, nil
}
