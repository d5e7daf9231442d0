// Package yaml_adapter reads object templates written in YAML into the
// format-agnostic config model. A file holds one template per YAML document.
//
// The document layout mirrors the HCL form:
//
//	name: tower
//	variables:
//	  height: 3 + 4
//	lists:
//	  floors: {size: height / 2, value: i * 4}
//	setters:
//	  walls: {type: single, material: stone}
//	instructions:
//	  shell:
//	    type: shapes
//	    shapes:
//	      - {type: cuboid, x: 0, y: 0, z: 0, width: 3, height: height, depth: 3, setter: walls}
//
// Mappings are walked as nodes so that declaration order survives.
package yaml_adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Extensions handled by this loader.
var Extensions = []string{".yaml", ".yml"}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML template loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every document of one YAML file.
func (l *Loader) Load(ctx context.Context, path string) ([]*config.Template, error) {
	logger := ctxlog.FromContext(ctx).With("file", path)
	logger.Debug("YAML loader started.")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}
	defer f.Close()

	t := &translator{file: path}
	var templates []*config.Template
	dec := yaml.NewDecoder(f)
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		tpl, err := t.template(doc.Content[0])
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}

	logger.Debug("YAML loading complete.", "templates", len(templates))
	return templates, nil
}
