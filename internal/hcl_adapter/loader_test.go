package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/iwgo/internal/config"
)

func writeHCL(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "object.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullTemplate(t *testing.T) {
	path := writeHCL(t, `
object "tower" {
  variables {
    height = 3 + 4
    width  = "2-5"
    label  = "x * 2"
  }

  list "floors" {
    size      = height / 2
    value     = i * 4
    increment = 1
  }

  setter "walls" {
    type     = "single"
    material = "stone"
  }

  condition "ground" {
    type      = "cuboid"
    mode      = "include"
    x         = 0
    y         = -1
    z         = 0
    width     = width
    height    = 1
    depth     = width
    materials = "grass,dirt"
  }

  instruction "shell" {
    type = "shapes"

    shape "cuboid" {
      x      = 0
      y      = 0
      z      = 0
      width  = width
      height = height
      depth  = width
      setter = "walls"
    }
  }

  instruction "stack" {
    type  = "repeat"
    times = 3

    variables {
      off = 0
    }

    increments {
      off = 2
    }

    body {
      type   = "block"
      x      = 0
      y      = off
      z      = 0
      setter = "walls"
    }
  }
}
`)

	templates, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	tpl := templates[0]

	assert.Equal(t, "tower", tpl.Name)
	assert.Equal(t, config.Source{File: path, Line: 2}, tpl.Source)

	require.Len(t, tpl.Variables, 3)
	assert.Equal(t, "height", tpl.Variables[0].Name)
	assert.Equal(t, "3 + 4", tpl.Variables[0].Value)
	assert.Equal(t, "2-5", tpl.Variables[1].Value, "string literals are unquoted")
	assert.Equal(t, "x * 2", tpl.Variables[2].Value)
	assert.Equal(t, 4, tpl.Variables[0].Source.Line)

	require.Len(t, tpl.Lists, 1)
	assert.Equal(t, &config.List{
		Name:      "floors",
		Size:      "height / 2",
		Value:     "i * 4",
		Increment: "1",
		Source:    config.Source{File: path, Line: 9},
	}, tpl.Lists[0])

	require.Len(t, tpl.Setters, 1)
	assert.Equal(t, "setter", tpl.Setters[0].Kind)
	assert.Equal(t, "single", tpl.Setters[0].Type)
	assert.Equal(t, "stone", tpl.Setters[0].PropertyOr("material", ""))
	_, hasType := tpl.Setters[0].Property("type")
	assert.False(t, hasType, "type is lifted out of the properties")

	require.Len(t, tpl.Conditions, 1)
	assert.Equal(t, "-1", tpl.Conditions[0].PropertyOr("y", ""))
	assert.Equal(t, "grass,dirt", tpl.Conditions[0].PropertyOr("materials", ""))

	require.Len(t, tpl.Instructions, 2)
	shell := tpl.Instructions[0]
	assert.Equal(t, "instructions.shell", shell.Key())
	require.Len(t, shell.Children, 1)
	assert.Equal(t, "shape", shell.Children[0].Kind)
	assert.Equal(t, "cuboid", shell.Children[0].Type)
	assert.Equal(t, "walls", shell.Children[0].PropertyOr("setter", ""))

	stack := tpl.Instructions[1]
	assert.Equal(t, "repeat", stack.Type)
	assert.Equal(t, []config.Property{{Name: "off", Value: "0", Source: config.Source{File: path, Line: 51}}}, stack.Variables)
	require.Len(t, stack.Increments, 1)
	assert.Equal(t, "2", stack.Increments[0].Value)
	body := stack.Child("instruction")
	require.NotNil(t, body)
	assert.Equal(t, "block", body.Type)
	assert.Equal(t, "off", body.PropertyOr("y", ""))
}

func TestLoad_AttributeOrder(t *testing.T) {
	path := writeHCL(t, `
object "o" {
  variables {
    z = 1
    a = 2
    m = 3
  }
}
`)
	templates, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	var names []string
	for _, p := range templates[0].Variables {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"z", "a", "m"}, names)
}

func TestLoad_MultipleObjects(t *testing.T) {
	path := writeHCL(t, `
object "a" {}
object "b" {}
`)
	templates, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "a", templates[0].Name)
	assert.Equal(t, "b", templates[1].Name)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", `object "a" {`, "failed to parse HCL file"},
		{"top-level attribute", `x = 1`, `unexpected top-level attribute "x"`},
		{"unknown block", `thing "a" {}`, `unexpected top-level block "thing"`},
		{"missing label", `object {}`, `requires exactly one label`},
		{"object attribute", "object \"a\" {\n  x = 1\n}", `unexpected attribute "x" in object "a"`},
		{"list attribute", "object \"a\" {\n  list \"l\" {\n    foo = 1\n  }\n}", `unexpected attribute "foo" in list "l"`},
		{"missing type", "object \"a\" {\n  setter \"s\" {\n    material = \"stone\"\n  }\n}", "setter block requires a type"},
		{"nested in variables", "object \"a\" {\n  variables {\n    list \"l\" {}\n  }\n}", `block "list" is not allowed inside "variables"`},
		{"unknown nested", "object \"a\" {\n  instruction \"i\" {\n    type = \"shapes\"\n    foo {}\n  }\n}", `unexpected block "foo" in instruction`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().Load(context.Background(), writeHCL(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read HCL file")
}

var _ config.Loader = (*Loader)(nil)
