// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Loader reads template descriptions from one file.
type Loader interface {
	Load(ctx context.Context, path string) ([]*Template, error)
}

// Source locates a definition in its file.
type Source struct {
	File string
	Line int
}

func (s Source) String() string {
	if s.File == "" {
		return ""
	}
	if s.Line == 0 {
		return s.File
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// Property is a named value kept as source text.
type Property struct {
	Name   string
	Value  string
	Source Source
}

// List is the description of a list.
type List struct {
	Name      string
	Size      string
	Value     string
	Increment string
	Index     string
	Source    Source
}

// Template is the description of one object template. All slices keep the
// declaration order of the source file.
type Template struct {
	Name         string
	Source       Source
	Variables    []Property
	Lists        []*List
	Setters      []*Component
	Conditions   []*Component
	Instructions []*Component
}

// Component describes a setter, condition, shape or instruction.
type Component struct {
	// Kind is the family: "setter", "condition", "shape" or "instruction".
	Kind string
	Name string
	// Type selects the variant within the family, e.g. "cuboid".
	Type       string
	Properties []Property
	Variables  []Property
	Lists      []*List
	Increments []Property
	// Children holds nested shapes of a shapes instruction, or the inline
	// body of a repeat.
	Children []*Component
	Source   Source
}

// Key returns the dotted key used in error messages, e.g.
// "instructions.walls".
func (c *Component) Key() string {
	family := c.Kind + "s"
	if c.Name == "" {
		return family
	}
	return family + "." + c.Name
}

// Property returns the value of the named property.
func (c *Component) Property(name string) (string, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// PropertyOr returns the value of the named property or def.
func (c *Component) PropertyOr(name, def string) string {
	if v, ok := c.Property(name); ok {
		return v
	}
	return def
}

// Require returns the value of a mandatory property.
func (c *Component) Require(name string) (string, error) {
	v, ok := c.Property(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("missing required property %q", name)
	}
	return v, nil
}

// Bool parses an optional boolean property.
func (c *Component) Bool(name string, def bool) (bool, error) {
	v, ok := c.Property(name)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("property %q: %w", name, err)
	}
	return b, nil
}

// Child returns the first child of the given kind.
func (c *Component) Child(kind string) *Component {
	for _, ch := range c.Children {
		if ch.Kind == kind {
			return ch
		}
	}
	return nil
}
