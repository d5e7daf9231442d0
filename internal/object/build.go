// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package object

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vk/iwgo/internal/condition"
	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/ctxlog"
	"github.com/vk/iwgo/internal/dag"
	"github.com/vk/iwgo/internal/expr"
	"github.com/vk/iwgo/internal/fold"
	"github.com/vk/iwgo/internal/instruction"
	"github.com/vk/iwgo/internal/material"
	"github.com/vk/iwgo/internal/shape"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// Options controls how a template is built.
type Options struct {
	// Materials resolves material names. Defaults to world.DefaultPalette().
	Materials world.Materials
	// Seed seeds the template's random source. Zero means a time based seed.
	Seed int64
	// DisableFolding keeps every variable and list live.
	DisableFolding bool

	// Dispatch tables; nil means the built-in kinds.
	Setters      material.Parsers
	Volumes      shape.Volumes
	Instructions instruction.Parsers
}

func (o *Options) defaults() {
	if o.Materials == nil {
		o.Materials = world.DefaultPalette()
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Setters == nil {
		o.Setters = material.DefaultParsers()
	}
	if o.Volumes == nil {
		o.Volumes = shape.DefaultVolumes()
	}
	if o.Instructions == nil {
		o.Instructions = instruction.DefaultParsers()
	}
}

// Build turns a template description into a randomized, ready to place
// Template. Every failure is a *LoadError, usually wrapping a
// *ComponentLoadError.
func Build(ctx context.Context, desc *config.Template, opts Options) (*Template, error) {
	logger := ctxlog.FromContext(ctx).With("template", desc.Name)
	opts.defaults()

	fail := func(key string, err error) (*Template, error) {
		if key != "" {
			err = &ComponentLoadError{Key: key, Err: err}
		}
		return nil, &LoadError{Template: desc.Name, Source: desc.Source.String(), Err: err}
	}
	if desc.Name == "" {
		return fail("name", fmt.Errorf("template name must be set"))
	}

	t := &Template{
		name:    desc.Name,
		source:  desc.Source.String(),
		seed:    opts.Seed,
		scope:   value.NewScope(desc.Name, expr.NewCompiler()),
		setters: material.NewSet(),
	}

	for _, p := range desc.Variables {
		if _, err := t.scope.Define(p.Name, p.Value); err != nil {
			return fail("variables."+p.Name, err)
		}
	}
	for _, l := range desc.Lists {
		spec := value.ListSpec{Name: l.Name, Size: l.Size, Value: l.Value, Increment: l.Increment, Index: l.Index}
		if _, err := t.scope.DefineList(spec); err != nil {
			return fail("lists."+l.Name, err)
		}
	}
	if err := t.scope.ResolveVariables(); err != nil {
		return fail("variables", err)
	}
	if err := t.scope.ResolveLists(); err != nil {
		return fail("lists", err)
	}

	for _, c := range desc.Setters {
		s, err := opts.Setters.Parse(c, opts.Materials)
		if err == nil {
			err = t.setters.Add(c.Name, s)
		}
		if err != nil {
			return fail(c.Key(), err)
		}
	}

	volumes := condition.Volumes()
	for _, c := range desc.Conditions {
		cond, err := condition.New(c, t.scope, volumes, opts.Materials)
		if err != nil {
			return fail(c.Key(), err)
		}
		t.conditions = append(t.conditions, cond)
	}

	if err := t.buildInstructions(desc.Instructions, opts); err != nil {
		return fail("", err)
	}

	t.SetRandom(rand.New(rand.NewSource(opts.Seed)))
	if err := t.Randomize(); err != nil {
		return fail("", fmt.Errorf("initial randomization: %w", err))
	}

	if !opts.DisableFolding {
		t.folded = fold.Fold(t.scopes()...)
	}

	logger.Debug("Template built.",
		"variables", len(desc.Variables),
		"lists", len(desc.Lists),
		"instructions", len(t.all),
		"folded", t.folded,
	)
	return t, nil
}

// instructionRef is a node of the instruction reference graph.
type instructionRef struct {
	name string
	refs []string
}

func (r instructionRef) ID() string             { return r.name }
func (r instructionRef) Dependencies() []string { return r.refs }
func (r instructionRef) Calculate() error       { return nil }

// references collects the instruction names a component and its inline
// bodies refer to.
func references(c *config.Component) []string {
	var out []string
	if ref, ok := c.Property("instruction"); ok && c.Type == "repeat" {
		out = append(out, ref)
	}
	for _, child := range c.Children {
		if child.Kind == "instruction" {
			out = append(out, references(child)...)
		}
	}
	return out
}

func (t *Template) buildInstructions(descs []*config.Component, opts Options) error {
	byName := make(map[string]*config.Component, len(descs))
	nodes := make([]instructionRef, 0, len(descs))
	referenced := make(map[string]bool)
	for _, c := range descs {
		if _, dup := byName[c.Name]; dup {
			return &ComponentLoadError{Key: c.Key(), Err: fmt.Errorf("instruction %q is already defined", c.Name)}
		}
		byName[c.Name] = c
		refs := references(c)
		for _, r := range refs {
			referenced[r] = true
		}
		nodes = append(nodes, instructionRef{name: c.Name, refs: refs})
	}

	g, err := dag.FromEntities(nodes)
	if err == nil {
		err = g.DetectCycles()
	}
	if err != nil {
		return &ComponentLoadError{Key: "instructions", Err: err}
	}

	built := make(map[string]instruction.Instruction, len(descs))
	env := &instruction.Env{
		Setters:   t.setters,
		Materials: opts.Materials,
		Volumes:   opts.Volumes,
		Parsers:   opts.Instructions,
	}
	var resolve func(name string) (instruction.Instruction, error)
	resolve = func(name string) (instruction.Instruction, error) {
		if in, ok := built[name]; ok {
			return in, nil
		}
		c, ok := byName[name]
		if !ok {
			return nil, &value.MissingReferenceError{Kind: "instruction", Name: name, Scope: t.name}
		}
		in, err := instruction.Build(c, t.scope, env)
		if err != nil {
			return nil, &ComponentLoadError{Key: c.Key(), Err: err}
		}
		built[name] = in
		return in, nil
	}
	env.Resolve = resolve

	for _, c := range descs {
		in, err := resolve(c.Name)
		if err != nil {
			return err
		}
		t.all = append(t.all, in)
		if !referenced[c.Name] {
			t.program = append(t.program, in)
		}
	}
	return nil
}
