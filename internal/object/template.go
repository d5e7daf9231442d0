package object

import (
	"fmt"
	"math/rand"

	"github.com/vk/iwgo/internal/condition"
	"github.com/vk/iwgo/internal/instruction"
	"github.com/vk/iwgo/internal/material"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// Template is a built object template. It is not safe for concurrent use;
// callers that place the same template from several goroutines should build
// one instance each.
type Template struct {
	name     string
	source   string
	seed     int64
	position world.Pos

	scope      *value.Scope
	setters    *material.Set
	conditions []*condition.Condition
	// all holds every instruction in declaration order; program only those
	// not referenced by a repeat.
	all     []instruction.Instruction
	program []instruction.Instruction
	folded  int
}

// NamedValue is a variable snapshot.
type NamedValue struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// NamedList is a list snapshot.
type NamedList struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Source returns where the template was declared.
func (t *Template) Source() string { return t.source }

// Seed returns the seed the template was built with.
func (t *Template) Seed() int64 { return t.seed }

// Position returns the origin of the last Place.
func (t *Template) Position() world.Pos { return t.position }

// Folded returns how many variables and lists were folded into constants.
func (t *Template) Folded() int { return t.folded }

// Instructions returns the names of the top-level instructions in
// execution order.
func (t *Template) Instructions() []string {
	names := make([]string, len(t.program))
	for i, in := range t.program {
		names[i] = in.Name()
	}
	return names
}

func (t *Template) scopes() []*value.Scope {
	out := []*value.Scope{t.scope}
	for _, in := range t.all {
		out = append(out, in.Scopes()...)
	}
	return out
}

// SetRandom replaces the random source of every component.
func (t *Template) SetRandom(r *rand.Rand) {
	t.scope.SetRandom(r)
	t.setters.SetRandom(r)
	for _, c := range t.conditions {
		c.SetRandom(r)
	}
	for _, in := range t.all {
		in.SetRandom(r)
	}
}

// Reseed installs a fresh random source seeded with seed.
func (t *Template) Reseed(seed int64) {
	t.seed = seed
	t.SetRandom(rand.New(rand.NewSource(seed)))
}

// Randomize recomputes variables, lists, conditions and the instruction
// tree, in that order.
func (t *Template) Randomize() error {
	if err := t.scope.Calculate(); err != nil {
		return err
	}
	for _, c := range t.conditions {
		if err := c.Randomize(); err != nil {
			return err
		}
	}
	for _, in := range t.program {
		if err := in.Randomize(); err != nil {
			return fmt.Errorf("instruction %q: %w", in.Name(), err)
		}
	}
	return nil
}

// CanPlace reports whether every condition holds at pos.
func (t *Template) CanPlace(w world.World, pos world.Pos) bool {
	for _, c := range t.conditions {
		if !c.Check(w, pos) {
			return false
		}
	}
	return true
}

// Place executes every top-level instruction relative to pos using the
// values of the last Randomize.
func (t *Template) Place(w world.World, pos world.Pos) error {
	t.position = pos
	for _, in := range t.program {
		if err := in.Execute(w, pos); err != nil {
			return fmt.Errorf("template %q instruction %q: %w", t.name, in.Name(), err)
		}
	}
	return nil
}

// Variable returns the current value of a template variable.
func (t *Template) Variable(name string) (float64, bool) {
	v, ok := t.scope.Lookup(name)
	if !ok {
		return 0, false
	}
	return v.Get(), true
}

// List returns the current elements of a template list.
func (t *Template) List(name string) ([]float64, bool) {
	l, ok := t.scope.LookupList(name)
	if !ok {
		return nil, false
	}
	return l.Values(), true
}

// Variables returns a snapshot of the template variables in declaration
// order.
func (t *Template) Variables() []NamedValue {
	vars := t.scope.Variables()
	out := make([]NamedValue, len(vars))
	for i, v := range vars {
		out[i] = NamedValue{Name: v.Name(), Value: v.Get()}
	}
	return out
}

// Lists returns a snapshot of the template lists in declaration order.
func (t *Template) Lists() []NamedList {
	lists := t.scope.Lists()
	out := make([]NamedList, len(lists))
	for i, l := range lists {
		out[i] = NamedList{Name: l.Name(), Values: l.Values()}
	}
	return out
}
