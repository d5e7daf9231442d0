// Package instruction implements the executable steps of an object
// template: placing shapes, placing a single block and repeating another
// instruction while incrementing variables.
package instruction

import (
	"fmt"
	"math/rand"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/material"
	"github.com/vk/iwgo/internal/shape"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// Instruction is one step of a template.
type Instruction interface {
	Name() string
	// Scope returns the instruction's own variable scope.
	Scope() *value.Scope
	// Scopes returns the instruction's scope followed by every scope nested
	// inside it, for folding.
	Scopes() []*value.Scope
	// Randomize recomputes owned variables, then nested values.
	Randomize() error
	// Execute writes into w relative to origin using the values computed
	// by the last Randomize.
	Execute(w world.World, origin world.Pos) error
	SetRandom(r *rand.Rand)
}

// Env carries what instructions need while they are built.
type Env struct {
	Setters   *material.Set
	Materials world.Materials
	Volumes   shape.Volumes
	Parsers   Parsers
	// Resolve returns the top-level instruction with the given name.
	Resolve func(name string) (Instruction, error)
}

// ParseFunc builds an instruction whose variables live in scope.
type ParseFunc func(c *config.Component, scope *value.Scope, env *Env) (Instruction, error)

// Parsers maps instruction types to their parse functions.
type Parsers map[string]ParseFunc

// DefaultParsers returns a fresh table with the built-in instruction types.
func DefaultParsers() Parsers {
	return Parsers{
		"shapes": parseShapes,
		"block":  parseBlock,
		"repeat": parseRepeat,
	}
}

// Build creates the instruction described by c in a child of parent.
func Build(c *config.Component, parent *value.Scope, env *Env) (Instruction, error) {
	fn, ok := env.Parsers[c.Type]
	if !ok {
		return nil, fmt.Errorf("unknown instruction type %q", c.Type)
	}
	name := c.Name
	if name == "" {
		name = c.Type
	}
	scope := parent.Child(name)
	if err := scope.DefineAll(c.Variables, c.Lists); err != nil {
		return nil, err
	}
	return fn(c, scope, env)
}

// common holds the name and scope every instruction has.
type common struct {
	name  string
	scope *value.Scope
}

func (c *common) Name() string        { return c.name }
func (c *common) Scope() *value.Scope { return c.scope }

func newCommon(scope *value.Scope) common {
	return common{name: scope.Name(), scope: scope}
}
