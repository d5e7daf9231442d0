package instruction

import (
	"fmt"
	"math/rand"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/material"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// Block places one voxel at (x, y, z) from the origin. The outer property
// selects which side of a layered setter is used; non-zero means outer.
type Block struct {
	common
	pos    value.Vec3
	outer  value.Value
	setter material.Setter
}

func parseBlock(c *config.Component, scope *value.Scope, env *Env) (Instruction, error) {
	b := &Block{common: newCommon(scope)}
	var err error
	if b.pos, err = scope.NewVec3(c.PropertyOr("x", ""), c.PropertyOr("y", ""), c.PropertyOr("z", "")); err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	if b.outer, err = scope.NewValue(c.PropertyOr("outer", "1")); err != nil {
		return nil, fmt.Errorf("outer: %w", err)
	}
	name, err := c.Require("setter")
	if err != nil {
		return nil, err
	}
	if b.setter, err = env.Setters.Lookup(name); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Block) Scopes() []*value.Scope { return []*value.Scope{b.scope} }

func (b *Block) Randomize() error {
	if err := b.scope.Calculate(); err != nil {
		return err
	}
	if err := b.pos.Calculate(); err != nil {
		return err
	}
	return b.outer.Calculate()
}

func (b *Block) Execute(w world.World, origin world.Pos) error {
	x, y, z := b.pos.Ints()
	return b.setter.Place(w, origin.Add(x, y, z), b.outer.Get() != 0)
}

func (b *Block) SetRandom(r *rand.Rand) {
	b.scope.SetRandom(r)
	b.pos.SetRandom(r)
	b.outer.SetRandom(r)
}
