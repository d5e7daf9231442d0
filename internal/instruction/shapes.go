package instruction

import (
	"math/rand"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/shape"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// Shapes places its shapes in declaration order.
type Shapes struct {
	common
	shapes []*shape.Shape
}

func parseShapes(c *config.Component, scope *value.Scope, env *Env) (Instruction, error) {
	in := &Shapes{common: newCommon(scope)}
	for i, child := range c.Children {
		if child.Kind != "shape" {
			continue
		}
		sh, err := shape.New(child, scope, env.Volumes, env.Setters)
		if err != nil {
			return nil, shapeError(i, child, err)
		}
		in.shapes = append(in.shapes, sh)
	}
	if len(in.shapes) == 0 {
		return nil, errNoShapes
	}
	return in, nil
}

func (s *Shapes) Scopes() []*value.Scope {
	out := []*value.Scope{s.scope}
	for _, sh := range s.shapes {
		if sh.Scope() != nil {
			out = append(out, sh.Scope())
		}
	}
	return out
}

func (s *Shapes) Randomize() error {
	if err := s.scope.Calculate(); err != nil {
		return err
	}
	for _, sh := range s.shapes {
		if err := sh.Randomize(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shapes) Execute(w world.World, origin world.Pos) error {
	for _, sh := range s.shapes {
		if err := sh.Place(w, origin); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shapes) SetRandom(r *rand.Rand) {
	s.scope.SetRandom(r)
	for _, sh := range s.shapes {
		sh.SetRandom(r)
	}
}
