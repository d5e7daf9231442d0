// Package shape implements the geometric primitives an instruction places:
// cuboids, spheres and lines. A shape pairs a Volume with the material
// picker that writes its voxels.
package shape

import (
	"fmt"
	"math/rand"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/material"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// Shape is a volume with a material picker. Shapes may declare their own
// variables, which live in a child of the enclosing scope.
type Shape struct {
	Type   string
	Volume Volume
	Picker material.Picker
	scope  *value.Scope
}

// New builds the shape described by c.
func New(c *config.Component, parent *value.Scope, volumes Volumes, setters *material.Set) (*Shape, error) {
	scope := parent
	if len(c.Variables) > 0 || len(c.Lists) > 0 {
		scope = parent.Child(c.Type)
		if err := scope.DefineAll(c.Variables, c.Lists); err != nil {
			return nil, err
		}
	}
	vol, err := volumes.Build(c, scope)
	if err != nil {
		return nil, err
	}
	picker, err := material.NewPicker(c, setters)
	if err != nil {
		return nil, err
	}
	sh := &Shape{Type: c.Type, Volume: vol, Picker: picker}
	if scope != parent {
		sh.scope = scope
	}
	return sh, nil
}

// Scope returns the shape's own scope, or nil when it declares no
// variables.
func (s *Shape) Scope() *value.Scope { return s.scope }

// Randomize recomputes the shape's variables, then its position and size.
func (s *Shape) Randomize() error {
	if s.scope != nil {
		if err := s.scope.Calculate(); err != nil {
			return err
		}
	}
	if err := s.Volume.Calculate(); err != nil {
		return fmt.Errorf("%s: %w", s.Type, err)
	}
	return nil
}

// SetRandom forwards r to the shape's values.
func (s *Shape) SetRandom(r *rand.Rand) {
	if s.scope != nil {
		s.scope.SetRandom(r)
	}
	s.Volume.SetRandom(r)
}

// Place writes the shape relative to origin. The first write error stops
// the sweep.
func (s *Shape) Place(w world.World, origin world.Pos) error {
	var err error
	s.Volume.Sweep(func(x, y, z int, outer bool) bool {
		err = s.Picker.Place(w, origin.Add(x, y, z), outer)
		return err == nil
	})
	return err
}
