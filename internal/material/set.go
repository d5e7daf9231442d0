package material

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// None disables a picker side.
const None = "none"

// Set holds the named setters of a template.
type Set struct {
	setters map[string]Setter
	names   []string
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{setters: make(map[string]Setter)}
}

// Add registers s under name.
func (s *Set) Add(name string, setter Setter) error {
	if _, ok := s.setters[name]; ok {
		return fmt.Errorf("setter %q is already defined", name)
	}
	if name == "" || name == None {
		return fmt.Errorf("invalid setter name %q", name)
	}
	s.setters[name] = setter
	s.names = append(s.names, name)
	return nil
}

// Lookup returns the named setter.
func (s *Set) Lookup(name string) (Setter, error) {
	if setter, ok := s.setters[name]; ok {
		return setter, nil
	}
	return nil, &value.MissingReferenceError{Kind: "setter", Name: name}
}

// Names returns setter names in declaration order.
func (s *Set) Names() []string { return s.names }

// SetRandom forwards r to every setter.
func (s *Set) SetRandom(r *rand.Rand) {
	for _, name := range s.names {
		s.setters[name].SetRandom(r)
	}
}

// Picker chooses the setter for outer and inner voxels of a shape. A nil
// side leaves those voxels untouched.
type Picker struct {
	Outer Setter
	Inner Setter
}

// NewPicker reads the setter, outer_setter and inner_setter properties of c.
// The specific properties override setter; the value "none" disables a side.
func NewPicker(c *config.Component, set *Set) (Picker, error) {
	var p Picker
	found := false
	assign := func(prop string, targets ...*Setter) error {
		name, ok := c.Property(prop)
		if !ok {
			return nil
		}
		found = true
		name = strings.TrimSpace(name)
		var s Setter
		if name != None {
			var err error
			if s, err = set.Lookup(name); err != nil {
				return err
			}
		}
		for _, t := range targets {
			*t = s
		}
		return nil
	}
	if err := assign("setter", &p.Outer, &p.Inner); err != nil {
		return p, err
	}
	if err := assign("outer_setter", &p.Outer); err != nil {
		return p, err
	}
	if err := assign("inner_setter", &p.Inner); err != nil {
		return p, err
	}
	if !found {
		return p, fmt.Errorf("missing required property %q", "setter")
	}
	return p, nil
}

// Place writes the voxel at p with the setter for its side.
func (p Picker) Place(w world.World, pos world.Pos, outer bool) error {
	s := p.Inner
	if outer {
		s = p.Outer
	}
	if s == nil {
		return nil
	}
	return s.Place(w, pos, outer)
}
