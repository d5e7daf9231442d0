// Package condition implements volume predicates that decide whether a
// template may be placed: every voxel of the volume must (include mode) or
// must not (exclude mode) hold one of a set of materials.
package condition

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/shape"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// Mode selects how the material set is applied.
type Mode int

const (
	// Include requires every voxel to hold a listed material.
	Include Mode = iota
	// Exclude requires every voxel to hold a material that is not listed.
	Exclude
)

// ParseMode parses "include" or "exclude".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "include":
		return Include, nil
	case "exclude":
		return Exclude, nil
	}
	return Include, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	if m == Exclude {
		return "exclude"
	}
	return "include"
}

// Allows reports whether a voxel holding id satisfies the mode.
func (m Mode) Allows(id world.MaterialID, set map[world.MaterialID]struct{}) bool {
	_, in := set[id]
	return in == (m == Include)
}

// Volumes returns the volume builders conditions accept.
func Volumes() shape.Volumes {
	all := shape.DefaultVolumes()
	return shape.Volumes{"cuboid": all["cuboid"], "sphere": all["sphere"]}
}

// Condition is a named volume predicate.
type Condition struct {
	Name      string
	Mode      Mode
	Volume    shape.Volume
	Materials map[world.MaterialID]struct{}
}

// New builds the condition described by c.
func New(c *config.Component, s *value.Scope, volumes shape.Volumes, m world.Materials) (*Condition, error) {
	mode, err := ParseMode(c.PropertyOr("mode", ""))
	if err != nil {
		return nil, err
	}
	text, err := c.Require("materials")
	if err != nil {
		return nil, err
	}
	set, err := world.ParseMaterialSet(m, text)
	if err != nil {
		var unknown *world.UnknownMaterialError
		if errors.As(err, &unknown) {
			return nil, &value.MissingReferenceError{Kind: "material", Name: unknown.Name}
		}
		return nil, err
	}
	vol, err := volumes.Build(c, s)
	if err != nil {
		return nil, err
	}
	return &Condition{Name: c.Name, Mode: mode, Volume: vol, Materials: set}, nil
}

// Randomize recomputes position and size.
func (c *Condition) Randomize() error {
	if err := c.Volume.Calculate(); err != nil {
		return fmt.Errorf("condition %q: %w", c.Name, err)
	}
	return nil
}

// SetRandom forwards r to the volume.
func (c *Condition) SetRandom(r *rand.Rand) { c.Volume.SetRandom(r) }

// Check reports whether every voxel of the volume, relative to origin,
// satisfies the mode. It stops at the first violating voxel.
func (c *Condition) Check(w world.World, origin world.Pos) bool {
	return c.Volume.Sweep(func(x, y, z int, _ bool) bool {
		return c.Mode.Allows(w.MaterialAt(origin.Add(x, y, z)), c.Materials)
	})
}
