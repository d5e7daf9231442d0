package shape

import (
	"fmt"
	"math/rand"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/geom"
	"github.com/vk/iwgo/internal/value"
)

// Volume is a positioned geometric primitive.
type Volume interface {
	// Calculate recomputes position and size.
	Calculate() error
	SetRandom(r *rand.Rand)
	// Sweep visits every voxel, offset by the volume's position. It reports
	// whether the sweep completed.
	Sweep(visit geom.Visitor) bool
}

// VolumeFunc builds a volume from a description, resolving values in s.
type VolumeFunc func(c *config.Component, s *value.Scope) (Volume, error)

// Volumes maps shape types to volume builders.
type Volumes map[string]VolumeFunc

// DefaultVolumes returns a fresh table with cuboid, sphere and line.
func DefaultVolumes() Volumes {
	return Volumes{
		"cuboid": NewCuboid,
		"sphere": NewSphere,
		"line":   NewLine,
	}
}

// Build builds the volume described by c.
func (v Volumes) Build(c *config.Component, s *value.Scope) (Volume, error) {
	fn, ok := v[c.Type]
	if !ok {
		return nil, fmt.Errorf("unknown %s type %q", c.Kind, c.Type)
	}
	return fn(c, s)
}

// base holds the position shared by all volumes and the extra values each
// kind needs.
type base struct {
	pos    value.Vec3
	params []value.Value
}

func (b *base) Calculate() error {
	if err := b.pos.Calculate(); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	for _, p := range b.params {
		if err := p.Calculate(); err != nil {
			return err
		}
	}
	return nil
}

func (b *base) SetRandom(r *rand.Rand) {
	b.pos.SetRandom(r)
	for _, p := range b.params {
		p.SetRandom(r)
	}
}

func (b *base) offset(visit geom.Visitor) geom.Visitor {
	ox, oy, oz := b.pos.Ints()
	return func(x, y, z int, outer bool) bool {
		return visit(ox+x, oy+y, oz+z, outer)
	}
}

func newBase(c *config.Component, s *value.Scope, names []string, required bool, def string) (base, error) {
	var b base
	var err error
	b.pos, err = s.NewVec3(c.PropertyOr("x", ""), c.PropertyOr("y", ""), c.PropertyOr("z", ""))
	if err != nil {
		return b, err
	}
	for _, name := range names {
		text, ok := c.Property(name)
		if !ok {
			if required {
				return b, fmt.Errorf("missing required property %q", name)
			}
			text = def
		}
		v, err := s.NewValue(text)
		if err != nil {
			return b, fmt.Errorf("%s: %w", name, err)
		}
		b.params = append(b.params, v)
	}
	return b, nil
}

// Cuboid spans width, height and depth voxels from its corner along x, y
// and z.
type Cuboid struct{ base }

// NewCuboid reads x, y, z, width, height and depth.
func NewCuboid(c *config.Component, s *value.Scope) (Volume, error) {
	b, err := newBase(c, s, []string{"width", "height", "depth"}, true, "")
	if err != nil {
		return nil, err
	}
	return &Cuboid{b}, nil
}

func (v *Cuboid) Sweep(visit geom.Visitor) bool {
	return geom.Cuboid(
		value.Round(v.params[0].Get()),
		value.Round(v.params[1].Get()),
		value.Round(v.params[2].Get()),
		v.offset(visit),
	)
}

// Sphere is an ellipsoid around its centre.
type Sphere struct{ base }

// NewSphere reads x, y, z and either radius or rx, ry and rz. Axis radii
// default to radius.
func NewSphere(c *config.Component, s *value.Scope) (Volume, error) {
	radius, hasRadius := c.Property("radius")
	_, hasAxis := c.Property("rx")
	if !hasRadius && !hasAxis {
		return nil, fmt.Errorf("missing required property %q", "radius")
	}
	if !hasRadius {
		radius = "0"
	}
	b, err := newBase(c, s, []string{"rx", "ry", "rz"}, false, radius)
	if err != nil {
		return nil, err
	}
	return &Sphere{b}, nil
}

func (v *Sphere) Sweep(visit geom.Visitor) bool {
	return geom.Ellipsoid(v.params[0].Get(), v.params[1].Get(), v.params[2].Get(), v.offset(visit))
}

// Line runs from its start to start plus (length_x, length_y, length_z).
type Line struct{ base }

// NewLine reads x, y, z and the three lengths, which default to zero.
func NewLine(c *config.Component, s *value.Scope) (Volume, error) {
	b, err := newBase(c, s, []string{"length_x", "length_y", "length_z"}, false, "0")
	if err != nil {
		return nil, err
	}
	return &Line{b}, nil
}

func (v *Line) Sweep(visit geom.Visitor) bool {
	return geom.Line(
		value.Round(v.params[0].Get()),
		value.Round(v.params[1].Get()),
		value.Round(v.params[2].Get()),
		v.offset(visit),
	)
}
