package material

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// Setter writes materials into a world.
type Setter interface {
	// Pick returns the material for a voxel. ok is false when the voxel
	// should be left untouched.
	Pick(outer bool) (m world.Material, ok bool)
	// Place picks a material and writes it at p, honouring any replace
	// filter.
	Place(w world.World, p world.Pos, outer bool) error
	// SetRandom sets the random source; deterministic setters ignore it.
	SetRandom(r *rand.Rand)
}

// ParseFunc builds a setter from its description.
type ParseFunc func(c *config.Component, m world.Materials) (Setter, error)

// Parsers maps setter types to their parse functions.
type Parsers map[string]ParseFunc

// DefaultParsers returns a fresh table with the built-in setter types.
func DefaultParsers() Parsers {
	return Parsers{
		"single":  parseSingle,
		"layered": parseLayered,
		"random":  parseRandom,
	}
}

// Parse builds the setter described by c.
func (p Parsers) Parse(c *config.Component, m world.Materials) (Setter, error) {
	fn, ok := p[c.Type]
	if !ok {
		return nil, fmt.Errorf("unknown setter type %q", c.Type)
	}
	return fn(c, m)
}

// filter restricts writes to voxels currently holding one of a set of
// materials. A nil filter allows everything.
type filter map[world.MaterialID]struct{}

func (f filter) place(s Setter, w world.World, p world.Pos, outer bool) error {
	m, ok := s.Pick(outer)
	if !ok {
		return nil
	}
	if f != nil {
		if _, allowed := f[w.MaterialAt(p)]; !allowed {
			return nil
		}
	}
	return w.SetMaterial(p, m)
}

func parseFilter(c *config.Component, m world.Materials) (filter, error) {
	text, ok := c.Property("replace")
	if !ok {
		return nil, nil
	}
	set, err := world.ParseMaterialSet(m, text)
	if err != nil {
		return nil, materialError(err)
	}
	return filter(set), nil
}

// materialError turns an unknown material into a MissingReferenceError.
func materialError(err error) error {
	var unknown *world.UnknownMaterialError
	if errors.As(err, &unknown) {
		return &value.MissingReferenceError{Kind: "material", Name: unknown.Name}
	}
	return err
}

func parseMaterial(m world.Materials, text string) (world.Material, error) {
	mat, err := world.ParseMaterial(m, text)
	if err != nil {
		return world.Material{}, materialError(err)
	}
	return mat, nil
}

// Single writes one material everywhere.
type Single struct {
	Material world.Material
	filter   filter
}

func parseSingle(c *config.Component, m world.Materials) (Setter, error) {
	text, err := c.Require("material")
	if err != nil {
		return nil, err
	}
	mat, err := parseMaterial(m, text)
	if err != nil {
		return nil, err
	}
	f, err := parseFilter(c, m)
	if err != nil {
		return nil, err
	}
	return &Single{Material: mat, filter: f}, nil
}

func (s *Single) Pick(bool) (world.Material, bool) { return s.Material, true }
func (s *Single) SetRandom(*rand.Rand) {}

func (s *Single) Place(w world.World, p world.Pos, outer bool) error {
	return s.filter.place(s, w, p, outer)
}

// Layered writes one material on the surface and another inside. A layered
// setter without an inner material leaves inner voxels untouched.
type Layered struct {
	Outer    world.Material
	Inner    world.Material
	HasInner bool
	filter   filter
}

func parseLayered(c *config.Component, m world.Materials) (Setter, error) {
	text, err := c.Require("outer")
	if err != nil {
		return nil, err
	}
	l := &Layered{}
	if l.Outer, err = parseMaterial(m, text); err != nil {
		return nil, err
	}
	if text, ok := c.Property("inner"); ok && strings.TrimSpace(text) != "" {
		if l.Inner, err = parseMaterial(m, text); err != nil {
			return nil, err
		}
		l.HasInner = true
	}
	if l.filter, err = parseFilter(c, m); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Layered) Pick(outer bool) (world.Material, bool) {
	if outer {
		return l.Outer, true
	}
	return l.Inner, l.HasInner
}

func (l *Layered) SetRandom(*rand.Rand) {}

func (l *Layered) Place(w world.World, p world.Pos, outer bool) error {
	return l.filter.place(l, w, p, outer)
}

// Random draws one of several materials per voxel, proportionally to the
// weights.
type Random struct {
	Materials []world.Material
	// cumulative holds the running sum of the weights.
	cumulative []float64
	rng        *rand.Rand
	filter     filter
}

func parseRandom(c *config.Component, m world.Materials) (Setter, error) {
	text, err := c.Require("materials")
	if err != nil {
		return nil, err
	}
	r := &Random{}
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		mat, err := parseMaterial(m, part)
		if err != nil {
			return nil, err
		}
		r.Materials = append(r.Materials, mat)
	}
	if len(r.Materials) == 0 {
		return nil, fmt.Errorf("property \"materials\" lists no materials")
	}

	weights := make([]float64, len(r.Materials))
	for i := range weights {
		weights[i] = 1
	}
	if text, ok := c.Property("weights"); ok {
		parts := strings.Split(text, ",")
		if len(parts) != len(weights) {
			return nil, fmt.Errorf("got %d weights for %d materials", len(parts), len(weights))
		}
		for i, part := range parts {
			w, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil || w < 0 {
				return nil, fmt.Errorf("invalid weight %q", part)
			}
			weights[i] = w
		}
	}
	total := 0.0
	for _, w := range weights {
		total += w
		r.cumulative = append(r.cumulative, total)
	}
	if total <= 0 {
		return nil, fmt.Errorf("weights must not all be zero")
	}

	if r.filter, err = parseFilter(c, m); err != nil {
		return nil, err
	}
	return r, nil
}

// Pick draws a material. Without a random source it always picks the first.
func (r *Random) Pick(bool) (world.Material, bool) {
	if r.rng == nil {
		return r.Materials[0], true
	}
	total := r.cumulative[len(r.cumulative)-1]
	x := r.rng.Float64() * total
	i := sort.SearchFloat64s(r.cumulative, x)
	for i < len(r.cumulative)-1 && r.cumulative[i] <= x {
		i++
	}
	return r.Materials[i], true
}

func (r *Random) SetRandom(rng *rand.Rand) { r.rng = rng }

func (r *Random) Place(w world.World, p world.Pos, outer bool) error {
	return r.filter.place(r, w, p, outer)
}
