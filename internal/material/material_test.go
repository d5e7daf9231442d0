package material

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

func setter(typ string, props ...string) *config.Component {
	c := &config.Component{Kind: "setter", Name: "s", Type: typ}
	for i := 0; i+1 < len(props); i += 2 {
		c.Properties = append(c.Properties, config.Property{Name: props[i], Value: props[i+1]})
	}
	return c
}

func mustParse(t *testing.T, c *config.Component) Setter {
	t.Helper()
	s, err := DefaultParsers().Parse(c, world.DefaultPalette())
	require.NoError(t, err)
	return s
}

func id(t *testing.T, name string) world.MaterialID {
	t.Helper()
	id, ok := world.DefaultPalette().LookupMaterial(name)
	require.True(t, ok)
	return id
}

func TestSingle(t *testing.T) {
	s := mustParse(t, setter("single", "material", "wool:14"))
	w := world.NewMemory()
	require.NoError(t, s.Place(w, world.Pos{}, false))
	assert.Equal(t, world.Material{ID: id(t, "wool"), Data: 14}, w.At(world.Pos{}))
}

func TestLayered(t *testing.T) {
	s := mustParse(t, setter("layered", "outer", "brick", "inner", "planks"))
	m, ok := s.Pick(true)
	require.True(t, ok)
	assert.Equal(t, id(t, "brick"), m.ID)
	m, ok = s.Pick(false)
	require.True(t, ok)
	assert.Equal(t, id(t, "planks"), m.ID)

	hollow := mustParse(t, setter("layered", "outer", "glass"))
	_, ok = hollow.Pick(false)
	assert.False(t, ok)

	w := world.NewMemory()
	require.NoError(t, hollow.Place(w, world.Pos{}, false))
	assert.Zero(t, w.Len())
}

func TestRandom_Weights(t *testing.T) {
	s := mustParse(t, setter("random", "materials", "stone, dirt, gravel", "weights", "3, 0, 1"))
	s.SetRandom(rand.New(rand.NewSource(11)))

	counts := map[world.MaterialID]int{}
	for i := 0; i < 4000; i++ {
		m, ok := s.Pick(true)
		require.True(t, ok)
		counts[m.ID]++
	}
	assert.Zero(t, counts[id(t, "dirt")])
	assert.InDelta(t, 3000, counts[id(t, "stone")], 200)
	assert.InDelta(t, 1000, counts[id(t, "gravel")], 200)
}

func TestReplaceFilter(t *testing.T) {
	s := mustParse(t, setter("single", "material", "stone", "replace", "air, water"))
	w := world.NewMemory()
	require.NoError(t, w.SetMaterial(world.Pos{X: 1}, world.Material{ID: id(t, "water")}))
	require.NoError(t, w.SetMaterial(world.Pos{X: 2}, world.Material{ID: id(t, "glass")}))

	for x := 0; x < 3; x++ {
		require.NoError(t, s.Place(w, world.Pos{X: x}, true))
	}
	assert.Equal(t, id(t, "stone"), w.MaterialAt(world.Pos{X: 0}))
	assert.Equal(t, id(t, "stone"), w.MaterialAt(world.Pos{X: 1}))
	assert.Equal(t, id(t, "glass"), w.MaterialAt(world.Pos{X: 2}))
}

func TestParse_Errors(t *testing.T) {
	p := DefaultParsers()
	pal := world.DefaultPalette()
	testCases := []struct {
		name string
		c    *config.Component
		want string
	}{
		{"unknown type", setter("rainbow"), "unknown setter type"},
		{"missing material", setter("single"), "missing required property"},
		{"missing outer", setter("layered", "inner", "stone"), "missing required property"},
		{"weights mismatch", setter("random", "materials", "stone,dirt", "weights", "1"), "weights"},
		{"zero weights", setter("random", "materials", "stone", "weights", "0"), "zero"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Parse(tc.c, pal)
			assert.ErrorContains(t, err, tc.want)
		})
	}

	_, err := p.Parse(setter("single", "material", "mithril"), pal)
	var missing *value.MissingReferenceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "material", missing.Kind)
}

func TestPicker(t *testing.T) {
	set := NewSet()
	require.NoError(t, set.Add("stone", mustParse(t, setter("single", "material", "stone"))))
	require.NoError(t, set.Add("glass", mustParse(t, setter("single", "material", "glass"))))
	assert.Error(t, set.Add("stone", nil))
	assert.Equal(t, []string{"stone", "glass"}, set.Names())

	shape := &config.Component{Kind: "shape", Properties: []config.Property{
		{Name: "setter", Value: "stone"},
		{Name: "inner_setter", Value: "none"},
	}}
	p, err := NewPicker(shape, set)
	require.NoError(t, err)

	w := world.NewMemory()
	require.NoError(t, p.Place(w, world.Pos{X: 0}, true))
	require.NoError(t, p.Place(w, world.Pos{X: 1}, false))
	assert.Equal(t, id(t, "stone"), w.MaterialAt(world.Pos{X: 0}))
	assert.Equal(t, world.Air, w.MaterialAt(world.Pos{X: 1}))

	_, err = NewPicker(&config.Component{Kind: "shape", Properties: []config.Property{{Name: "setter", Value: "gold"}}}, set)
	var missing *value.MissingReferenceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "setter", missing.Kind)

	_, err = NewPicker(&config.Component{Kind: "shape"}, set)
	assert.ErrorContains(t, err, "setter")
}
