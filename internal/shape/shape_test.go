package shape

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/expr"
	"github.com/vk/iwgo/internal/material"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

func component(typ string, props ...string) *config.Component {
	c := &config.Component{Kind: "shape", Type: typ}
	for i := 0; i+1 < len(props); i += 2 {
		c.Properties = append(c.Properties, config.Property{Name: props[i], Value: props[i+1]})
	}
	return c
}

func fixture(t *testing.T) (*value.Scope, *material.Set) {
	t.Helper()
	s := value.NewScope("tpl", expr.NewCompiler())
	_, err := s.Define("size", "3")
	require.NoError(t, err)
	require.NoError(t, s.Resolve())

	set := material.NewSet()
	for _, name := range []string{"stone", "glass"} {
		st, err := material.DefaultParsers().Parse(&config.Component{
			Kind: "setter", Type: "single",
			Properties: []config.Property{{Name: "material", Value: name}},
		}, world.DefaultPalette())
		require.NoError(t, err)
		require.NoError(t, set.Add(name, st))
	}
	return s, set
}

func place(t *testing.T, c *config.Component) *world.Memory {
	t.Helper()
	s, set := fixture(t)
	sh, err := New(c, s, DefaultVolumes(), set)
	require.NoError(t, err)
	sh.SetRandom(rand.New(rand.NewSource(1)))
	require.NoError(t, sh.Randomize())
	w := world.NewMemory()
	require.NoError(t, sh.Place(w, world.Pos{X: 100, Y: 10, Z: -5}))
	return w
}

func TestCuboid_OuterAndInner(t *testing.T) {
	w := place(t, component("cuboid",
		"x", "1", "width", "size", "height", "size", "depth", "size",
		"outer_setter", "stone", "inner_setter", "glass"))

	assert.Equal(t, 27, w.Len())
	glass, _ := world.DefaultPalette().LookupMaterial("glass")
	assert.Equal(t, glass, w.MaterialAt(world.Pos{X: 102, Y: 11, Z: -4}))
	lo, hi, ok := w.Bounds()
	require.True(t, ok)
	assert.Equal(t, world.Pos{X: 101, Y: 10, Z: -5}, lo)
	assert.Equal(t, world.Pos{X: 103, Y: 12, Z: -3}, hi)
}

func TestSphere_HollowWithNone(t *testing.T) {
	w := place(t, component("sphere", "radius", "1", "setter", "stone", "inner_setter", "none"))
	assert.Equal(t, 18, w.Len())
	assert.Equal(t, world.Air, w.MaterialAt(world.Pos{X: 100, Y: 10, Z: -5}))
}

func TestSphere_AxisRadii(t *testing.T) {
	w := place(t, component("sphere", "rx", "2", "ry", "0", "rz", "0", "setter", "stone"))
	assert.Equal(t, 5, w.Len())
}

func TestLine(t *testing.T) {
	w := place(t, component("line", "length_y", "size + 1", "setter", "stone"))
	assert.Equal(t, 5, w.Len())
	_, hi, _ := w.Bounds()
	assert.Equal(t, world.Pos{X: 100, Y: 14, Z: -5}, hi)
}

func TestShape_LocalVariables(t *testing.T) {
	c := component("cuboid", "width", "w", "height", "1", "depth", "1", "setter", "stone")
	c.Variables = []config.Property{{Name: "w", Value: "size * 2"}}
	w := place(t, c)
	assert.Equal(t, 6, w.Len())
}

func TestNew_Errors(t *testing.T) {
	s, set := fixture(t)
	testCases := []struct {
		name string
		c    *config.Component
		want string
	}{
		{"unknown type", component("pyramid", "setter", "stone"), "unknown shape type"},
		{"missing size", component("cuboid", "width", "1", "height", "1", "setter", "stone"), `"depth"`},
		{"missing radius", component("sphere", "setter", "stone"), `"radius"`},
		{"missing setter", component("line"), "setter"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.c, s, DefaultVolumes(), set)
			assert.ErrorContains(t, err, tc.want)
		})
	}

	_, err := New(component("line", "length_x", "ghost", "setter", "stone"), s, DefaultVolumes(), set)
	var missing *value.MissingReferenceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "ghost", missing.Name)
}
