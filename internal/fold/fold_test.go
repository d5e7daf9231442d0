package fold

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/iwgo/internal/expr"
	"github.com/vk/iwgo/internal/value"
)

type snapshot struct {
	vars  map[string]float64
	lists map[string][]float64
}

func take(scopes ...*value.Scope) snapshot {
	s := snapshot{vars: map[string]float64{}, lists: map[string][]float64{}}
	for _, sc := range scopes {
		for _, v := range sc.Variables() {
			s.vars[sc.Path()+"."+v.Name()] = v.Get()
		}
		for _, l := range sc.Lists() {
			s.lists[sc.Path()+"."+l.Name()] = l.Values()
		}
	}
	return s
}

// build creates a two-level scope tree without random terms.
func build(t *testing.T) (*value.Scope, *value.Scope) {
	t.Helper()
	root := value.NewScope("tpl", expr.NewCompiler())
	for _, kv := range [][2]string{
		{"w", "3"},
		{"h", "w * 2 + 0.5"},
		{"area", "w * h"},
		{"angle", "sin(PI / 7) * h"},
	} {
		_, err := root.Define(kv[0], kv[1])
		require.NoError(t, err)
	}
	_, err := root.DefineList(value.ListSpec{Name: "rings", Size: "w + 1", Value: "h / (i + 1)", Increment: "0.1"})
	require.NoError(t, err)
	_, err = root.DefineList(value.ListSpec{Name: "scaled", Size: "3", Value: "rings * area"})
	require.NoError(t, err)

	child := root.Child("walls")
	_, err = child.Define("offset", "area / 3 + rings[2]")
	require.NoError(t, err)

	require.NoError(t, root.Resolve())
	require.NoError(t, child.Resolve())
	return root, child
}

func calculate(t *testing.T, scopes ...*value.Scope) {
	t.Helper()
	for _, s := range scopes {
		require.NoError(t, s.Calculate())
	}
}

func TestFold_Soundness(t *testing.T) {
	plainRoot, plainChild := build(t)
	calculate(t, plainRoot, plainChild)
	calculate(t, plainRoot, plainChild)
	want := take(plainRoot, plainChild)

	root, child := build(t)
	calculate(t, root, child)
	folded := Fold(root, child)
	assert.Equal(t, 6, folded)

	calculate(t, root, child)
	assert.Equal(t, want, take(root, child))

	for _, v := range append(root.Variables(), child.Variables()...) {
		assert.True(t, v.Static(), v.Name())
	}
	for _, l := range root.Lists() {
		assert.True(t, l.Static(), l.Name())
	}
	assert.Zero(t, Fold(root, child))
}

func TestFold_KeepsRandomSubtrees(t *testing.T) {
	root := value.NewScope("tpl", expr.NewCompiler())
	r, err := root.Define("r", "ranI=1-6")
	require.NoError(t, err)
	dep, err := root.Define("dep", "r * 2")
	require.NoError(t, err)
	inline, err := root.Define("inline", "ranF(0, 1)")
	require.NoError(t, err)
	fixed, err := root.Define("fixed", "2 * 21")
	require.NoError(t, err)
	l, err := root.DefineList(value.ListSpec{Name: "l", Size: "2", Value: "dep + i"})
	require.NoError(t, err)
	require.NoError(t, root.Resolve())

	root.SetRandom(rand.New(rand.NewSource(5)))
	calculate(t, root)
	assert.Zero(t, Fold(root))

	assert.False(t, r.Static())
	assert.False(t, dep.Static())
	assert.False(t, inline.Static())
	assert.True(t, fixed.Static())
	assert.False(t, l.Static())
}

func TestFold_SkipsIncrementables(t *testing.T) {
	root := value.NewScope("tpl", expr.NewCompiler())
	y, err := root.Define("y", "1")
	require.NoError(t, err)
	top, err := root.Define("top", "y + 1")
	require.NoError(t, err)
	require.NoError(t, root.Resolve())

	y.SetValue(value.NewIncrementable(y.Value(), value.NewConstant(1)))
	calculate(t, root)
	assert.Zero(t, Fold(root))
	assert.False(t, top.Static())
}
