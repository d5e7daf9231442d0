package expr_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/iwgo/internal/expr"
)

func eval(t *testing.T, c *expr.Compiler, src string, b expr.Bindings) float64 {
	t.Helper()
	e, err := c.Compile(src)
	require.NoError(t, err)
	v, err := e.Eval(b)
	require.NoError(t, err)
	return v
}

func TestCompile_Arithmetic(t *testing.T) {
	c := expr.NewCompiler()
	testCases := []struct {
		src  string
		want float64
	}{
		{"2+3", 5},
		{"7 % 4", 3},
		{"10 / 4", 2.5},
		{"-(2 * 3)", -6},
		{"PI", math.Pi},
		{"floor(E)", 2},
		{"pow(2, 10)", 1024},
		{"max(1, 9, 3)", 9},
		{"sqrt(16)", 4},
		{"round(2.5)", 3},
		{"abs(-4)", 4},
		{"3 > 2", 1},
		{"1 == 2 ? 7 : 8", 8},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			assert.InDelta(t, tc.want, eval(t, c, tc.src, expr.Bindings{}), 1e-12)
		})
	}
}

func TestCompile_References(t *testing.T) {
	c := expr.NewCompiler()
	e, err := c.Compile("a * 2 + b - a + PI")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, e.References())
	assert.False(t, e.Random())

	v, err := e.Eval(expr.Bindings{Scalars: map[string]float64{"a": 3, "b": 1}})
	require.NoError(t, err)
	assert.InDelta(t, 3*2+1-3+math.Pi, v, 1e-12)
}

func TestCompile_ArrayIndexing(t *testing.T) {
	c := expr.NewCompiler()
	e, err := c.Compile("rings[1] + rings[0]")
	require.NoError(t, err)
	assert.Equal(t, []string{"rings"}, e.References())

	v, err := e.Eval(expr.Bindings{Arrays: map[string][]float64{"rings": {4, 6}}})
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestCompile_Errors(t *testing.T) {
	c := expr.NewCompiler()
	for _, src := range []string{
		"",
		"2 +",
		"nope(1)",
		"a +* b",
		"[for k in [1] : nope(k)][0]",
		`{ "a" = nope(1) }["a"]`,
	} {
		t.Run(src, func(t *testing.T) {
			_, err := c.Compile(src)
			var exprErr *expr.ExpressionError
			require.True(t, errors.As(err, &exprErr), "got %v", err)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	c := expr.NewCompiler()

	t.Run("unbound reference", func(t *testing.T) {
		e, err := c.Compile("a + 1")
		require.NoError(t, err)
		_, err = e.Eval(expr.Bindings{})
		assert.ErrorContains(t, err, `unbound reference "a"`)
	})

	t.Run("non finite result", func(t *testing.T) {
		e, err := c.Compile("a / 0")
		require.NoError(t, err)
		_, err = e.Eval(expr.Bindings{Scalars: map[string]float64{"a": 1}})
		var exprErr *expr.ExpressionError
		assert.True(t, errors.As(err, &exprErr))
	})

	t.Run("random without source", func(t *testing.T) {
		e, err := c.Compile("ranI(1, 3)")
		require.NoError(t, err)
		_, err = e.Eval(expr.Bindings{})
		assert.Error(t, err)
	})
}

func TestRandomFunctions(t *testing.T) {
	c := expr.NewCompiler()
	c.SetRandom(rand.New(rand.NewSource(7)))

	e, err := c.Compile("ranI(2, 4) + ranF(0, 1) * 0")
	require.NoError(t, err)
	assert.True(t, e.Random())

	for i := 0; i < 200; i++ {
		v, err := e.Eval(expr.Bindings{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 2.0)
		assert.LessOrEqual(t, v, 4.0)
		assert.Equal(t, math.Trunc(v), v)
	}
}

func TestRandomFunctions_Deterministic(t *testing.T) {
	draw := func(seed int64) []float64 {
		c := expr.NewCompiler()
		c.SetRandom(rand.New(rand.NewSource(seed)))
		e, err := c.Compile("ranF(-5, 5)")
		require.NoError(t, err)
		out := make([]float64, 10)
		for i := range out {
			out[i], err = e.Eval(expr.Bindings{})
			require.NoError(t, err)
		}
		return out
	}
	assert.Equal(t, draw(42), draw(42))
	assert.NotEqual(t, draw(42), draw(43))
}

func TestCompile_RandomInNestedExpressions(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"for expression", "[for k in [1] : ranI(1, 1000)][0]"},
		{"object constructor", `{ "a" = ranI(1, 1000) }["a"]`},
		{"conditional in for", "[for k in [1, 2] : k > 1 ? ranI(1, 1000) : 1][1]"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := expr.NewCompiler()
			e, err := c.Compile(tc.src)
			require.NoError(t, err)
			assert.True(t, e.Random())
			assert.Empty(t, e.References())

			c.SetRandom(rand.New(rand.NewSource(5)))
			v, err := e.Eval(expr.Bindings{})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, 1.0)
			assert.LessOrEqual(t, v, 1000.0)
		})
	}
}

func TestRandomIntn_SwapsBounds(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v, err := expr.RandomIntn(r, 5, 3)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, int64(3))
		assert.LessOrEqual(t, v, int64(5))
	}
}

func TestRandomIntn_WideRanges(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	testCases := []struct {
		name    string
		lo, hi  int64
		wantErr bool
	}{
		{"full range", math.MinInt64, math.MaxInt64, true},
		{"width overflows", -9000000000000000000, 9000000000000000000, true},
		{"width is max int64", 0, math.MaxInt64, true},
		{"largest drawable width", 1, math.MaxInt64, false},
		{"negative bounds", math.MinInt64 + 1, -1, false},
		{"single value", math.MaxInt64, math.MaxInt64, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := expr.RandomIntn(r, tc.lo, tc.hi)
			if tc.wantErr {
				assert.ErrorIs(t, err, expr.ErrRangeTooWide)
				return
			}
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, tc.lo)
			assert.LessOrEqual(t, v, tc.hi)
		})
	}
}

func TestIntRange(t *testing.T) {
	testCases := []struct {
		name    string
		lo, hi  float64
		want    [2]int64
		wantErr bool
	}{
		{"truncates", -2.7, 3.9, [2]int64{-2, 3}, false},
		{"too large", 0, 1e19, [2]int64{}, true},
		{"too small", -1e19, 0, [2]int64{}, true},
		{"infinite", math.Inf(-1), 0, [2]int64{}, true},
		{"not a number", math.NaN(), 1, [2]int64{}, true},
		{"too wide", -9e18, 9e18, [2]int64{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi, err := expr.IntRange(tc.lo, tc.hi)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, [2]int64{lo, hi})
		})
	}
}

func TestRandomFunctions_WideIntegerRange(t *testing.T) {
	c := expr.NewCompiler()
	c.SetRandom(rand.New(rand.NewSource(1)))
	e, err := c.Compile("ranI(-9000000000000000000, 9000000000000000000)")
	require.NoError(t, err)
	_, err = e.Eval(expr.Bindings{})
	require.Error(t, err)
	assert.ErrorContains(t, err, expr.ErrRangeTooWide.Error())
	assert.NotContains(t, err.Error(), "panic")
}
