package value

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vk/iwgo/internal/expr"
)

// Value is a scalar that can be recomputed and read back.
type Value interface {
	// Calculate recomputes the value.
	Calculate() error
	// Get returns the last computed value.
	Get() float64
	// SetRandom sets the random source. Values that never draw ignore it.
	SetRandom(r *rand.Rand)
	// Random reports whether Calculate may draw random numbers.
	Random() bool
	// References returns the names the value reads.
	References() []string
}

var errNoRandom = errors.New("no random source configured")

// Constant is a fixed value.
type Constant struct {
	v float64
}

// NewConstant returns a Constant holding v.
func NewConstant(v float64) *Constant { return &Constant{v: v} }

func (c *Constant) Calculate() error { return nil }
func (c *Constant) Get() float64 { return c.v }
func (c *Constant) SetRandom(*rand.Rand) {}
func (c *Constant) Random() bool { return false }
func (c *Constant) References() []string { return nil }
func (c *Constant) String() string { return fmt.Sprint(c.v) }

// RandomRange draws a fresh number from [Min, Max] on every Calculate.
// Integer ranges include Max, float ranges exclude it.
type RandomRange struct {
	Min, Max float64
	Integer  bool

	rng *rand.Rand
	cur float64
}

func (r *RandomRange) Calculate() error {
	if r.rng == nil {
		return errNoRandom
	}
	if r.Integer {
		lo, hi, err := expr.IntRange(r.Min, r.Max)
		if err != nil {
			return err
		}
		v, err := expr.RandomIntn(r.rng, lo, hi)
		if err != nil {
			return err
		}
		r.cur = float64(v)
	} else {
		r.cur = expr.RandomFloat64(r.rng, r.Min, r.Max)
	}
	return nil
}

func (r *RandomRange) Get() float64 { return r.cur }
func (r *RandomRange) SetRandom(rng *rand.Rand) { r.rng = rng }
func (r *RandomRange) Random() bool { return true }
func (r *RandomRange) References() []string { return nil }

// Expression evaluates a compiled expression against the scope it was
// declared in.
type Expression struct {
	compiled *expr.Expression
	scope    *Scope
	cur      float64
}

func (e *Expression) Calculate() error {
	b := expr.Bindings{}
	for _, name := range e.compiled.References() {
		v, l, _ := e.scope.resolve(name)
		switch {
		case v != nil:
			if b.Scalars == nil {
				b.Scalars = make(map[string]float64)
			}
			b.Scalars[name] = v.Get()
		case l != nil:
			if b.Arrays == nil {
				b.Arrays = make(map[string][]float64)
			}
			b.Arrays[name] = l.Values()
		default:
			return &MissingReferenceError{Kind: "variable", Name: name, Scope: e.scope.Path()}
		}
	}
	v, err := e.compiled.Eval(b)
	if err != nil {
		return err
	}
	e.cur = v
	return nil
}

func (e *Expression) Get() float64 { return e.cur }
func (e *Expression) SetRandom(r *rand.Rand) { e.compiled.SetRandom(r) }
func (e *Expression) Random() bool { return e.compiled.Random() }
func (e *Expression) References() []string { return e.compiled.References() }
func (e *Expression) String() string { return e.compiled.Source() }

// Incrementable adds a running total to a base value. The increment is only
// evaluated by Increment, so it may reference the incremented variable
// itself.
type Incrementable struct {
	base      Value
	increment Value
	total     float64
}

// NewIncrementable wraps base.
func NewIncrementable(base, increment Value) *Incrementable {
	return &Incrementable{base: base, increment: increment}
}

func (i *Incrementable) Calculate() error { return i.base.Calculate() }
func (i *Incrementable) Get() float64 { return i.base.Get() + i.total }

func (i *Incrementable) SetRandom(r *rand.Rand) {
	i.base.SetRandom(r)
	i.increment.SetRandom(r)
}

func (i *Incrementable) Random() bool { return i.base.Random() || i.increment.Random() }
func (i *Incrementable) References() []string { return i.base.References() }

// Base returns the wrapped value.
func (i *Incrementable) Base() Value { return i.base }

// Total returns the accumulated increment.
func (i *Incrementable) Total() float64 { return i.total }

// Increment recomputes the increment and adds it to the total.
func (i *Incrementable) Increment() error {
	if err := i.increment.Calculate(); err != nil {
		return err
	}
	i.total += i.increment.Get()
	return nil
}

// Reset zeroes the total.
func (i *Incrementable) Reset() { i.total = 0 }
