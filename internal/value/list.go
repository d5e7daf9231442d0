package value

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vk/iwgo/internal/expr"
)

// DefaultIndex is the name bound to the element index in list expressions.
const DefaultIndex = "i"

// MaxListSize is the largest number of elements a list may hold.
const MaxListSize = 1 << 20

// List is a named array of scalars. Element k is the element expression
// evaluated with the index bound to k, plus the running sum of the increment
// expression over the previous elements. Any other list referenced by an
// element expression is bound to its own element at index k.
type List struct {
	name      string
	index     string
	size      Value
	element   *expr.Expression
	increment *expr.Expression
	scope     *Scope

	values []float64
	frozen bool
}

// Name returns the list name.
func (l *List) Name() string { return l.name }

// ID implements dag.Entity.
func (l *List) ID() string { return l.name }

// Index returns the name bound to the element index.
func (l *List) Index() string { return l.index }

// Size returns the value that determines the length.
func (l *List) Size() Value { return l.size }

// Dependencies implements dag.Entity. The index name is excluded.
func (l *List) Dependencies() []string {
	seen := map[string]struct{}{l.index: {}}
	var deps []string
	add := func(names []string) {
		for _, n := range names {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			deps = append(deps, n)
		}
	}
	add(l.size.References())
	add(l.element.References())
	if l.increment != nil {
		add(l.increment.References())
	}
	return deps
}

// Calculate implements dag.Entity.
func (l *List) Calculate() error {
	if l.frozen {
		return nil
	}
	if err := l.size.Calculate(); err != nil {
		return fmt.Errorf("list %q size: %w", l.name, err)
	}
	n := math.Round(l.size.Get())
	if n < 0 {
		return fmt.Errorf("list %q: negative size %v", l.name, n)
	}
	if !(n <= MaxListSize) {
		return fmt.Errorf("list %q: size %v exceeds maximum %d", l.name, n, MaxListSize)
	}

	values := make([]float64, int(n))
	total := 0.0
	for k := range values {
		b, err := l.bindings(k)
		if err != nil {
			return err
		}
		v, err := l.element.Eval(b)
		if err != nil {
			return fmt.Errorf("list %q[%d]: %w", l.name, k, err)
		}
		values[k] = v + total
		if l.increment != nil {
			inc, err := l.increment.Eval(b)
			if err != nil {
				return fmt.Errorf("list %q[%d] increment: %w", l.name, k, err)
			}
			total += inc
		}
	}
	l.values = values
	return nil
}

func (l *List) bindings(k int) (expr.Bindings, error) {
	b := expr.Bindings{Scalars: map[string]float64{l.index: float64(k)}}
	for _, name := range l.Dependencies() {
		v, other, _ := l.scope.resolve(name)
		switch {
		case v != nil:
			b.Scalars[name] = v.Get()
		case other != nil:
			xs := other.Values()
			if k >= len(xs) {
				return b, fmt.Errorf("list %q[%d]: list %q has only %d elements", l.name, k, name, len(xs))
			}
			b.Scalars[name] = xs[k]
		default:
			return b, &MissingReferenceError{Kind: "variable", Name: name, Scope: l.scope.Path()}
		}
	}
	return b, nil
}

// Len returns the number of elements computed by the last Calculate.
func (l *List) Len() int { return len(l.values) }

// At returns element k.
func (l *List) At(k int) float64 { return l.values[k] }

// Values returns a copy of the elements.
func (l *List) Values() []float64 {
	out := make([]float64, len(l.values))
	copy(out, l.values)
	return out
}

// SetRandom forwards r to the size and element expressions.
func (l *List) SetRandom(r *rand.Rand) {
	l.size.SetRandom(r)
	l.element.SetRandom(r)
	if l.increment != nil {
		l.increment.SetRandom(r)
	}
}

// Random reports whether calculating the list may draw random numbers.
func (l *List) Random() bool {
	return l.size.Random() || l.element.Random() || (l.increment != nil && l.increment.Random())
}

// Static reports whether the list has been frozen.
func (l *List) Static() bool { return l.frozen }

// Freeze keeps the current elements forever. Later calls to Calculate are
// no-ops.
func (l *List) Freeze() { l.frozen = true }
