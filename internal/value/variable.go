package value

import "math/rand"

// Variable is a named Value.
type Variable struct {
	name  string
	value Value
}

// NewVariable creates a variable. It is normally created through
// Scope.Define.
func NewVariable(name string, v Value) *Variable {
	return &Variable{name: name, value: v}
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// ID implements dag.Entity.
func (v *Variable) ID() string { return v.name }

// Dependencies implements dag.Entity.
func (v *Variable) Dependencies() []string { return v.value.References() }

// Calculate implements dag.Entity.
func (v *Variable) Calculate() error { return v.value.Calculate() }

// Get returns the last computed value.
func (v *Variable) Get() float64 { return v.value.Get() }

// Value returns the value backing the variable.
func (v *Variable) Value() Value { return v.value }

// SetValue swaps the value backing the variable. Referrers keep pointing at
// the variable, so they observe the new value.
func (v *Variable) SetValue(val Value) { v.value = val }

// SetRandom forwards r to the value.
func (v *Variable) SetRandom(r *rand.Rand) { v.value.SetRandom(r) }

// Static reports whether the variable holds a constant.
func (v *Variable) Static() bool {
	_, ok := v.value.(*Constant)
	return ok
}
