package value

import (
	"fmt"
	"math/rand"

	"github.com/vk/iwgo/internal/dag"
	"github.com/vk/iwgo/internal/expr"
)

// ListSpec describes a list to define in a scope.
type ListSpec struct {
	Name      string
	Size      string
	Value     string
	Increment string
	Index     string
}

// Scope owns uniquely named variables and lists.
type Scope struct {
	name     string
	parent   *Scope
	compiler *expr.Compiler

	vars      map[string]*Variable
	varOrder  []*Variable
	lists     map[string]*List
	listOrder []*List
}

// NewScope creates a root scope compiling expressions with c.
func NewScope(name string, c *expr.Compiler) *Scope {
	return &Scope{
		name:     name,
		compiler: c,
		vars:     make(map[string]*Variable),
		lists:    make(map[string]*List),
	}
}

// Child creates a nested scope sharing the compiler of s.
func (s *Scope) Child(name string) *Scope {
	c := NewScope(name, s.compiler)
	c.parent = s
	return c
}

// Name returns the scope name.
func (s *Scope) Name() string { return s.name }

// Path returns the dotted names from the root scope down to s.
func (s *Scope) Path() string {
	if s.parent == nil {
		return s.name
	}
	return s.parent.Path() + "." + s.name
}

// Parent returns the enclosing scope, or nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Compiler returns the expression compiler of the scope.
func (s *Scope) Compiler() *expr.Compiler { return s.compiler }

func (s *Scope) checkName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("scope %q: empty name", s.Path())
	case expr.IsReserved(name):
		return fmt.Errorf("scope %q: %q is a reserved constant", s.Path(), name)
	case s.vars[name] != nil, s.lists[name] != nil:
		return fmt.Errorf("scope %q: %q is already defined", s.Path(), name)
	}
	return nil
}

// Define adds a variable. References are not checked until Resolve, so
// variables may be declared in any order.
func (s *Scope) Define(name, text string) (*Variable, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	val, err := s.newValue(text)
	if err != nil {
		return nil, err
	}
	v := NewVariable(name, val)
	s.vars[name] = v
	s.varOrder = append(s.varOrder, v)
	return v, nil
}

// DefineList adds a list.
func (s *Scope) DefineList(spec ListSpec) (*List, error) {
	if err := s.checkName(spec.Name); err != nil {
		return nil, err
	}
	if spec.Size == "" || spec.Value == "" {
		return nil, fmt.Errorf("list %q requires size and value", spec.Name)
	}
	index := spec.Index
	if index == "" {
		index = DefaultIndex
	}

	size, err := s.newValue(spec.Size)
	if err != nil {
		return nil, fmt.Errorf("size: %w", err)
	}
	element, err := s.compiler.Compile(spec.Value)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	l := &List{name: spec.Name, index: index, size: size, element: element, scope: s}
	if spec.Increment != "" {
		if l.increment, err = s.compiler.Compile(spec.Increment); err != nil {
			return nil, fmt.Errorf("increment: %w", err)
		}
	}

	s.lists[spec.Name] = l
	s.listOrder = append(s.listOrder, l)
	return l, nil
}

// resolve finds name in s or the nearest enclosing scope. Variables win over
// lists declared in the same scope.
func (s *Scope) resolve(name string) (*Variable, *List, *Scope) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, nil, cur
		}
		if l, ok := cur.lists[name]; ok {
			return nil, l, cur
		}
	}
	return nil, nil, nil
}

// Lookup finds a variable in s or its parents.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	v, _, _ := s.resolve(name)
	return v, v != nil
}

// LookupList finds a list in s or its parents.
func (s *Scope) LookupList(name string) (*List, bool) {
	_, l, _ := s.resolve(name)
	return l, l != nil
}

// Variables returns the variables declared directly in s, in declaration
// order.
func (s *Scope) Variables() []*Variable { return s.varOrder }

// Lists returns the lists declared directly in s, in declaration order.
func (s *Scope) Lists() []*List { return s.listOrder }

// Resolve checks the references of every variable and list of s and rejects
// cycles.
func (s *Scope) Resolve() error {
	if err := s.ResolveVariables(); err != nil {
		return err
	}
	return s.ResolveLists()
}

// ResolveVariables checks the references of the variables of s and rejects
// cycles among them. Variables may read lists of enclosing scopes but not
// lists of their own scope.
func (s *Scope) ResolveVariables() error {
	for _, v := range s.varOrder {
		for _, name := range v.Dependencies() {
			ref, l, owner := s.resolve(name)
			switch {
			case l != nil && owner == s:
				return fmt.Errorf("variable %q cannot reference list %q of the same scope", v.Name(), name)
			case ref == nil && l == nil:
				return fmt.Errorf("variable %q: %w", v.Name(), &MissingReferenceError{Kind: "variable", Name: name, Scope: s.Path()})
			}
		}
	}
	vg, err := dag.FromEntities(s.varOrder)
	if err != nil {
		return err
	}
	return vg.DetectCycles()
}

// ResolveLists checks the references of the lists of s and rejects cycles
// among them.
func (s *Scope) ResolveLists() error {
	for _, l := range s.listOrder {
		for _, name := range l.Dependencies() {
			if ref, other, _ := s.resolve(name); ref == nil && other == nil {
				return fmt.Errorf("list %q: %w", l.Name(), &MissingReferenceError{Kind: "variable", Name: name, Scope: s.Path()})
			}
		}
	}
	lg, err := dag.FromEntities(s.listOrder)
	if err != nil {
		return err
	}
	return lg.DetectCycles()
}

// Calculate evaluates every variable, then every list, of s in dependency
// order. Enclosing scopes are not recalculated.
func (s *Scope) Calculate() error {
	if err := dag.Evaluate(s.varOrder); err != nil {
		return fmt.Errorf("scope %q variables: %w", s.Path(), err)
	}
	if err := dag.Evaluate(s.listOrder); err != nil {
		return fmt.Errorf("scope %q lists: %w", s.Path(), err)
	}
	return nil
}

// SetRandom forwards r to the compiler and every owned variable and list.
func (s *Scope) SetRandom(r *rand.Rand) {
	s.compiler.SetRandom(r)
	for _, v := range s.varOrder {
		v.SetRandom(r)
	}
	for _, l := range s.listOrder {
		l.SetRandom(r)
	}
}
