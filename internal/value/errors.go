package value

import "fmt"

// MissingReferenceError reports a name that does not resolve in scope.
// Kind is the kind of component that was expected, e.g. "variable",
// "setter", "instruction" or "material".
type MissingReferenceError struct {
	Kind  string
	Name  string
	Scope string
}

func (e *MissingReferenceError) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("unknown %s %q in scope %q", e.Kind, e.Name, e.Scope)
}
