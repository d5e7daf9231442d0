package value

import (
	"fmt"

	"github.com/vk/iwgo/internal/config"
)

// DefineAll adds the described variables and lists to s and resolves the
// scope.
func (s *Scope) DefineAll(vars []config.Property, lists []*config.List) error {
	for _, p := range vars {
		if _, err := s.Define(p.Name, p.Value); err != nil {
			return fmt.Errorf("variables.%s: %w", p.Name, err)
		}
	}
	for _, l := range lists {
		spec := ListSpec{Name: l.Name, Size: l.Size, Value: l.Value, Increment: l.Increment, Index: l.Index}
		if _, err := s.DefineList(spec); err != nil {
			return fmt.Errorf("lists.%s: %w", l.Name, err)
		}
	}
	return s.Resolve()
}
