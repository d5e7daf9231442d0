package dag

import (
	"fmt"
	"strings"
)

// CyclicDependencyError reports entities that can never be evaluated because
// they reference each other, directly or transitively.
type CyclicDependencyError struct {
	// Entities lists the offending entity names. When the error comes from the
	// load-time check they form the cycle path, first name repeated last.
	Entities []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency between: %s", strings.Join(e.Entities, " -> "))
}
