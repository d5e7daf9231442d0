package dag

// Evaluate calculates every entity exactly once, each one only after all the
// entities of the group it references have been calculated in this pass.
//
// The pass is an iterative fixed point: every scan walks the entities that
// are still pending in declaration order and calculates those whose
// references are satisfied. A scan that makes no progress while entities are
// pending means they reference each other, and Evaluate returns a
// *CyclicDependencyError naming them instead of looping.
func Evaluate[E Entity](entities []E) error {
	if len(entities) == 0 {
		return nil
	}

	members := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		members[e.ID()] = struct{}{}
	}

	calculated := make(map[string]struct{}, len(entities))
	pending := append([]E(nil), entities...)

	for len(pending) > 0 {
		remaining := pending[:0:0]
		for _, e := range pending {
			if !ready(e, members, calculated) {
				remaining = append(remaining, e)
				continue
			}
			if err := e.Calculate(); err != nil {
				return err
			}
			calculated[e.ID()] = struct{}{}
		}

		if len(remaining) == len(pending) {
			names := make([]string, 0, len(remaining))
			for _, e := range remaining {
				names = append(names, e.ID())
			}
			return &CyclicDependencyError{Entities: names}
		}
		pending = remaining
	}
	return nil
}

func ready[E Entity](e E, members, calculated map[string]struct{}) bool {
	for _, dep := range e.Dependencies() {
		if _, inGroup := members[dep]; !inGroup {
			continue
		}
		if _, done := calculated[dep]; !done {
			return false
		}
	}
	return true
}
