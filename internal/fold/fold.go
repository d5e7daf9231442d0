// Package fold replaces variables and lists that can never change with
// constants, so later randomizations skip them.
package fold

import (
	"github.com/vk/iwgo/internal/value"
)

// Fold repeatedly freezes every variable whose value is a non-random
// expression reading only static entities, and every list whose size,
// element and increment expressions satisfy the same rule. The already
// computed results are kept, so the scopes must have been calculated at
// least once. It returns the number of entities folded.
func Fold(scopes ...*value.Scope) int {
	folded := 0
	for {
		changed := 0
		for _, s := range scopes {
			changed += foldScope(s)
		}
		if changed == 0 {
			return folded
		}
		folded += changed
	}
}

func foldScope(s *value.Scope) int {
	changed := 0
	for _, v := range s.Variables() {
		if v.Static() {
			continue
		}
		e, ok := v.Value().(*value.Expression)
		if !ok || e.Random() || !allStatic(s, e.References()) {
			continue
		}
		v.SetValue(value.NewConstant(v.Get()))
		changed++
	}
	for _, l := range s.Lists() {
		if l.Static() || l.Random() {
			continue
		}
		if !allStatic(s, l.Dependencies()) {
			continue
		}
		l.Freeze()
		changed++
	}
	return changed
}

func allStatic(s *value.Scope, names []string) bool {
	for _, name := range names {
		if v, ok := s.Lookup(name); ok {
			if !v.Static() {
				return false
			}
			continue
		}
		if l, ok := s.LookupList(name); ok {
			if !l.Static() {
				return false
			}
			continue
		}
		return false
	}
	return true
}
