package value

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/iwgo/internal/expr"
)

// shorthandPattern matches the standalone random forms "ranI=1-5" and
// "ranF=-0.5-2.5".
var shorthandPattern = regexp.MustCompile(`^ran([IF])\s*=\s*(-?\d+(?:\.\d+)?)\s*-\s*(-?\d+(?:\.\d+)?)$`)

// parseShorthand recognizes the shorthand random forms. A matched form with
// bounds that cannot be drawn from is an error.
func parseShorthand(text string) (*RandomRange, bool, error) {
	m := shorthandPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false, nil
	}
	lo, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, true, fmt.Errorf("random range %q: %w", text, err)
	}
	hi, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return nil, true, fmt.Errorf("random range %q: %w", text, err)
	}
	r := &RandomRange{Min: lo, Max: hi, Integer: m[1] == "I"}
	if r.Integer {
		if _, _, err := expr.IntRange(lo, hi); err != nil {
			return nil, true, fmt.Errorf("random range %q: %w", text, err)
		}
	}
	return r, true, nil
}

// NewValue builds a Value from text. Plain numbers and expressions without
// references or random calls become constants, the shorthand random forms
// become RandomRange values and anything else is an Expression bound to s.
// References are checked against s and its parents.
func (s *Scope) NewValue(text string) (Value, error) {
	v, err := s.newValue(text)
	if err != nil {
		return nil, err
	}
	for _, name := range v.References() {
		if v, l, _ := s.resolve(name); v == nil && l == nil {
			return nil, &MissingReferenceError{Kind: "variable", Name: name, Scope: s.Path()}
		}
	}
	return v, nil
}

func (s *Scope) newValue(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return NewConstant(f), nil
	}
	r, ok, err := parseShorthand(text)
	if err != nil {
		return nil, err
	}
	if ok {
		return r, nil
	}

	compiled, err := s.compiler.Compile(text)
	if err != nil {
		return nil, err
	}
	e := &Expression{compiled: compiled, scope: s}
	if len(compiled.References()) == 0 && !compiled.Random() {
		if err := e.Calculate(); err != nil {
			return nil, err
		}
		return NewConstant(e.Get()), nil
	}
	return e, nil
}
