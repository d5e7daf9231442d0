package expr

import "fmt"

// ExpressionError is returned when an expression cannot be parsed, calls an
// unknown function or fails to produce a finite number.
type ExpressionError struct {
	Source string
	Reason string
	Err    error
}

func (e *ExpressionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("expression %q: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("expression %q: %s", e.Source, e.Reason)
}

func (e *ExpressionError) Unwrap() error {
	return e.Err
}
