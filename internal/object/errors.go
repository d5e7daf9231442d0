package object

import "fmt"

// LoadError reports a template that could not be built.
type LoadError struct {
	Template string
	Source   string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("load template %q (%s): %v", e.Template, e.Source, e.Err)
	}
	return fmt.Sprintf("load template %q: %v", e.Template, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ComponentLoadError names the component of a template that failed, e.g.
// "variables.height" or "instructions.walls".
type ComponentLoadError struct {
	Key string
	Err error
}

func (e *ComponentLoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e *ComponentLoadError) Unwrap() error { return e.Err }
