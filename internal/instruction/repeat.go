package instruction

import (
	"fmt"
	"math/rand"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/value"
	"github.com/vk/iwgo/internal/world"
)

// Repeat executes its body round(times) times. Between passes each
// increment is added to its variable and the body is randomized again.
// When the repeat finishes, or fails, all increments are reset and the
// body is randomized once more.
//
// The body is either declared inline or references a top-level instruction
// by name. inclusive = true runs one extra pass.
type Repeat struct {
	common
	times      value.Value
	inclusive  bool
	body       Instruction
	inline     bool
	increments []*value.Incrementable
}

func parseRepeat(c *config.Component, scope *value.Scope, env *Env) (Instruction, error) {
	r := &Repeat{common: newCommon(scope)}

	text, err := c.Require("times")
	if err != nil {
		return nil, err
	}
	if r.times, err = scope.NewValue(text); err != nil {
		return nil, fmt.Errorf("times: %w", err)
	}
	if r.inclusive, err = c.Bool("inclusive", false); err != nil {
		return nil, err
	}

	ref, hasRef := c.Property("instruction")
	inline := c.Child("instruction")
	switch {
	case hasRef && inline != nil:
		return nil, fmt.Errorf("repeat %q declares both an inline body and an instruction reference", r.name)
	case inline != nil:
		if r.body, err = Build(inline, scope, env); err != nil {
			return nil, fmt.Errorf("body: %w", err)
		}
		r.inline = true
	case hasRef:
		if env.Resolve == nil {
			return nil, fmt.Errorf("repeat %q: instruction references are not available", r.name)
		}
		if r.body, err = env.Resolve(ref); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("missing required property %q or body", "instruction")
	}

	bodyScope := r.body.Scope()
	for _, inc := range c.Increments {
		v, ok := bodyScope.Lookup(inc.Name)
		if !ok {
			return nil, &value.MissingReferenceError{Kind: "variable", Name: inc.Name, Scope: bodyScope.Path()}
		}
		step, err := bodyScope.NewValue(inc.Value)
		if err != nil {
			return nil, fmt.Errorf("increments.%s: %w", inc.Name, err)
		}
		wrapped := value.NewIncrementable(v.Value(), step)
		v.SetValue(wrapped)
		r.increments = append(r.increments, wrapped)
	}
	return r, nil
}

// Body returns the repeated instruction.
func (r *Repeat) Body() Instruction { return r.body }

// Count returns the number of passes the next Execute runs.
func (r *Repeat) Count() int {
	n := value.Round(r.times.Get())
	if r.inclusive {
		n++
	}
	if n < 0 {
		return 0
	}
	return n
}

func (r *Repeat) Scopes() []*value.Scope {
	if !r.inline {
		return []*value.Scope{r.scope}
	}
	return append([]*value.Scope{r.scope}, r.body.Scopes()...)
}

func (r *Repeat) Randomize() error {
	if err := r.scope.Calculate(); err != nil {
		return err
	}
	if err := r.times.Calculate(); err != nil {
		return fmt.Errorf("times: %w", err)
	}
	return r.body.Randomize()
}

func (r *Repeat) Execute(w world.World, origin world.Pos) (err error) {
	advanced := false
	defer func() {
		r.reset()
		// Bring the body back to the unincremented state.
		if advanced {
			if rerr := r.body.Randomize(); rerr != nil && err == nil {
				err = fmt.Errorf("repeat %q reset: %w", r.name, rerr)
			}
		}
	}()

	for i, n := 0, r.Count(); i < n; i++ {
		if i > 0 {
			advanced = true
			for _, inc := range r.increments {
				if err := inc.Increment(); err != nil {
					return fmt.Errorf("repeat %q increment: %w", r.name, err)
				}
			}
			if err := r.body.Randomize(); err != nil {
				return fmt.Errorf("repeat %q pass %d: %w", r.name, i, err)
			}
		}
		if err := r.body.Execute(w, origin); err != nil {
			return fmt.Errorf("repeat %q pass %d: %w", r.name, i, err)
		}
	}
	return nil
}

func (r *Repeat) reset() {
	for _, inc := range r.increments {
		inc.Reset()
	}
}

func (r *Repeat) SetRandom(rng *rand.Rand) {
	r.scope.SetRandom(rng)
	r.times.SetRandom(rng)
	r.body.SetRandom(rng)
	for _, inc := range r.increments {
		inc.SetRandom(rng)
	}
}
