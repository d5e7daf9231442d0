package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/vk/iwgo/internal/config"
	"github.com/vk/iwgo/internal/ctxlog"
	"github.com/vk/iwgo/internal/object"
	"github.com/vk/iwgo/internal/world"
)

// ErrConditionNotMet is returned by Spawn when a template condition rejects
// the target position.
var ErrConditionNotMet = errors.New("placement conditions not met")

// NotFoundError is returned for an unknown template name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// Options configures a Registry.
type Options struct {
	// Materials resolves material names. Defaults to world.DefaultPalette().
	Materials world.Materials
	// Loaders maps a lower-case file extension to its loader. Defaults to
	// DefaultLoaders().
	Loaders map[string]config.Loader
	// DisableFolding is passed on to object.Build.
	DisableFolding bool
}

// entry is a validated template description.
type entry struct {
	desc *config.Template
	file string
}

// Registry stores template descriptions by name.
type Registry struct {
	opts Options

	// mu serializes writers; readers only load the snapshot.
	mu       sync.Mutex
	snapshot atomic.Pointer[map[string]*entry]
}

// New creates an empty registry.
func New(opts Options) *Registry {
	if opts.Materials == nil {
		opts.Materials = world.DefaultPalette()
	}
	if opts.Loaders == nil {
		opts.Loaders = DefaultLoaders()
	}
	r := &Registry{opts: opts}
	empty := map[string]*entry{}
	r.snapshot.Store(&empty)
	return r
}

func (r *Registry) entries() map[string]*entry {
	return *r.snapshot.Load()
}

// Add validates desc by building it and stores it under its name.
func (r *Registry) Add(ctx context.Context, desc *config.Template) error {
	if _, err := r.build(ctx, desc, 1); err != nil {
		return err
	}
	return r.insert(&entry{desc: desc, file: desc.Source.File})
}

func (r *Registry) insert(e *entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.entries()
	if prev, ok := current[e.desc.Name]; ok {
		return fmt.Errorf("duplicate template %q, already loaded from %s", e.desc.Name, prev.file)
	}
	next := make(map[string]*entry, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[e.desc.Name] = e
	r.snapshot.Store(&next)
	return nil
}

// Remove deletes a template. It reports whether it was present.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.entries()
	if _, ok := current[name]; !ok {
		return false
	}
	next := make(map[string]*entry, len(current))
	for k, v := range current {
		if k != name {
			next[k] = v
		}
	}
	r.snapshot.Store(&next)
	return true
}

// Get returns the description of a loaded template.
func (r *Registry) Get(name string) (*config.Template, bool) {
	e, ok := r.entries()[name]
	if !ok {
		return nil, false
	}
	return e.desc, true
}

// Names returns the loaded template names, sorted.
func (r *Registry) Names() []string {
	current := r.entries()
	names := make([]string, 0, len(current))
	for name := range current {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded templates.
func (r *Registry) Len() int {
	return len(r.entries())
}

// Instantiate builds a new, randomized instance of the named template.
// A zero seed picks a time based one.
func (r *Registry) Instantiate(ctx context.Context, name string, seed int64) (*object.Template, error) {
	e, ok := r.entries()[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return r.build(ctx, e.desc, seed)
}

// Spawn instantiates the named template, checks its conditions at pos and
// places it into w.
func (r *Registry) Spawn(ctx context.Context, name string, w world.World, pos world.Pos, seed int64) (*object.Template, error) {
	ctx = ctxlog.With(ctx, "template", name, "position", pos.String())
	logger := ctxlog.FromContext(ctx)

	t, err := r.Instantiate(ctx, name, seed)
	if err != nil {
		return nil, err
	}
	if !t.CanPlace(w, pos) {
		logger.Debug("Spawn rejected by conditions.")
		return t, ErrConditionNotMet
	}
	if err := t.Place(w, pos); err != nil {
		return t, fmt.Errorf("failed to place template %q at %s: %w", name, pos, err)
	}
	logger.Debug("Template spawned.", "seed", t.Seed())
	return t, nil
}

func (r *Registry) build(ctx context.Context, desc *config.Template, seed int64) (*object.Template, error) {
	return object.Build(ctx, desc, object.Options{
		Materials:      r.opts.Materials,
		Seed:           seed,
		DisableFolding: r.opts.DisableFolding,
	})
}
