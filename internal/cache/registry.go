package cache

import (
	"fmt"
	"slices"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// registry maps attribute names to plugins and keeps the reverse dependency
// index: dependents[a] lists the attributes dropped when a changes.
// It is append-only.
type registry struct {
	plugins    map[string]fscache.AttributePlugin
	names      []string // registration order
	dependsOn  map[string][]string
	dependents map[string][]string
}

func newRegistry() *registry {
	return &registry{
		plugins:    make(map[string]fscache.AttributePlugin),
		dependsOn:  make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

func (r *registry) register(name string, plugin fscache.AttributePlugin) error {
	if name == "" {
		return fmt.Errorf("attribute name cannot be empty")
	}
	if plugin == nil {
		return fmt.Errorf("attribute %q: plugin cannot be nil", name)
	}
	if existing, taken := r.plugins[name]; taken {
		return &fscache.DuplicateAttributeError{Name: name, Existing: fmt.Sprintf("%T", existing)}
	}

	var deps []string
	for _, dep := range plugin.InvalidationDependencies() {
		if !slices.Contains(deps, dep) {
			deps = append(deps, dep)
		}
	}
	r.plugins[name] = plugin
	r.names = append(r.names, name)
	r.dependsOn[name] = deps
	for _, dep := range deps {
		if !slices.Contains(r.dependents[dep], name) {
			r.dependents[dep] = append(r.dependents[dep], name)
		}
	}
	return nil
}

func (r *registry) registered() []string {
	return slices.Clone(r.names)
}

func (r *registry) has(name string) bool {
	_, ok := r.plugins[name]
	return ok
}

// resolve applies filter to the registered names. Every explicitly included
// name must be registered; excluded names need not be.
func (r *registry) resolve(filter fscache.AttributeFilter) ([]string, error) {
	for _, name := range filter.Include {
		if !r.has(name) {
			return nil, fmt.Errorf("%w: %q", fscache.ErrUnknownAttribute, name)
		}
	}
	return filter.Resolve(r.names), nil
}

// cascade returns every attribute transitively invalidated by a change of name,
// excluding name itself.
func (r *registry) cascade(name string) []string {
	var result []string
	seen := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range r.dependents[current] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			result = append(result, dep)
			queue = append(queue, dep)
		}
	}
	return result
}

// ordered returns names sorted so that every attribute comes after the registered
// attributes it depends on. Ties keep the input order; names caught in a
// dependency cycle are appended in input order.
func (r *registry) ordered(names []string) []string {
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		selected[name] = true
	}

	pending := make(map[string]int, len(names))
	for _, name := range names {
		for _, dep := range r.dependsOn[name] {
			if selected[dep] && dep != name {
				pending[name]++
			}
		}
	}

	result := make([]string, 0, len(names))
	placed := make(map[string]bool, len(names))
	for len(result) < len(names) {
		progressed := false
		for _, name := range names {
			if placed[name] || pending[name] > 0 {
				continue
			}
			placed[name] = true
			result = append(result, name)
			progressed = true
			for _, dependent := range r.dependents[name] {
				if selected[dependent] && dependent != name {
					pending[dependent]--
				}
			}
		}
		if !progressed {
			for _, name := range names {
				if !placed[name] {
					placed[name] = true
					result = append(result, name)
				}
			}
		}
	}
	return result
}

// compute calls the plugin, converting a failure or a panic into an AttributeComputeError.
func (r *registry) compute(name, path string) (value fscache.Value, err error) {
	plugin, ok := r.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", fscache.ErrUnknownAttribute, name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			value = nil
			err = &fscache.AttributeComputeError{Path: path, Attribute: name, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	value, err = plugin.Compute(path)
	if err != nil {
		return nil, &fscache.AttributeComputeError{Path: path, Attribute: name, Err: err}
	}
	return value, nil
}
