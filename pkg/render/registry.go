package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrRendererNotFound is returned by Get for unknown names.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrDuplicateRenderer is returned when a name is registered twice.
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
)

// Registry maps output names (`kendo`, `plan`, `tui`) to renderers. Names are
// matched case-insensitively and ignore surrounding whitespace, so request
// parameters such as `?renderer=Kendo` select the same renderer.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Renderer)}
}

func rendererKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds renderer under its Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: nil renderer")
	}
	key := rendererKey(renderer.Name())
	if key == "" {
		return errors.New("render: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[key]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateRenderer, key)
	}
	r.byName[key] = renderer
	r.order = append(r.order, key)
	return nil
}

// MustRegister is Register for startup wiring; it panics on error.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Lookup returns the renderer registered under name.
func (r *Registry) Lookup(name string) (Renderer, bool) {
	r.mu.RLock()
	renderer, ok := r.byName[rendererKey(name)]
	r.mu.RUnlock()
	return renderer, ok
}

// Get is Lookup with an ErrRendererNotFound error for unknown names.
func (r *Registry) Get(name string) (Renderer, error) {
	renderer, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// First returns the earliest registered renderer, the fallback when no
// default is configured.
func (r *Registry) First() (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, false
	}
	return r.byName[r.order[0]], true
}

// List returns the registered names in lexical order for discovery endpoints.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := append([]string(nil), r.order...)
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
