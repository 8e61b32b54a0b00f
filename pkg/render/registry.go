package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-fractalview/pkg/geometry"
)

// Registry stores renderers by family, providing discovery and duplication
// safeguards.
type Registry struct {
	mu        sync.RWMutex
	renderers map[geometry.Family]Renderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[geometry.Family]Renderer),
	}
}

// Register adds a renderer under its Family(). Duplicate families return an
// error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	family := renderer.Family()
	if family == "" {
		return fmt.Errorf("render: renderer %q has no family", renderer.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.renderers[family]; exists {
		return fmt.Errorf("render: family %q already handled by %q", family, existing.Name())
	}

	r.renderers[family] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves the renderer for a family. Unknown families wrap
// geometry.ErrUnknownFamily.
func (r *Registry) Get(family geometry.Family) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[family]
	if !ok {
		return nil, fmt.Errorf("render: %w %q", geometry.ErrUnknownFamily, family)
	}
	return renderer, nil
}

// List returns the registered families in sorted order.
func (r *Registry) List() []geometry.Family {
	r.mu.RLock()
	defer r.mu.RUnlock()

	families := make([]geometry.Family, 0, len(r.renderers))
	for family := range r.renderers {
		families = append(families, family)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })
	return families
}

// Has reports whether a family has a renderer.
func (r *Registry) Has(family geometry.Family) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[family]
	return ok
}
