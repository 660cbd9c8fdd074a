package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/pipecanvas/internal/model"
)

// ErrUnknownModule is returned for lookups of a module id that is not in the
// catalog.
var ErrUnknownModule = errors.New("unknown module")

// Registry holds the loaded catalog for a single application instance.
type Registry struct {
	mu      sync.RWMutex
	catalog *model.Catalog
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{catalog: model.NewCatalog()}
}

// Populate merges a loaded catalog into the registry.
func (r *Registry) Populate(c *model.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog.Merge(c)
}

// Module looks up a module definition by id.
func (r *Registry) Module(id string) (*model.ModuleDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.catalog.Modules[id]
	return def, ok
}

// Modules returns every module in declaration order.
func (r *Registry) Modules() []*model.ModuleDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.ModuleDefinition, 0, r.catalog.Len())
	for _, id := range r.catalog.Order() {
		out = append(out, r.catalog.Modules[id])
	}
	return out
}

// Categories returns the palette categories in declaration order.
func (r *Registry) Categories() []model.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Category(nil), r.catalog.Categories...)
}

// ModulesByCategory returns the modules filed under one category.
func (r *Registry) ModulesByCategory(key string) []*model.ModuleDefinition {
	var out []*model.ModuleDefinition
	for _, m := range r.Modules() {
		if m.Category == key {
			out = append(out, m)
		}
	}
	return out
}

// Variants implements VariantSource. A module without declared variants
// yields an empty list; an unknown module is an error.
func (r *Registry) Variants(ctx context.Context, moduleID string) ([]model.VariantDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.catalog.Modules[moduleID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, moduleID)
	}
	return model.CloneVariants(r.catalog.Variants[moduleID]), nil
}

// Catalog returns a copy of the loaded catalog in declaration order.
func (r *Registry) Catalog() (*model.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := model.NewCatalog()
	for _, cat := range r.catalog.Categories {
		out.AddCategory(cat)
	}
	for _, id := range r.catalog.Order() {
		if err := out.AddModule(r.catalog.Modules[id], model.CloneVariants(r.catalog.Variants[id])); err != nil {
			return nil, err
		}
	}
	return out, nil
}
