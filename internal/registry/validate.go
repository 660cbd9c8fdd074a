package registry

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/zclconf/go-cty/cty"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural integrity of the loaded catalog: required
// fields, known keywords, port uniqueness and defaults that respect their
// own constraints. Modules filed under an undeclared category only produce a
// warning.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []string
	known := make(map[string]struct{}, len(r.catalog.Categories))
	for _, c := range r.catalog.Categories {
		known[c.Key] = struct{}{}
	}

	for _, id := range r.catalog.Order() {
		def := r.catalog.Modules[id]
		if err := validate.Struct(def); err != nil {
			errs = append(errs, fmt.Sprintf("module '%s': %s", id, err))
		}
		if _, ok := known[def.Category]; !ok && len(known) > 0 {
			logger.Warn("Module is filed under an undeclared category.", "module", id, "category", def.Category)
		}
		for _, p := range def.Properties {
			if err := checkDefault(p); err != nil {
				errs = append(errs, fmt.Sprintf("module '%s', property '%s': %s", id, p.ID, err))
			}
		}

		variantIDs := make(map[string]struct{})
		for _, v := range r.catalog.Variants[id] {
			if _, dup := variantIDs[v.ID]; dup {
				errs = append(errs, fmt.Sprintf("module '%s': duplicate variant '%s'", id, v.ID))
			}
			variantIDs[v.ID] = struct{}{}

			if err := validate.Struct(v); err != nil {
				errs = append(errs, fmt.Sprintf("module '%s', variant '%s': %s", id, v.ID, err))
			}
			ports := make(map[model.PortKey]struct{})
			for _, p := range v.Ports {
				if _, dup := ports[p.Key()]; dup {
					errs = append(errs, fmt.Sprintf("module '%s', variant '%s': duplicate %s '%s'", id, v.ID, p.Direction, p.Name))
				}
				ports[p.Key()] = struct{}{}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "modules", r.catalog.Len())
	return nil
}

// checkDefault verifies a property default against its range and options.
func checkDefault(p model.PropertyDefinition) error {
	if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
		return fmt.Errorf("min %v is greater than max %v", *p.Min, *p.Max)
	}
	if p.Default == nil {
		return nil
	}
	def := *p.Default

	switch p.Type {
	case model.PropNumber:
		if !def.Type().Equals(cty.Number) {
			return fmt.Errorf("default must be a number, got %s", def.Type().FriendlyName())
		}
		bf := def.AsBigFloat()
		if p.Min != nil && bf.Cmp(big.NewFloat(*p.Min)) < 0 {
			return fmt.Errorf("default is below the minimum %v", *p.Min)
		}
		if p.Max != nil && bf.Cmp(big.NewFloat(*p.Max)) > 0 {
			return fmt.Errorf("default is above the maximum %v", *p.Max)
		}
	case model.PropSelect:
		if len(p.Options) > 0 && !p.HasOption(def) {
			return fmt.Errorf("default is not one of the declared options")
		}
	}
	return nil
}
