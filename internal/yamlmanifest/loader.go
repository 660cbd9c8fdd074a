package yamlmanifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vk/pipecanvas/internal/ctxlog"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// LoadBytes parses one YAML manifest and translates it into a catalog.
// Unknown keys are rejected so typos do not silently drop ports.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*model.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}

	catalog := model.NewCatalog()
	for _, c := range doc.Categories {
		catalog.AddCategory(model.Category{Key: c.Key, Title: c.Title})
	}
	for _, m := range doc.Modules {
		def, variants, err := translateModule(m, filename)
		if err != nil {
			return nil, fmt.Errorf("invalid module %q in %s: %w", m.ID, filename, err)
		}
		if err := catalog.AddModule(def, variants); err != nil {
			return nil, err
		}
	}

	logger.Debug("YAML manifest loaded.", "file", filename, "modules", catalog.Len(), "categories", len(catalog.Categories))
	return catalog, nil
}

func translateModule(m moduleDoc, filename string) (*model.ModuleDefinition, []model.VariantDefinition, error) {
	kind, err := model.ParseModuleKind(m.Kind)
	if err != nil {
		return nil, nil, err
	}

	def := &model.ModuleDefinition{
		ID:          m.ID,
		Name:        m.Name,
		Kind:        kind,
		Category:    m.Category,
		Icon:        m.Icon,
		Color:       m.Color,
		Description: m.Description,
		Source:      filename,
	}

	for _, p := range m.Properties {
		prop, err := translateProperty(p)
		if err != nil {
			return nil, nil, fmt.Errorf("property %q: %w", p.ID, err)
		}
		def.Properties = append(def.Properties, prop)
	}

	variants := make([]model.VariantDefinition, 0, len(m.Variants))
	for _, v := range m.Variants {
		variant, err := translateVariant(v)
		if err != nil {
			return nil, nil, fmt.Errorf("variant %q: %w", v.ID, err)
		}
		variants = append(variants, variant)
	}
	return def, variants, nil
}

func translateProperty(p propertyDoc) (model.PropertyDefinition, error) {
	propType, err := model.ParsePropertyType(p.Type)
	if err != nil {
		return model.PropertyDefinition{}, err
	}

	def := model.PropertyDefinition{
		ID:          p.ID,
		Label:       p.Label,
		Type:        propType,
		Description: p.Description,
		Required:    p.Required,
		Min:         p.Min,
		Max:         p.Max,
	}
	if def.Label == "" {
		def.Label = p.ID
	}
	for _, o := range p.Options {
		label := o.Label
		if label == "" {
			label = o.Value
		}
		def.Options = append(def.Options, model.Option{Label: label, Value: cty.StringVal(o.Value)})
	}

	if p.Default != nil {
		val, err := toCty(p.Default)
		if err != nil {
			return model.PropertyDefinition{}, fmt.Errorf("invalid default: %w", err)
		}
		converted, err := convert.Convert(val, def.ValueType())
		if err != nil {
			return model.PropertyDefinition{}, fmt.Errorf("invalid default: cannot use %s as %s: %w",
				val.Type().FriendlyName(), def.ValueType().FriendlyName(), err)
		}
		def.Default = &converted
	}
	return def, nil
}

// toCty converts a scalar decoded by yaml.v3 into a cty value.
func toCty(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unsupported value %v: %w", v, err)
	}
	return gocty.ToCtyValue(v, ty)
}

func translateVariant(v variantDoc) (model.VariantDefinition, error) {
	variant := model.VariantDefinition{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
	}
	if variant.Name == "" {
		variant.Name = v.ID
	}

	seen := make(map[model.PortKey]struct{})
	for _, p := range v.Ports {
		dir, err := model.ParseDirection(p.Direction)
		if err != nil {
			return model.VariantDefinition{}, fmt.Errorf("port %q: %w", p.Name, err)
		}
		port := model.PortDefinition{
			Name:           p.Name,
			Direction:      dir,
			Type:           model.DataType(p.Type),
			Description:    p.Description,
			Optional:       p.Optional,
			DefaultEnabled: !p.Optional,
			AllowMultiple:  dir == model.Output,
		}
		if port.Type == "" {
			port.Type = model.Any
		}
		if p.DefaultEnabled != nil {
			port.DefaultEnabled = *p.DefaultEnabled
		}
		if p.AllowMultiple != nil {
			port.AllowMultiple = *p.AllowMultiple
		}
		if _, dup := seen[port.Key()]; dup {
			return model.VariantDefinition{}, fmt.Errorf("duplicate %s %q", dir, p.Name)
		}
		seen[port.Key()] = struct{}{}
		variant.Ports = append(variant.Ports, port)
	}
	return variant, nil
}
