package yamlmanifest

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/vk/pipecanvas/internal/model"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Marshal renders c as a YAML manifest that LoadBytes reads back into an
// equivalent catalog. Values the loader would default are left out.
func Marshal(c *model.Catalog) ([]byte, error) {
	var doc document
	for _, cat := range c.Categories {
		doc.Categories = append(doc.Categories, categoryDoc{Key: cat.Key, Title: cat.Title})
	}
	for _, id := range c.Order() {
		m, err := encodeModule(c.Modules[id], c.Variants[id])
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", id, err)
		}
		doc.Modules = append(doc.Modules, m)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeModule(def *model.ModuleDefinition, variants []model.VariantDefinition) (moduleDoc, error) {
	m := moduleDoc{
		ID:          def.ID,
		Name:        def.Name,
		Kind:        string(def.Kind),
		Category:    def.Category,
		Icon:        def.Icon,
		Color:       def.Color,
		Description: def.Description,
	}
	for _, p := range def.Properties {
		prop, err := encodeProperty(p)
		if err != nil {
			return moduleDoc{}, fmt.Errorf("property %q: %w", p.ID, err)
		}
		m.Properties = append(m.Properties, prop)
	}
	for _, v := range variants {
		m.Variants = append(m.Variants, encodeVariant(v))
	}
	return m, nil
}

func encodeProperty(p model.PropertyDefinition) (propertyDoc, error) {
	doc := propertyDoc{
		ID:          p.ID,
		Type:        string(p.Type),
		Description: p.Description,
		Required:    p.Required,
		Min:         p.Min,
		Max:         p.Max,
	}
	if p.Label != p.ID {
		doc.Label = p.Label
	}
	for _, o := range p.Options {
		value, err := scalar(o.Value)
		if err != nil {
			return propertyDoc{}, err
		}
		opt := optionDoc{Value: fmt.Sprint(value)}
		if o.Label != opt.Value {
			opt.Label = o.Label
		}
		doc.Options = append(doc.Options, opt)
	}
	if p.Default != nil && !p.Default.IsNull() {
		value, err := scalar(*p.Default)
		if err != nil {
			return propertyDoc{}, fmt.Errorf("default: %w", err)
		}
		doc.Default = value
	}
	return doc, nil
}

func encodeVariant(v model.VariantDefinition) variantDoc {
	doc := variantDoc{ID: v.ID, Description: v.Description}
	if v.Name != v.ID {
		doc.Name = v.Name
	}
	for _, p := range v.Ports {
		port := portDoc{
			Name:        p.Name,
			Direction:   string(p.Direction),
			Description: p.Description,
			Optional:    p.Optional,
		}
		if p.Type != model.Any {
			port.Type = string(p.Type)
		}
		if p.DefaultEnabled == p.Optional {
			port.DefaultEnabled = boolPtr(p.DefaultEnabled)
		}
		if p.AllowMultiple != (p.Direction == model.Output) {
			port.AllowMultiple = boolPtr(p.AllowMultiple)
		}
		doc.Ports = append(doc.Ports, port)
	}
	return doc
}

// scalar converts a known primitive cty value into its YAML equivalent.
func scalar(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("value is not a known scalar")
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", v.Type().FriendlyName())
	}
}

func boolPtr(b bool) *bool { return &b }
