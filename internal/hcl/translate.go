// This file translates the decoded HCL schema structs into the
// format-agnostic model.

package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

func translateModule(m *moduleBlock, filename string) (*model.ModuleDefinition, []model.VariantDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	kindName, kindDiags := keyword(m.Kind, "")
	diags = append(diags, kindDiags...)
	kind, err := model.ParseModuleKind(kindName)
	if err != nil && !kindDiags.HasErrors() {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown module kind",
			Detail:   err.Error(),
			Subject:  m.Kind.Range().Ptr(),
		})
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

	seenProps := make(map[string]struct{})
	for _, p := range m.Properties {
		if _, exists := seenProps[p.ID]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate property definition",
				Detail:   fmt.Sprintf("A property named '%s' has already been defined.", p.ID),
				Subject:  p.Type.Range().Ptr(),
			})
			continue
		}
		seenProps[p.ID] = struct{}{}

		prop, propDiags := translateProperty(p)
		diags = append(diags, propDiags...)
		if !propDiags.HasErrors() {
			def.Properties = append(def.Properties, prop)
		}
	}

	var variants []model.VariantDefinition
	seenVariants := make(map[string]struct{})
	for _, v := range m.Variants {
		if _, exists := seenVariants[v.ID]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate variant definition",
				Detail:   fmt.Sprintf("A variant named '%s' has already been defined.", v.ID),
			})
			continue
		}
		seenVariants[v.ID] = struct{}{}

		variant, variantDiags := translateVariant(v)
		diags = append(diags, variantDiags...)
		variants = append(variants, variant)
	}

	return def, variants, diags
}

func translateProperty(p *propertyBlock) (model.PropertyDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	typeName, typeDiags := keyword(p.Type, "")
	if typeDiags.HasErrors() {
		return model.PropertyDefinition{}, typeDiags
	}
	propType, err := model.ParsePropertyType(typeName)
	if err != nil {
		return model.PropertyDefinition{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown property type",
			Detail:   err.Error(),
			Subject:  p.Type.Range().Ptr(),
		}}
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

	defaultVal, defaultDiags := literal(p.Default)
	diags = append(diags, defaultDiags...)
	if defaultVal != nil {
		converted, err := convert.Convert(*defaultVal, def.ValueType())
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default value",
				Detail:   fmt.Sprintf("The default for property '%s' cannot be used as %s: %s.", p.ID, def.ValueType().FriendlyName(), err),
				Subject:  p.Default.Range().Ptr(),
			})
		} else {
			def.Default = &converted
		}
	}

	return def, diags
}

func translateVariant(v *variantBlock) (model.VariantDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	variant := model.VariantDefinition{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
	}
	if variant.Name == "" {
		variant.Name = v.ID
	}

	add := func(blocks []*portBlock, dir model.Direction) {
		seen := make(map[string]struct{})
		for _, b := range blocks {
			if _, exists := seen[b.Name]; exists {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  fmt.Sprintf("Duplicate %s definition", dir),
					Detail:   fmt.Sprintf("An %s named '%s' has already been defined in variant '%s'.", dir, b.Name, v.ID),
				})
				continue
			}
			seen[b.Name] = struct{}{}

			port, portDiags := translatePort(b, dir)
			diags = append(diags, portDiags...)
			variant.Ports = append(variant.Ports, port)
		}
	}
	add(v.Inputs, model.Input)
	add(v.Outputs, model.Output)

	return variant, diags
}

func translatePort(b *portBlock, dir model.Direction) (model.PortDefinition, hcl.Diagnostics) {
	typeName, diags := keyword(b.Type, string(model.Any))

	port := model.PortDefinition{
		Name:          b.Name,
		Direction:     dir,
		Type:          model.DataType(typeName),
		Description:   b.Description,
		Optional:      b.Optional,
		AllowMultiple: dir == model.Output,
	}
	// Required ports are always shown; optional ones start hidden unless the
	// manifest says otherwise.
	port.DefaultEnabled = !b.Optional
	if b.DefaultEnabled != nil {
		port.DefaultEnabled = *b.DefaultEnabled
	}
	if b.AllowMultiple != nil {
		port.AllowMultiple = *b.AllowMultiple
	}
	return port, diags
}
