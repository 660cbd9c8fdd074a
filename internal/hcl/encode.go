// This file renders a catalog back into the manifest syntax read by Loader.

package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Marshal renders c as an HCL manifest. Attributes the loader would default
// are left out. Ports are written inputs first, then outputs.
func Marshal(c *model.Catalog) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for _, cat := range c.Categories {
		body := root.AppendNewBlock("category", []string{cat.Key}).Body()
		if cat.Title != "" {
			body.SetAttributeValue("title", cty.StringVal(cat.Title))
		}
		root.AppendNewline()
	}

	for _, id := range c.Order() {
		writeModule(root, c.Modules[id], c.Variants[id])
		root.AppendNewline()
	}
	return f.Bytes()
}

func writeModule(root *hclwrite.Body, def *model.ModuleDefinition, variants []model.VariantDefinition) {
	body := root.AppendNewBlock("module", []string{def.ID}).Body()
	body.SetAttributeValue("name", cty.StringVal(def.Name))
	setKeyword(body, "kind", string(def.Kind))
	setString(body, "category", def.Category)
	setString(body, "icon", def.Icon)
	setString(body, "color", def.Color)
	setString(body, "description", def.Description)

	for _, p := range def.Properties {
		body.AppendNewline()
		writeProperty(body, p)
	}
	for _, v := range variants {
		body.AppendNewline()
		writeVariant(body, v)
	}
}

func writeProperty(parent *hclwrite.Body, p model.PropertyDefinition) {
	body := parent.AppendNewBlock("property", []string{p.ID}).Body()
	setKeyword(body, "type", string(p.Type))
	if p.Label != p.ID {
		setString(body, "label", p.Label)
	}
	setString(body, "description", p.Description)
	if p.Required {
		body.SetAttributeValue("required", cty.True)
	}
	if p.Default != nil && !p.Default.IsNull() {
		body.SetAttributeValue("default", *p.Default)
	}
	if p.Min != nil {
		body.SetAttributeValue("min", cty.NumberFloatVal(*p.Min))
	}
	if p.Max != nil {
		body.SetAttributeValue("max", cty.NumberFloatVal(*p.Max))
	}
	for _, o := range p.Options {
		value := o.Value.AsString()
		opt := body.AppendNewBlock("option", []string{value}).Body()
		if o.Label != value {
			setString(opt, "label", o.Label)
		}
	}
}

func writeVariant(parent *hclwrite.Body, v model.VariantDefinition) {
	body := parent.AppendNewBlock("variant", []string{v.ID}).Body()
	if v.Name != v.ID {
		setString(body, "name", v.Name)
	}
	setString(body, "description", v.Description)

	for _, dir := range []model.Direction{model.Input, model.Output} {
		for _, p := range v.PortsOf(dir) {
			port := body.AppendNewBlock(string(dir), []string{p.Name}).Body()
			if p.Type != model.Any && p.Type != "" {
				port.SetAttributeValue("type", cty.StringVal(string(p.Type)))
			}
			setString(port, "description", p.Description)
			if p.Optional {
				port.SetAttributeValue("optional", cty.True)
			}
			if p.DefaultEnabled == p.Optional {
				port.SetAttributeValue("default_enabled", cty.BoolVal(p.DefaultEnabled))
			}
			if p.AllowMultiple != (dir == model.Output) {
				port.SetAttributeValue("allow_multiple_connections", cty.BoolVal(p.AllowMultiple))
			}
		}
	}
}

func setString(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

// setKeyword writes value as a bare identifier, e.g. `kind = processor`.
func setKeyword(body *hclwrite.Body, name, value string) {
	body.SetAttributeTraversal(name, hcl.Traversal{hcl.TraverseRoot{Name: value}})
}
