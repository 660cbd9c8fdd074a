package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks of a manifest file.
type fileRoot struct {
	Categories []*categoryBlock `hcl:"category,block"`
	Modules    []*moduleBlock   `hcl:"module,block"`
	Remain     hcl.Body         `hcl:",remain"`
}

type categoryBlock struct {
	Key   string `hcl:"key,label"`
	Title string `hcl:"title,optional"`
}

type moduleBlock struct {
	ID          string           `hcl:"id,label"`
	Name        string           `hcl:"name"`
	Kind        hcl.Expression   `hcl:"kind"`
	Category    string           `hcl:"category,optional"`
	Icon        string           `hcl:"icon,optional"`
	Color       string           `hcl:"color,optional"`
	Description string           `hcl:"description,optional"`
	Properties  []*propertyBlock `hcl:"property,block"`
	Variants    []*variantBlock  `hcl:"variant,block"`
}

type propertyBlock struct {
	ID          string         `hcl:"id,label"`
	Type        hcl.Expression `hcl:"type"`
	Label       string         `hcl:"label,optional"`
	Description string         `hcl:"description,optional"`
	Required    bool           `hcl:"required,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Min         *float64       `hcl:"min,optional"`
	Max         *float64       `hcl:"max,optional"`
	Options     []*optionBlock `hcl:"option,block"`
}

type optionBlock struct {
	Value string `hcl:"value,label"`
	Label string `hcl:"label,optional"`
}

type variantBlock struct {
	ID          string       `hcl:"id,label"`
	Name        string       `hcl:"name,optional"`
	Description string       `hcl:"description,optional"`
	Inputs      []*portBlock `hcl:"input,block"`
	Outputs     []*portBlock `hcl:"output,block"`
}

type portBlock struct {
	Name           string         `hcl:"name,label"`
	Type           hcl.Expression `hcl:"type,optional"`
	Description    string         `hcl:"description,optional"`
	Optional       bool           `hcl:"optional,optional"`
	DefaultEnabled *bool          `hcl:"default_enabled,optional"`
	AllowMultiple  *bool          `hcl:"allow_multiple_connections,optional"`
}
