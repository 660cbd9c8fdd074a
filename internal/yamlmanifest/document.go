package yamlmanifest

type document struct {
	Categories []categoryDoc `yaml:"categories,omitempty"`
	Modules    []moduleDoc   `yaml:"modules"`
}

type categoryDoc struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title,omitempty"`
}

type moduleDoc struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Kind        string        `yaml:"kind,omitempty"`
	Category    string        `yaml:"category,omitempty"`
	Icon        string        `yaml:"icon,omitempty"`
	Color       string        `yaml:"color,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Properties  []propertyDoc `yaml:"properties,omitempty"`
	Variants    []variantDoc  `yaml:"variants,omitempty"`
}

type propertyDoc struct {
	ID          string      `yaml:"id"`
	Type        string      `yaml:"type,omitempty"`
	Label       string      `yaml:"label,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Required    bool        `yaml:"required,omitempty"`
	Default     any         `yaml:"default,omitempty"`
	Min         *float64    `yaml:"min,omitempty"`
	Max         *float64    `yaml:"max,omitempty"`
	Options     []optionDoc `yaml:"options,omitempty"`
}

type optionDoc struct {
	Value string `yaml:"value,omitempty"`
	Label string `yaml:"label,omitempty"`
}

type variantDoc struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Ports       []portDoc `yaml:"ports,omitempty"`
}

type portDoc struct {
	Name           string `yaml:"name"`
	Direction      string `yaml:"direction"`
	Type           string `yaml:"type,omitempty"`
	Description    string `yaml:"description,omitempty"`
	Optional       bool   `yaml:"optional,omitempty"`
	DefaultEnabled *bool  `yaml:"default_enabled,omitempty"`
	AllowMultiple  *bool  `yaml:"allow_multiple_connections,omitempty"`
}
