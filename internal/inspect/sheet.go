package inspect

import (
	"slices"

	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Widget names the editor control for a field.
type Widget string

const (
	WidgetText     Widget = "text"
	WidgetNumber   Widget = "number"
	WidgetCheckbox Widget = "checkbox"
	WidgetDropdown Widget = "dropdown"
	WidgetFile     Widget = "file"
	WidgetColor    Widget = "color"
	WidgetTextArea Widget = "textarea"
)

// Choice is one entry of a dropdown.
type Choice struct {
	Label string                  `json:"label"`
	Value ctyjson.SimpleJSONValue `json:"value"`
}

// Field is one property editor.
type Field struct {
	Key         string                   `json:"key"`
	Label       string                   `json:"label"`
	Type        model.PropertyType       `json:"type"`
	Widget      Widget                   `json:"widget"`
	Description string                   `json:"description,omitempty"`
	Required    bool                     `json:"required,omitempty"`
	Value       *ctyjson.SimpleJSONValue `json:"value,omitempty"`
	Options     []Choice                 `json:"options,omitempty"`
	Min         *float64                 `json:"min,omitempty"`
	Max         *float64                 `json:"max,omitempty"`
}

// VariantChoice is one entry of the variant picker.
type VariantChoice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Current     bool   `json:"current"`
}

// PortToggle is the switch for one optional port of the current variant.
type PortToggle struct {
	Name      string          `json:"name"`
	Direction model.Direction `json:"direction"`
	Enabled   bool            `json:"enabled"`
	Default   bool            `json:"default"`
}

// PortView is a displayable port.
type PortView struct {
	Name          string         `json:"name"`
	Type          model.DataType `json:"type"`
	Description   string         `json:"description,omitempty"`
	AllowMultiple bool           `json:"allow_multiple"`
	Optional      bool           `json:"optional,omitempty"`
}

// Sheet describes the inspector for one node or preview.
type Sheet struct {
	NodeID      nodeid.ID        `json:"node_id"`
	Preview     bool             `json:"preview"`
	ModuleID    string           `json:"module_id"`
	ModuleName  string           `json:"module_name"`
	Kind        model.ModuleKind `json:"kind"`
	Icon        string           `json:"icon,omitempty"`
	Color       string           `json:"color,omitempty"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Fields      []Field          `json:"fields"`

	// Extra holds values stored on the node that have no definition.
	Extra []Field `json:"extra,omitempty"`

	Variants []VariantChoice `json:"variants,omitempty"`
	Toggles  []PortToggle    `json:"toggles,omitempty"`
	Inputs   []PortView      `json:"inputs"`
	Outputs  []PortView      `json:"outputs"`
}

// Handler builds the field for one property. set is false when the node
// has no value for it.
type Handler func(def model.PropertyDefinition, value cty.Value, set bool) Field

// Table maps property types to handlers.
type Table map[model.PropertyType]Handler

// DefaultTable returns the handlers for the built-in property types.
func DefaultTable() Table {
	return Table{
		model.PropString:  widget(WidgetText),
		model.PropFile:    widget(WidgetFile),
		model.PropColor:   widget(WidgetColor),
		model.PropText:    widget(WidgetTextArea),
		model.PropBoolean: widget(WidgetCheckbox),
		model.PropNumber:  numberField,
		model.PropSelect:  selectField,
	}
}

// Build describes the inspector for n, whose module is def.
func (t Table) Build(n *graph.Node, def *model.ModuleDefinition) Sheet {
	s := Sheet{
		NodeID:      n.ID,
		Preview:     nodeid.IsPreview(n.ID),
		ModuleID:    n.ModuleID,
		Label:       n.Label,
		Description: n.Description,
		Fields:      []Field{},
		Inputs:      []PortView{},
		Outputs:     []PortView{},
	}
	if def != nil {
		s.ModuleName = def.Name
		s.Kind = def.Kind
		s.Icon = def.Icon
		s.Color = def.Color
		for _, p := range def.Properties {
			v, set := n.Properties[p.ID]
			h, ok := t[p.Type]
			if !ok {
				h = widget(WidgetText)
			}
			s.Fields = append(s.Fields, h(p, v, set))
		}
	}

	var extra []string
	for k := range n.Properties {
		if def == nil {
			extra = append(extra, k)
			continue
		}
		if _, ok := def.Property(k); !ok {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	for _, k := range extra {
		s.Extra = append(s.Extra, Field{Key: k, Label: k, Type: model.PropText, Widget: WidgetText, Value: jsonValue(n.Properties[k], true)})
	}

	for _, v := range n.Variants {
		s.Variants = append(s.Variants, VariantChoice{ID: v.ID, Name: v.Name, Description: v.Description, Current: v.ID == n.VariantID})
	}
	if v, ok := n.Variant(); ok {
		for _, p := range v.Ports {
			if p.Optional {
				s.Toggles = append(s.Toggles, PortToggle{
					Name:      p.Name,
					Direction: p.Direction,
					Enabled:   model.Displayable(p, n.ActivePorts),
					Default:   p.DefaultEnabled,
				})
			}
		}
	}
	for _, p := range n.DisplayablePorts() {
		pv := PortView{Name: p.Name, Type: p.EffectiveType(), Description: p.Description, AllowMultiple: p.AllowMultiple, Optional: p.Optional}
		if p.Direction == model.Input {
			s.Inputs = append(s.Inputs, pv)
		} else {
			s.Outputs = append(s.Outputs, pv)
		}
	}
	return s
}

func widget(w Widget) Handler {
	return func(def model.PropertyDefinition, value cty.Value, set bool) Field {
		return baseField(def, w, value, set)
	}
}

func numberField(def model.PropertyDefinition, value cty.Value, set bool) Field {
	f := baseField(def, WidgetNumber, value, set)
	f.Min, f.Max = def.Min, def.Max
	return f
}

func selectField(def model.PropertyDefinition, value cty.Value, set bool) Field {
	f := baseField(def, WidgetDropdown, value, set)
	for _, o := range def.Options {
		label := o.Label
		switch {
		case label != "":
		case o.Value.Type().Equals(cty.String) && !o.Value.IsNull():
			label = o.Value.AsString()
		default:
			label = display(o.Value)
		}
		f.Options = append(f.Options, Choice{Label: label, Value: ctyjson.SimpleJSONValue{Value: o.Value}})
	}
	return f
}

func baseField(def model.PropertyDefinition, w Widget, value cty.Value, set bool) Field {
	label := def.Label
	if label == "" {
		label = def.ID
	}
	return Field{
		Key:         def.ID,
		Label:       label,
		Type:        def.Type,
		Widget:      w,
		Description: def.Description,
		Required:    def.Required,
		Value:       jsonValue(value, set),
	}
}

func jsonValue(v cty.Value, set bool) *ctyjson.SimpleJSONValue {
	if !set || v.Type() == cty.NilType || !v.IsWhollyKnown() {
		return nil
	}
	return &ctyjson.SimpleJSONValue{Value: v}
}
