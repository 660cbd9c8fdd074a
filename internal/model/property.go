// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the editable properties of a module and the value type
// each property kind carries.

package model

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// PropertyType selects how a property is edited and what values it holds.
type PropertyType string

const (
	PropString  PropertyType = "string"
	PropNumber  PropertyType = "number"
	PropBoolean PropertyType = "boolean"
	PropSelect  PropertyType = "select"
	PropFile    PropertyType = "file"
	PropColor   PropertyType = "color"
	PropText    PropertyType = "text"
)

// PropertyTypes lists every known property type.
var PropertyTypes = []PropertyType{
	PropString, PropNumber, PropBoolean, PropSelect, PropFile, PropColor, PropText,
}

// ParsePropertyType converts a manifest keyword into a PropertyType.
func ParsePropertyType(s string) (PropertyType, error) {
	for _, t := range PropertyTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown property type %q", s)
}

// ValueType returns the cty type of values stored for a property of this
// kind. Select properties carry the type of their options, which is only
// known per definition, so they report cty.DynamicPseudoType here.
func (t PropertyType) ValueType() cty.Type {
	switch t {
	case PropNumber:
		return cty.Number
	case PropBoolean:
		return cty.Bool
	case PropSelect:
		return cty.DynamicPseudoType
	default:
		return cty.String
	}
}

// Option is one choice of a select property.
type Option struct {
	Label string
	Value cty.Value
}

// PropertyDefinition describes one editable property of a module.
type PropertyDefinition struct {
	// ID is the key under which the value is stored on a node.
	ID string `validate:"required"`

	// Label is the human readable name shown in the inspector.
	Label string

	Type PropertyType `validate:"oneof=string number boolean select file color text"`

	Description string
	Required    bool

	// Default is the initial value on a new node. Nil means unset.
	Default *cty.Value

	// Min and Max bound number properties when set.
	Min *float64
	Max *float64

	// Options lists the choices of a select property.
	Options []Option
}

// ValueType returns the cty type of this property's values. For select
// properties it is the type of the first option, or string when there are
// none.
func (p PropertyDefinition) ValueType() cty.Type {
	if p.Type != PropSelect {
		return p.Type.ValueType()
	}
	if len(p.Options) > 0 && p.Options[0].Value.Type() != cty.NilType {
		return p.Options[0].Value.Type()
	}
	return cty.String
}

// HasOption reports whether v equals one of the declared options.
func (p PropertyDefinition) HasOption(v cty.Value) bool {
	for _, o := range p.Options {
		if o.Value.Type().Equals(v.Type()) && o.Value.RawEquals(v) {
			return true
		}
	}
	return false
}

// InitialProperties builds the property map of a fresh node from the
// declared defaults. Properties without a default are left out.
func InitialProperties(defs []PropertyDefinition) map[string]cty.Value {
	props := make(map[string]cty.Value, len(defs))
	for _, d := range defs {
		if d.Default != nil {
			props[d.ID] = *d.Default
		}
	}
	return props
}
