// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines ports: the typed, directional connection points a variant
// exposes on a node, and the rule that decides which of them are displayable.

package model

import "fmt"

// Direction is the side of a node a port sits on.
type Direction string

const (
	Input  Direction = "input"
	Output Direction = "output"
)

// ParseDirection converts a manifest keyword into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Input, Output:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown port direction %q", s)
	}
}

// DataType is an open-ended tag naming the kind of data flowing through a
// port. Any tag is valid; the well-known ones are declared below.
type DataType string

const (
	// Any is the wildcard type. It is compatible with every other type.
	Any     DataType = "any"
	Number  DataType = "number"
	String  DataType = "string"
	Boolean DataType = "boolean"
	Object  DataType = "object"
	Record  DataType = "structured-record"
)

// PortDefinition defines a single port of a variant.
type PortDefinition struct {
	// Name identifies the port. It is unique within its variant and direction.
	Name string `validate:"required"`

	Direction Direction `validate:"oneof=input output"`

	// Type is the data type tag. An empty type is treated as Any.
	Type DataType

	Description string

	// Optional ports can be toggled off on a node instance.
	Optional bool

	// DefaultEnabled is the initial toggle state of an optional port. It is
	// ignored for ports that are not optional.
	DefaultEnabled bool

	// AllowMultiple reports whether the port accepts more than one edge.
	// Loaders default it to false for inputs and true for outputs.
	AllowMultiple bool
}

// EffectiveType returns the declared type, or Any when none was declared.
func (p PortDefinition) EffectiveType() DataType {
	if p.Type == "" {
		return Any
	}
	return p.Type
}

// Key returns the identity of the port within its variant.
func (p PortDefinition) Key() PortKey {
	return PortKey{Direction: p.Direction, Name: p.Name}
}

// PortKey identifies a port by direction and name. Ports with the same name
// on opposite sides of a node are different ports.
type PortKey struct {
	Direction Direction
	Name      string
}

func (k PortKey) String() string {
	return string(k.Direction) + ":" + k.Name
}

// Displayable reports whether the port is shown on a node whose optional
// port toggles are active. A required port is always displayable. An optional
// port is displayable when its toggle is on, falling back to DefaultEnabled
// when the node has no entry for it.
func Displayable(p PortDefinition, active map[string]bool) bool {
	if !p.Optional {
		return true
	}
	if on, ok := active[p.Name]; ok {
		return on
	}
	return p.DefaultEnabled
}
