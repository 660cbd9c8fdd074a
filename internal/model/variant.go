// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines variants: alternative port layouts for one module type.

package model

// DefaultVariantID is the id a newly placed node starts on when its module
// offers a variant with this id.
const DefaultVariantID = "default"

// VariantDefinition is one selectable port layout of a module.
type VariantDefinition struct {
	ID          string           `validate:"required"`
	Name        string
	Description string
	Ports       []PortDefinition `validate:"dive"`
}

// Port looks up a port by direction and name.
func (v VariantDefinition) Port(dir Direction, name string) (PortDefinition, bool) {
	for _, p := range v.Ports {
		if p.Direction == dir && p.Name == name {
			return p, true
		}
	}
	return PortDefinition{}, false
}

// PortsOf returns the ports on one side, in declaration order.
func (v VariantDefinition) PortsOf(dir Direction) []PortDefinition {
	var out []PortDefinition
	for _, p := range v.Ports {
		if p.Direction == dir {
			out = append(out, p)
		}
	}
	return out
}

// DisplayablePorts returns the ports of v that are displayable under the
// given optional-port toggles, in declaration order.
func (v VariantDefinition) DisplayablePorts(active map[string]bool) []PortDefinition {
	var out []PortDefinition
	for _, p := range v.Ports {
		if Displayable(p, active) {
			out = append(out, p)
		}
	}
	return out
}

// InitialActivePorts seeds the optional-port toggles of a fresh node from the
// DefaultEnabled flags of the variant's optional ports.
func (v VariantDefinition) InitialActivePorts() map[string]bool {
	active := make(map[string]bool)
	for _, p := range v.Ports {
		if p.Optional {
			active[p.Name] = p.DefaultEnabled
		}
	}
	return active
}

// DefaultVariant picks the variant a new node starts on: the one with id
// DefaultVariantID if present, otherwise the first. It returns false for an
// empty list.
func DefaultVariant(variants []VariantDefinition) (VariantDefinition, bool) {
	if len(variants) == 0 {
		return VariantDefinition{}, false
	}
	for _, v := range variants {
		if v.ID == DefaultVariantID {
			return v, true
		}
	}
	return variants[0], true
}

// FindVariant looks up a variant by id.
func FindVariant(variants []VariantDefinition, id string) (VariantDefinition, bool) {
	for _, v := range variants {
		if v.ID == id {
			return v, true
		}
	}
	return VariantDefinition{}, false
}

// CloneVariants returns a deep copy of the list so callers can hand it out
// without sharing port slices.
func CloneVariants(in []VariantDefinition) []VariantDefinition {
	if in == nil {
		return nil
	}
	out := make([]VariantDefinition, len(in))
	for i, v := range in {
		out[i] = v
		out[i].Ports = append([]PortDefinition(nil), v.Ports...)
	}
	return out
}
