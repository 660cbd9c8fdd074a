// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the palette entries of the catalog.

package model

import "fmt"

// ModuleKind is the coarse role of a module in a pipeline.
type ModuleKind string

const (
	KindSource    ModuleKind = "source"
	KindProcessor ModuleKind = "processor"
	KindAnalyzer  ModuleKind = "analyzer"
	KindViz       ModuleKind = "viz"
	KindOutput    ModuleKind = "output"
)

// ParseModuleKind converts a manifest keyword into a ModuleKind.
func ParseModuleKind(s string) (ModuleKind, error) {
	switch ModuleKind(s) {
	case KindSource, KindProcessor, KindAnalyzer, KindViz, KindOutput:
		return ModuleKind(s), nil
	default:
		return "", fmt.Errorf("unknown module kind %q", s)
	}
}

// Category groups modules in the palette.
type Category struct {
	Key   string `validate:"required"`
	Title string
}

// ModuleDefinition is one palette entry.
type ModuleDefinition struct {
	ID          string     `validate:"required"`
	Name        string     `validate:"required"`
	Kind        ModuleKind `validate:"oneof=source processor analyzer viz output"`
	Category    string
	Icon        string
	Color       string
	Description string

	Properties []PropertyDefinition `validate:"dive"`

	// Source is the manifest file the definition was read from.
	Source string
}

// Property looks up a property definition by id.
func (m *ModuleDefinition) Property(id string) (PropertyDefinition, bool) {
	for _, p := range m.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return PropertyDefinition{}, false
}
