// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Catalog, the result of loading one or more manifests.

package model

import "fmt"

// Catalog holds module definitions, their variants and the palette
// categories, keeping declaration order for stable listings.
type Catalog struct {
	Modules    map[string]*ModuleDefinition
	Variants   map[string][]VariantDefinition
	Categories []Category

	order []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Modules:  make(map[string]*ModuleDefinition),
		Variants: make(map[string][]VariantDefinition),
	}
}

// AddModule adds a definition and its variants. A module id may only be
// added once.
func (c *Catalog) AddModule(def *ModuleDefinition, variants []VariantDefinition) error {
	if existing, ok := c.Modules[def.ID]; ok {
		return fmt.Errorf("module %q is defined more than once (%s and %s)", def.ID, existing.Source, def.Source)
	}
	c.Modules[def.ID] = def
	if len(variants) > 0 {
		c.Variants[def.ID] = variants
	}
	c.order = append(c.order, def.ID)
	return nil
}

// AddCategory adds a palette category. Re-declaring a category with the
// same key replaces its title.
func (c *Catalog) AddCategory(cat Category) {
	for i, existing := range c.Categories {
		if existing.Key == cat.Key {
			c.Categories[i] = cat
			return
		}
	}
	c.Categories = append(c.Categories, cat)
}

// Merge adds every module and category of other into c.
func (c *Catalog) Merge(other *Catalog) error {
	for _, cat := range other.Categories {
		c.AddCategory(cat)
	}
	for _, id := range other.Order() {
		if err := c.AddModule(other.Modules[id], other.Variants[id]); err != nil {
			return err
		}
	}
	return nil
}

// Order returns module ids in declaration order.
func (c *Catalog) Order() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of modules.
func (c *Catalog) Len() int {
	return len(c.order)
}
