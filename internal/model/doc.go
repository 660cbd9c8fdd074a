// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the format-agnostic, in-memory representation of the
// module catalog: the palette of module types a user can drop onto the canvas,
// together with their editable properties and their port-layout variants.
//
// # Core Concepts
//
//   - ModuleDefinition: A palette entry. It names a module type, its visual
//     metadata (icon, kind, category) and the PropertyDefinitions the inspector
//     shows for every placed instance.
//
//   - VariantDefinition: One selectable port layout of a module. A module may
//     offer several variants (for example a numeric and a string comparison);
//     exactly one is current on each placed node.
//
//   - PortDefinition: A named, typed, directional connection point. Optional
//     ports can be toggled off per node; a port that is toggled off is not
//     displayable and can carry no edges.
//
//   - Catalog: The set of definitions loaded from one or more manifests.
//
// Why a separate model package?
//
// Manifests come in more than one format (HCL, YAML) and the builtin palette
// ships embedded in the binary. Every loader translates into these types, so
// the registry, the graph store and the engine never see a format-specific
// structure.
package model
