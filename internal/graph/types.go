package graph

import (
	"maps"
	"slices"

	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Position is a point in canvas space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PortRef names one port on one node.
type PortRef struct {
	Node nodeid.ID `json:"node"`
	Port string    `json:"port"`
}

// Edge is a directed connection from an output port to an input port.
type Edge struct {
	ID     string  `json:"id"`
	Source PortRef `json:"source"`
	Target PortRef `json:"target"`
}

// Touches reports whether either end of the edge is on node id.
func (e Edge) Touches(id nodeid.ID) bool {
	return e.Source.Node == id || e.Target.Node == id
}

// TouchesPort reports whether the edge ends on the given port of node id.
// Source ends are output ports and target ends are input ports.
func (e Edge) TouchesPort(id nodeid.ID, key model.PortKey) bool {
	switch key.Direction {
	case model.Output:
		return e.Source.Node == id && e.Source.Port == key.Name
	case model.Input:
		return e.Target.Node == id && e.Target.Port == key.Name
	}
	return false
}

// Node is a placed instance of a module.
type Node struct {
	ID          nodeid.ID
	ModuleID    string
	Label       string
	Description string
	Position    Position

	// Properties holds the user's property values keyed by property id.
	Properties map[string]cty.Value

	// Variants is the list resolved for the module when the node was
	// created. It may be empty, in which case the node has no ports.
	Variants []model.VariantDefinition

	// VariantID is the current variant. Empty only when Variants is empty.
	VariantID string

	// ActivePorts holds the toggle state of optional ports by name.
	ActivePorts map[string]bool
}

// NewNode builds a node for def at pos using the resolved variant list. It
// starts on the default variant with optional ports seeded from their
// defaults and properties seeded from the declared defaults.
func NewNode(id nodeid.ID, def *model.ModuleDefinition, variants []model.VariantDefinition, pos Position) *Node {
	n := &Node{
		ID:          id,
		ModuleID:    def.ID,
		Label:       def.Name,
		Description: def.Description,
		Position:    pos,
		Properties:  model.InitialProperties(def.Properties),
		Variants:    variants,
		ActivePorts: make(map[string]bool),
	}
	if v, ok := model.DefaultVariant(variants); ok {
		n.VariantID = v.ID
		n.ActivePorts = v.InitialActivePorts()
	}
	return n
}

// Variant returns the current variant.
func (n *Node) Variant() (model.VariantDefinition, bool) {
	if n.VariantID == "" {
		return model.VariantDefinition{}, false
	}
	return model.FindVariant(n.Variants, n.VariantID)
}

// DisplayablePorts returns the ports currently shown on the node.
func (n *Node) DisplayablePorts() []model.PortDefinition {
	v, ok := n.Variant()
	if !ok {
		return nil
	}
	return v.DisplayablePorts(n.ActivePorts)
}

// DisplayablePort looks up a port that is currently shown on the node.
func (n *Node) DisplayablePort(dir model.Direction, name string) (model.PortDefinition, bool) {
	v, ok := n.Variant()
	if !ok {
		return model.PortDefinition{}, false
	}
	p, ok := v.Port(dir, name)
	if !ok || !model.Displayable(p, n.ActivePorts) {
		return model.PortDefinition{}, false
	}
	return p, true
}

// Clone returns a copy that shares no mutable state with n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Properties = maps.Clone(n.Properties)
	c.ActivePorts = maps.Clone(n.ActivePorts)
	c.Variants = model.CloneVariants(n.Variants)
	return &c
}

// Status summarizes the workflow for the status bar.
type Status struct {
	Saved     bool `json:"saved"`
	NodeCount int  `json:"node_count"`
	EdgeCount int  `json:"edge_count"`
}

// Snapshot is a consistent copy of the whole graph.
type Snapshot struct {
	Nodes  []*Node
	Edges  []Edge
	Status Status
}

// ChangeKind classifies a committed change.
type ChangeKind string

const (
	NodeAdded   ChangeKind = "node_added"
	NodeUpdated ChangeKind = "node_updated"
	NodeRemoved ChangeKind = "node_removed"
	EdgeAdded   ChangeKind = "edge_added"
	EdgeRemoved ChangeKind = "edge_removed"
	GraphReset  ChangeKind = "reset"
	GraphSaved  ChangeKind = "saved"
)

// Change describes one committed change.
type Change struct {
	Kind   ChangeKind
	NodeID nodeid.ID
	EdgeID string
}

// Listener receives the changes of one committed write, in order.
type Listener func(changes []Change)

// EdgeIDs returns the ids of edges, sorted.
func EdgeIDs(edges []Edge) []string {
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.ID)
	}
	slices.Sort(ids)
	return ids
}
