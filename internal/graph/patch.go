package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Patch is a partial update of a node. Nil fields are left unchanged.
type Patch struct {
	Label       *string
	Description *string
	Position    *Position

	// Properties are merged into the node's values key by key.
	Properties map[string]cty.Value

	// VariantID switches the current variant.
	VariantID *string

	// ActivePorts are merged into the node's optional port toggles key by key.
	ActivePorts map[string]bool
}

// AffectsPorts reports whether applying the patch can change which ports
// are displayable.
func (p Patch) AffectsPorts() bool {
	return p.VariantID != nil || len(p.ActivePorts) > 0
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Label == nil && p.Description == nil && p.Position == nil &&
		len(p.Properties) == 0 && !p.AffectsPorts()
}

// Apply returns a copy of n with the patch applied. It fails when the patch
// selects a variant the node does not offer.
func (p Patch) Apply(n *Node) (*Node, error) {
	out := n.Clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if len(p.Properties) > 0 {
		if out.Properties == nil {
			out.Properties = make(map[string]cty.Value, len(p.Properties))
		}
		for k, v := range p.Properties {
			out.Properties[k] = v
		}
	}
	if p.VariantID != nil && *p.VariantID != out.VariantID {
		found := false
		for _, v := range out.Variants {
			if v.ID == *p.VariantID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q on node %s", ErrUnknownVariant, *p.VariantID, n.ID)
		}
		out.VariantID = *p.VariantID
	}
	if len(p.ActivePorts) > 0 {
		if out.ActivePorts == nil {
			out.ActivePorts = make(map[string]bool, len(p.ActivePorts))
		}
		for k, v := range p.ActivePorts {
			out.ActivePorts[k] = v
		}
	}
	return out, nil
}
