package connect

import (
	"fmt"

	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/model"
)

// IncompatibleTypesError rejects an edge between ports of different types.
type IncompatibleTypesError struct {
	Source graph.PortRef
	Target graph.PortRef

	SourceType model.DataType
	TargetType model.DataType
}

func (e *IncompatibleTypesError) Error() string {
	return fmt.Sprintf("cannot connect %s output %q (%s) to %s input %q (%s): incompatible types",
		e.Source.Node, e.Source.Port, e.SourceType, e.Target.Node, e.Target.Port, e.TargetType)
}

// Validator checks the type side of a proposed edge.
type Validator struct {
	compat Compatibility
}

// NewValidator returns a validator using compat, or Strict when nil.
func NewValidator(compat Compatibility) *Validator {
	if compat == nil {
		compat = Strict
	}
	return &Validator{compat: compat}
}

// PortType returns the type of a port on n, or "any" when the node or port
// cannot be resolved.
func PortType(n *graph.Node, dir model.Direction, port string) model.DataType {
	if n == nil {
		return model.Any
	}
	v, ok := n.Variant()
	if !ok {
		return model.Any
	}
	p, ok := v.Port(dir, port)
	if !ok {
		return model.Any
	}
	return p.EffectiveType()
}

// CanConnect reports whether an edge from the src output to the dst input
// passes the type check.
func (v *Validator) CanConnect(src, dst *graph.Node, edge graph.Edge) bool {
	return v.Check(src, dst, edge) == nil
}

// Check returns an *IncompatibleTypesError when the types do not match.
func (v *Validator) Check(src, dst *graph.Node, edge graph.Edge) error {
	srcType := PortType(src, model.Output, edge.Source.Port)
	dstType := PortType(dst, model.Input, edge.Target.Port)
	if v.compat.Compatible(srcType, dstType) {
		return nil
	}
	return &IncompatibleTypesError{
		Source:     edge.Source,
		Target:     edge.Target,
		SourceType: srcType,
		TargetType: dstType,
	}
}
