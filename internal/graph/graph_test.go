package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

func conditional() (*model.ModuleDefinition, []model.VariantDefinition) {
	threshold := cty.NumberIntVal(10)
	def := &model.ModuleDefinition{
		ID:   "conditional",
		Name: "Conditional",
		Kind: model.KindProcessor,
		Properties: []model.PropertyDefinition{
			{ID: "threshold", Type: model.PropNumber, Default: &threshold},
		},
	}
	variants := []model.VariantDefinition{
		{ID: "string_compare", Ports: []model.PortDefinition{
			{Name: "string1", Direction: model.Input, Type: model.String},
			{Name: "match_output", Direction: model.Output, Type: model.Boolean},
			{Name: "detail_output", Direction: model.Output, Type: model.String, Optional: true},
		}},
		{ID: "default", Ports: []model.PortDefinition{
			{Name: "value", Direction: model.Input, Type: model.Number},
			{Name: "true_result", Direction: model.Output, Type: model.Any},
		}},
	}
	return def, variants
}

func TestNewNode(t *testing.T) {
	def, variants := conditional()
	n := NewNode(nodeid.New(1), def, variants, Position{X: 10, Y: 20})

	assert.Equal(t, "Conditional", n.Label)
	assert.Equal(t, "default", n.VariantID)
	assert.Empty(t, n.ActivePorts)
	assert.True(t, n.Properties["threshold"].RawEquals(cty.NumberIntVal(10)))
	assert.Len(t, n.DisplayablePorts(), 2)

	_, ok := n.DisplayablePort(model.Input, "value")
	assert.True(t, ok)
	_, ok = n.DisplayablePort(model.Output, "value")
	assert.False(t, ok)
}

func TestNewNode_NoVariants(t *testing.T) {
	def, _ := conditional()
	n := NewNode(nodeid.New(1), def, nil, Position{})

	assert.Empty(t, n.VariantID)
	assert.Empty(t, n.DisplayablePorts())
	_, ok := n.Variant()
	assert.False(t, ok)
}

func TestPatch_Apply(t *testing.T) {
	def, variants := conditional()
	n := NewNode(nodeid.New(1), def, variants, Position{})

	variant := "string_compare"
	label := "Compare names"
	patched, err := Patch{
		Label:       &label,
		VariantID:   &variant,
		ActivePorts: map[string]bool{"detail_output": true},
		Properties:  map[string]cty.Value{"threshold": cty.NumberIntVal(3)},
	}.Apply(n)
	require.NoError(t, err)

	assert.Equal(t, "Compare names", patched.Label)
	assert.Equal(t, "string_compare", patched.VariantID)
	assert.Len(t, patched.DisplayablePorts(), 3)
	assert.True(t, patched.Properties["threshold"].RawEquals(cty.NumberIntVal(3)))

	// The original is untouched.
	assert.Equal(t, "default", n.VariantID)
	assert.True(t, n.Properties["threshold"].RawEquals(cty.NumberIntVal(10)))
	assert.Empty(t, n.ActivePorts)

	missing := "nope"
	_, err = Patch{VariantID: &missing}.Apply(n)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestPatch_Flags(t *testing.T) {
	v := "default"
	pos := Position{X: 1}
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{Position: &pos}.IsEmpty())
	assert.False(t, Patch{Position: &pos}.AffectsPorts())
	assert.True(t, Patch{VariantID: &v}.AffectsPorts())
	assert.True(t, Patch{ActivePorts: map[string]bool{"x": false}}.AffectsPorts())
}

func TestEdge_TouchesPort(t *testing.T) {
	e := Edge{ID: "e1", Source: PortRef{Node: "node-1", Port: "out"}, Target: PortRef{Node: "node-2", Port: "in"}}

	assert.True(t, e.Touches("node-1"))
	assert.False(t, e.Touches("node-3"))
	assert.True(t, e.TouchesPort("node-1", model.PortKey{Direction: model.Output, Name: "out"}))
	assert.False(t, e.TouchesPort("node-1", model.PortKey{Direction: model.Input, Name: "out"}))
	assert.True(t, e.TouchesPort("node-2", model.PortKey{Direction: model.Input, Name: "in"}))
}

func TestNode_Clone(t *testing.T) {
	def, variants := conditional()
	n := NewNode(nodeid.New(1), def, variants, Position{})
	c := n.Clone()
	c.ActivePorts["x"] = true
	c.Variants[0].Ports[0].Name = "changed"
	c.Properties["threshold"] = cty.NumberIntVal(0)

	assert.NotContains(t, n.ActivePorts, "x")
	assert.Equal(t, "string1", n.Variants[0].Ports[0].Name)
	assert.True(t, n.Properties["threshold"].RawEquals(cty.NumberIntVal(10)))

	assert.Equal(t, []string{"a", "b"}, EdgeIDs([]Edge{{ID: "b"}, {ID: "a"}}))
}
