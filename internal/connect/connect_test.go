package connect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipecanvas/internal/graph"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/vk/pipecanvas/internal/nodeid"
)

func TestStrict(t *testing.T) {
	testCases := []struct {
		src, dst model.DataType
		want     bool
	}{
		{model.Number, model.Number, true},
		{model.Any, model.String, true},
		{model.Boolean, model.Any, true},
		{model.String, model.Number, false},
		{"", model.Number, true},
		{"image", "image", true},
		{"image", model.Record, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.src)+"->"+string(tc.dst), func(t *testing.T) {
			assert.Equal(t, tc.want, Strict.Compatible(tc.src, tc.dst))
		})
	}
}

func TestTable(t *testing.T) {
	table := NewTable().Allow("integer", model.Number)

	assert.True(t, table.Compatible("integer", model.Number))
	assert.False(t, table.Compatible(model.Number, "integer"))
	assert.True(t, table.Compatible(model.String, model.String))
	assert.True(t, table.Compatible(model.Any, "integer"))
	assert.False(t, table.Compatible(model.String, model.Number))
}

func node(id uint64, ports ...model.PortDefinition) *graph.Node {
	def := &model.ModuleDefinition{ID: "m", Name: "M", Kind: model.KindProcessor}
	return graph.NewNode(nodeid.New(id), def, []model.VariantDefinition{{ID: "default", Ports: ports}}, graph.Position{})
}

func TestValidator_Check(t *testing.T) {
	src := node(1,
		model.PortDefinition{Name: "match_output", Direction: model.Output, Type: model.Boolean},
		model.PortDefinition{Name: "result", Direction: model.Output, Type: model.Any},
	)
	dst := node(2,
		model.PortDefinition{Name: "value", Direction: model.Input, Type: model.Number},
		model.PortDefinition{Name: "flag", Direction: model.Input, Type: model.Boolean},
	)
	v := NewValidator(nil)

	e := func(out, in string) graph.Edge {
		return graph.Edge{Source: graph.PortRef{Node: src.ID, Port: out}, Target: graph.PortRef{Node: dst.ID, Port: in}}
	}

	assert.True(t, v.CanConnect(src, dst, e("match_output", "flag")))
	assert.True(t, v.CanConnect(src, dst, e("result", "value")))
	assert.True(t, v.CanConnect(src, dst, e("missing", "value")), "unresolvable ports are treated as any")
	assert.True(t, v.CanConnect(nil, dst, e("match_output", "value")))

	err := v.Check(src, dst, e("match_output", "value"))
	require.Error(t, err)
	var typeErr *IncompatibleTypesError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, model.Boolean, typeErr.SourceType)
	assert.Equal(t, model.Number, typeErr.TargetType)
	assert.Contains(t, err.Error(), "(boolean)")
	assert.Contains(t, err.Error(), "(number)")
}

func TestValidator_CustomCompatibility(t *testing.T) {
	src := node(1, model.PortDefinition{Name: "out", Direction: model.Output, Type: model.Boolean})
	dst := node(2, model.PortDefinition{Name: "in", Direction: model.Input, Type: model.Number})
	edge := graph.Edge{Source: graph.PortRef{Node: src.ID, Port: "out"}, Target: graph.PortRef{Node: dst.ID, Port: "in"}}

	assert.False(t, NewValidator(Strict).CanConnect(src, dst, edge))
	assert.True(t, NewValidator(NewTable().Allow(model.Boolean, model.Number)).CanConnect(src, dst, edge))
}
