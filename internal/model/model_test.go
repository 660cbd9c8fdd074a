package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func conditionalVariants() []VariantDefinition {
	return []VariantDefinition{
		{
			ID: "string_compare",
			Ports: []PortDefinition{
				{Name: "string1", Direction: Input, Type: String},
				{Name: "string2", Direction: Input, Type: String},
				{Name: "match_output", Direction: Output, Type: Boolean, AllowMultiple: true},
				{Name: "detail_output", Direction: Output, Type: String, Optional: true},
			},
		},
		{
			ID: "default",
			Ports: []PortDefinition{
				{Name: "value", Direction: Input, Type: Number},
				{Name: "true_result", Direction: Output, Type: Any, AllowMultiple: true},
			},
		},
	}
}

func TestDisplayable(t *testing.T) {
	required := PortDefinition{Name: "in", Direction: Input}
	optionalOff := PortDefinition{Name: "detail", Direction: Output, Optional: true}
	optionalOn := PortDefinition{Name: "extra", Direction: Output, Optional: true, DefaultEnabled: true}

	testCases := []struct {
		name   string
		port   PortDefinition
		active map[string]bool
		want   bool
	}{
		{"required port is always shown", required, map[string]bool{"in": false}, true},
		{"optional port falls back to default off", optionalOff, nil, false},
		{"optional port falls back to default on", optionalOn, map[string]bool{}, true},
		{"explicit toggle wins over default", optionalOff, map[string]bool{"detail": true}, true},
		{"explicit off wins over default on", optionalOn, map[string]bool{"extra": false}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Displayable(tc.port, tc.active))
		})
	}
}

func TestDefaultVariant(t *testing.T) {
	t.Run("prefers the variant named default", func(t *testing.T) {
		v, ok := DefaultVariant(conditionalVariants())
		require.True(t, ok)
		assert.Equal(t, "default", v.ID)
	})

	t.Run("falls back to the first variant", func(t *testing.T) {
		v, ok := DefaultVariant(conditionalVariants()[:1])
		require.True(t, ok)
		assert.Equal(t, "string_compare", v.ID)
	})

	t.Run("empty list has no default", func(t *testing.T) {
		_, ok := DefaultVariant(nil)
		assert.False(t, ok)
	})
}

func TestVariantPorts(t *testing.T) {
	v := conditionalVariants()[0]

	active := v.InitialActivePorts()
	assert.Equal(t, map[string]bool{"detail_output": false}, active)

	names := func(ports []PortDefinition) []string {
		var out []string
		for _, p := range ports {
			out = append(out, p.Name)
		}
		return out
	}
	assert.Equal(t, []string{"string1", "string2", "match_output"}, names(v.DisplayablePorts(active)))
	assert.Equal(t, []string{"match_output", "detail_output"}, names(v.PortsOf(Output)))

	active["detail_output"] = true
	assert.Len(t, v.DisplayablePorts(active), 4)

	p, ok := v.Port(Output, "match_output")
	require.True(t, ok)
	assert.Equal(t, Boolean, p.EffectiveType())
	_, ok = v.Port(Input, "match_output")
	assert.False(t, ok)
}

func TestCloneVariants(t *testing.T) {
	orig := conditionalVariants()
	clone := CloneVariants(orig)
	clone[0].Ports[0].Name = "changed"
	assert.Equal(t, "string1", orig[0].Ports[0].Name)
}

func TestPropertyDefinition(t *testing.T) {
	def := PropertyDefinition{
		ID:   "method",
		Type: PropSelect,
		Options: []Option{
			{Label: "Pearson", Value: cty.StringVal("pearson")},
			{Label: "Spearman", Value: cty.StringVal("spearman")},
		},
	}
	assert.Equal(t, cty.String, def.ValueType())
	assert.True(t, def.HasOption(cty.StringVal("spearman")))
	assert.False(t, def.HasOption(cty.StringVal("kendall")))
	assert.False(t, def.HasOption(cty.NumberIntVal(1)))

	assert.Equal(t, cty.Number, PropertyDefinition{Type: PropNumber}.ValueType())
	assert.Equal(t, cty.String, PropertyDefinition{Type: PropColor}.ValueType())
}

func TestInitialProperties(t *testing.T) {
	k := cty.NumberIntVal(3)
	props := InitialProperties([]PropertyDefinition{
		{ID: "k", Type: PropNumber, Default: &k},
		{ID: "label", Type: PropString},
	})
	require.Len(t, props, 1)
	assert.True(t, props["k"].RawEquals(k))
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.AddModule(&ModuleDefinition{ID: "b", Name: "B"}, nil))
	require.NoError(t, c.AddModule(&ModuleDefinition{ID: "a", Name: "A"}, conditionalVariants()))
	c.AddCategory(Category{Key: "data-source", Title: "Sources"})

	other := NewCatalog()
	require.NoError(t, other.AddModule(&ModuleDefinition{ID: "c", Name: "C"}, nil))
	other.AddCategory(Category{Key: "data-source", Title: "Data sources"})
	require.NoError(t, c.Merge(other))

	assert.Equal(t, []string{"b", "a", "c"}, c.Order())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []Category{{Key: "data-source", Title: "Data sources"}}, c.Categories)
	assert.Len(t, c.Variants["a"], 2)
	assert.NotContains(t, c.Variants, "b")

	err := c.AddModule(&ModuleDefinition{ID: "a", Name: "again"}, nil)
	assert.ErrorContains(t, err, `module "a" is defined more than once`)
}

func TestParseKeywords(t *testing.T) {
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
	d, err := ParseDirection("output")
	require.NoError(t, err)
	assert.Equal(t, Output, d)

	k, err := ParseModuleKind("viz")
	require.NoError(t, err)
	assert.Equal(t, KindViz, k)
	_, err = ParseModuleKind("widget")
	assert.Error(t, err)

	pt, err := ParsePropertyType("color")
	require.NoError(t, err)
	assert.Equal(t, PropColor, pt)
	_, err = ParsePropertyType("date")
	assert.Error(t, err)
}
