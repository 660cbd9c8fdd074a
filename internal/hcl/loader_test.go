package hcl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipecanvas/internal/model"
	"github.com/zclconf/go-cty/cty"
)

const conditionalManifest = `
category "data-processing" {
  title = "Data processing"
}

module "conditional" {
  name        = "Conditional"
  kind        = processor
  category    = "data-processing"
  icon        = "🔀"
  description = "Routes data by a condition."

  property "operator" {
    type    = select
    label   = "Operator"
    default = "gt"
    option "gt" { label = "Greater than" }
    option "lt" {}
  }

  property "threshold" {
    type    = number
    default = "10"
    min     = 0
    max     = 100
  }

  variant "default" {
    name = "Number compare"
    input "value" { type = number }
    input "threshold" { type = "number" }
    output "true_result" { type = any }
    output "false_result" {}
  }

  variant "string_compare" {
    input "string1" { type = string }
    input "string2" {
      type                       = string
      allow_multiple_connections = true
    }
    output "match_output" { type = boolean }
    output "detail_output" {
      type     = string
      optional = true
    }
  }
}

module "notes" {
  name = "Notes"
  kind = "output"
}
`

func TestLoader_LoadBytes(t *testing.T) {
	catalog, err := NewLoader().LoadBytes(context.Background(), []byte(conditionalManifest), "conditional.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"conditional", "notes"}, catalog.Order())
	assert.Equal(t, []model.Category{{Key: "data-processing", Title: "Data processing"}}, catalog.Categories)

	mod := catalog.Modules["conditional"]
	require.NotNil(t, mod)
	assert.Equal(t, model.KindProcessor, mod.Kind)
	assert.Equal(t, "conditional.hcl", mod.Source)
	require.Len(t, mod.Properties, 2)

	op := mod.Properties[0]
	assert.Equal(t, model.PropSelect, op.Type)
	require.Len(t, op.Options, 2)
	assert.Equal(t, "lt", op.Options[1].Label)
	require.NotNil(t, op.Default)
	assert.True(t, op.Default.RawEquals(cty.StringVal("gt")))

	threshold := mod.Properties[1]
	assert.Equal(t, "threshold", threshold.Label)
	require.NotNil(t, threshold.Default)
	assert.True(t, threshold.Default.RawEquals(cty.NumberIntVal(10)))
	require.NotNil(t, threshold.Max)
	assert.Equal(t, 100.0, *threshold.Max)

	variants := catalog.Variants["conditional"]
	require.Len(t, variants, 2)

	def := variants[0]
	assert.Equal(t, "Number compare", def.Name)
	falseResult, ok := def.Port(model.Output, "false_result")
	require.True(t, ok)
	assert.Equal(t, model.Any, falseResult.Type)
	assert.True(t, falseResult.AllowMultiple)
	value, ok := def.Port(model.Input, "value")
	require.True(t, ok)
	assert.False(t, value.AllowMultiple)
	assert.True(t, value.DefaultEnabled)

	str := variants[1]
	assert.Equal(t, "string_compare", str.Name)
	detail, ok := str.Port(model.Output, "detail_output")
	require.True(t, ok)
	assert.True(t, detail.Optional)
	assert.False(t, detail.DefaultEnabled)
	s2, ok := str.Port(model.Input, "string2")
	require.True(t, ok)
	assert.True(t, s2.AllowMultiple)

	assert.Empty(t, catalog.Variants["notes"])
	assert.Equal(t, model.KindOutput, catalog.Modules["notes"].Kind)
}

func TestLoader_LoadBytes_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `module "x" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "missing name",
			src:     `module "x" { kind = source }`,
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "unknown kind",
			src: `module "x" {
  name = "X"
  kind = widget
}`,
			wantErr: "Unknown module kind",
		},
		{
			name: "unknown property type",
			src: `module "x" {
  name = "X"
  kind = source
  property "p" { type = date }
}`,
			wantErr: "Unknown property type",
		},
		{
			name: "default not convertible",
			src: `module "x" {
  name = "X"
  kind = source
  property "p" {
    type    = number
    default = "ten"
  }
}`,
			wantErr: "Invalid default value",
		},
		{
			name: "duplicate port",
			src: `module "x" {
  name = "X"
  kind = source
  variant "default" {
    output "a" {}
    output "a" {}
  }
}`,
			wantErr: "Duplicate output definition",
		},
		{
			name: "duplicate variant",
			src: `module "x" {
  name = "X"
  kind = source
  variant "default" {}
  variant "default" {}
}`,
			wantErr: "Duplicate variant definition",
		},
		{
			name: "duplicate module",
			src: `module "x" {
  name = "X"
  kind = source
}
module "x" {
  name = "Y"
  kind = source
}`,
			wantErr: "defined more than once",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().LoadBytes(context.Background(), []byte(tc.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoader_Extensions(t *testing.T) {
	assert.Equal(t, []string{".hcl"}, NewLoader().Extensions())
}

func TestMarshal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	original, err := NewLoader().LoadBytes(ctx, []byte(conditionalManifest), "conditional.hcl")
	require.NoError(t, err)

	out := Marshal(original)
	assert.Regexp(t, `kind\s+= processor`, string(out))

	reloaded, err := NewLoader().LoadBytes(ctx, out, "conditional.hcl")
	require.NoError(t, err, string(out))

	assert.Equal(t, original.Categories, reloaded.Categories)
	assert.Equal(t, original.Order(), reloaded.Order())
	assert.Equal(t, original.Variants, reloaded.Variants)

	for _, id := range original.Order() {
		before, after := original.Modules[id], reloaded.Modules[id]
		assert.Equal(t, before.Name, after.Name)
		assert.Equal(t, before.Kind, after.Kind)
		assert.Equal(t, before.Icon, after.Icon)
		assert.Equal(t, before.Description, after.Description)
		require.Len(t, after.Properties, len(before.Properties))
		for i, p := range before.Properties {
			q := after.Properties[i]
			assert.Equal(t, p.Label, q.Label)
			assert.Equal(t, p.Type, q.Type)
			assert.Equal(t, p.Min, q.Min)
			assert.Equal(t, p.Max, q.Max)
			require.NotNil(t, q.Default)
			assert.True(t, p.Default.RawEquals(*q.Default), "default of %s", p.ID)
			require.Len(t, q.Options, len(p.Options))
			for j, o := range p.Options {
				assert.Equal(t, o.Label, q.Options[j].Label)
			}
		}
	}
}
