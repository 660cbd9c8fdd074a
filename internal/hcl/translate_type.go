// This file contains the logic for reading keyword attributes such as
// `kind = processor` or `type = number`.

package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// keyword reads an attribute written either as a bare identifier or as a
// string literal. A missing or null attribute yields fallback.
func keyword(expr hcl.Expression, fallback string) (string, hcl.Diagnostics) {
	if expr == nil {
		return fallback, nil
	}

	// A bare identifier parses as a single-step traversal.
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		if len(traversal) != 1 {
			return "", hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid keyword",
				Detail:   "Expected a simple keyword like 'number' or 'processor', not a nested reference.",
				Subject:  expr.Range().Ptr(),
			}}
		}
		return traversal.RootName(), nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() {
		return fallback, nil
	}
	if !val.Type().Equals(cty.String) {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid keyword",
			Detail:   fmt.Sprintf("Expected a keyword or a string, got %s.", val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return val.AsString(), nil
}

// literal evaluates an optional attribute that must be a literal value. It
// returns nil when the attribute is absent or null.
func literal(expr hcl.Expression) (*cty.Value, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	return &val, nil
}
