package inspect

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"slices"
	"strings"

	"github.com/vk/pipecanvas/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// PropertyError reports a property value that does not fit its definition.
type PropertyError struct {
	Property string
	Reason   string
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property %q: %s", e.Property, e.Reason)
}

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Coerce converts v to the value type of def and checks range, options and
// format. A null value clears the property unless it is required.
func Coerce(def model.PropertyDefinition, v cty.Value) (cty.Value, error) {
	want := def.ValueType()
	if v.Type() == cty.NilType || v.IsNull() {
		if def.Required {
			return cty.NilVal, &PropertyError{Property: def.ID, Reason: "is required"}
		}
		return cty.NullVal(want), nil
	}
	if !v.IsWhollyKnown() {
		return cty.NilVal, &PropertyError{Property: def.ID, Reason: "value is not known"}
	}

	out := v
	if !want.Equals(cty.DynamicPseudoType) {
		var err error
		out, err = convert.Convert(v, want)
		if err != nil {
			return cty.NilVal, &PropertyError{
				Property: def.ID,
				Reason:   fmt.Sprintf("expected %s, got %s", want.FriendlyName(), v.Type().FriendlyName()),
			}
		}
	}

	switch def.Type {
	case model.PropNumber:
		if err := checkRange(def, out.AsBigFloat()); err != nil {
			return cty.NilVal, err
		}
	case model.PropSelect:
		if len(def.Options) > 0 && !def.HasOption(out) {
			return cty.NilVal, &PropertyError{Property: def.ID, Reason: "must be one of " + optionList(def)}
		}
	case model.PropColor:
		if !colorPattern.MatchString(out.AsString()) {
			return cty.NilVal, &PropertyError{Property: def.ID, Reason: fmt.Sprintf("%q is not a #rgb or #rrggbb color", out.AsString())}
		}
	}
	if def.Required && out.Type().Equals(cty.String) && strings.TrimSpace(out.AsString()) == "" {
		return cty.NilVal, &PropertyError{Property: def.ID, Reason: "is required"}
	}
	return out, nil
}

// CoerceAll coerces every value in props that has a definition on mod.
// Keys without a definition pass through unchanged.
func CoerceAll(mod *model.ModuleDefinition, props map[string]cty.Value) (map[string]cty.Value, error) {
	if len(props) == 0 {
		return props, nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(map[string]cty.Value, len(props))
	var errs []error
	for _, k := range keys {
		v := props[k]
		def, ok := mod.Property(k)
		if !ok {
			out[k] = v
			continue
		}
		cv, err := Coerce(def, v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[k] = cv
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func checkRange(def model.PropertyDefinition, f *big.Float) error {
	if def.Min != nil && f.Cmp(big.NewFloat(*def.Min)) < 0 {
		return &PropertyError{Property: def.ID, Reason: fmt.Sprintf("must be at least %g", *def.Min)}
	}
	if def.Max != nil && f.Cmp(big.NewFloat(*def.Max)) > 0 {
		return &PropertyError{Property: def.ID, Reason: fmt.Sprintf("must be at most %g", *def.Max)}
	}
	return nil
}

func optionList(def model.PropertyDefinition) string {
	parts := make([]string, 0, len(def.Options))
	for _, o := range def.Options {
		parts = append(parts, display(o.Value))
	}
	return strings.Join(parts, ", ")
}

// display renders a primitive value for messages.
func display(v cty.Value) string {
	if v.IsNull() || !v.IsKnown() {
		return "null"
	}
	switch v.Type() {
	case cty.String:
		return fmt.Sprintf("%q", v.AsString())
	case cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	}
	return v.Type().FriendlyName()
}
