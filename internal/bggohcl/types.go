package bggohcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/shadergen/internal/shaderdef"
	"github.com/zclconf/go-cty/cty"
)

// KindFromExpr reads a scalar kind from a `type` attribute. Both the bare
// keyword form (type = u32) and the string form (type = "u32") are accepted.
func KindFromExpr(expr hcl.Expression) (shaderdef.Kind, hcl.Diagnostics) {
	var keyword string
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() && len(traversal) == 1 {
		keyword = traversal.RootName()
	} else {
		val, diags := expr.Value(nil)
		if diags.HasErrors() || val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
			return shaderdef.KindInvalid, hcl.Diagnostics{invalidKind(expr, "The type must be one of the keywords bool, i32 or u32.")}
		}
		keyword = val.AsString()
	}

	kind, ok := shaderdef.ParseKind(keyword)
	if !ok {
		return shaderdef.KindInvalid, hcl.Diagnostics{invalidKind(expr, fmt.Sprintf("%q is not a valid type. Supported types are: bool, i32, u32.", keyword))}
	}
	return kind, nil
}

// ValueFromExpr evaluates expr without variables and converts the result to
// a value of the given kind.
func ValueFromExpr(expr hcl.Expression, kind shaderdef.Kind) (shaderdef.Value, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return shaderdef.Value{}, diags
	}
	v, err := shaderdef.FromCty(kind, val)
	if err != nil {
		return shaderdef.Value{}, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   fmt.Sprintf("The value does not fit type %s: %s.", kind, err),
			Subject:  expr.Range().Ptr(),
		})
	}
	return v, diags
}

func invalidKind(expr hcl.Expression, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid type specification",
		Detail:   detail,
		Subject:  expr.Range().Ptr(),
	}
}
