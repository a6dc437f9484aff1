// Package bggohcl holds small helpers on top of hcl/v2 shared by the HCL
// job loader.
package bggohcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// FindUniqueBlock returns the first block of the given type, or nil when
// there is none. Every further block of that type produces an error
// diagnostic pointing at the duplicate and at the first definition.
func FindUniqueBlock(blocks hcl.Blocks, typeName string) (*hcl.Block, hcl.Diagnostics) {
	var (
		found *hcl.Block
		diags hcl.Diagnostics
	)
	for _, block := range blocks {
		if block.Type != typeName {
			continue
		}
		if found == nil {
			found = block
			continue
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf("Duplicate %q block", typeName),
			Detail:   fmt.Sprintf("Only one %q block is allowed; the first one is at %s.", typeName, found.DefRange),
			Subject:  block.DefRange.Ptr(),
			Context:  found.DefRange.Ptr(),
		})
	}
	return found, diags
}
