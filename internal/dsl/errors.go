package dsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Sentinel causes carried by ValidationError.Err.
var (
	ErrEmptyEnum          = errors.New("value_enum has no cases")
	ErrUndefinedEnum      = errors.New("undefined value_enum")
	ErrDuplicateName      = errors.New("duplicate name")
	ErrKindMismatch       = errors.New("kind mismatch")
	ErrNamespaceCollision = errors.New("name used as both a shared and an enum definition")
)

// SyntaxError reports malformed declaration text. It aborts parsing of the
// whole input.
type SyntaxError struct {
	Range    hcl.Range
	Expected string
	Found    string
	// Detail names the declaration and key for literal problems.
	Detail string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: syntax error: expected %s", e.Range.String(), e.Expected)
	if e.Found != "" {
		fmt.Fprintf(&b, ", found %s", e.Found)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	return b.String()
}

// Diagnostic renders the error as an HCL diagnostic.
func (e *SyntaxError) Diagnostic() *hcl.Diagnostic {
	detail := "Expected " + e.Expected
	if e.Found != "" {
		detail += ", found " + e.Found
	}
	detail += "."
	if e.Detail != "" {
		detail += " " + e.Detail + "."
	}
	rng := e.Range
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Syntax error",
		Detail:   detail,
		Subject:  &rng,
	}
}

// ValidationError reports a semantic problem found after parsing. Subject is
// the offending name; for ErrUndefinedEnum it is the missing enum.
type ValidationError struct {
	Declaration string
	Variant     string
	Subject     string
	Err         error
	Range       hcl.Range
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Declaration != "" {
		parts = append(parts, fmt.Sprintf("declaration %q", e.Declaration))
	}
	if e.Variant != "" {
		parts = append(parts, fmt.Sprintf("variant %q", e.Variant))
	}
	msg := e.Err.Error()
	if e.Subject != "" {
		msg += fmt.Sprintf(" %q", e.Subject)
	}
	return fmt.Sprintf("%s: %s: %s", e.Range.String(), strings.Join(parts, ", "), msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Diagnostic renders the error as an HCL diagnostic.
func (e *ValidationError) Diagnostic() *hcl.Diagnostic {
	rng := e.Range
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid declaration",
		Detail:   e.Error(),
		Subject:  &rng,
	}
}

// Diagnostics flattens err, which may be a joined error, into HCL
// diagnostics. Errors without a source location become range-less
// diagnostics.
func Diagnostics(err error) hcl.Diagnostics {
	if err == nil {
		return nil
	}
	var diags hcl.Diagnostics
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		var syn *SyntaxError
		var val *ValidationError
		switch {
		case errors.As(err, &syn):
			diags = append(diags, syn.Diagnostic())
		case errors.As(err, &val):
			diags = append(diags, val.Diagnostic())
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Generation failed",
				Detail:   err.Error(),
			})
		}
	}
	walk(err)
	return diags
}
