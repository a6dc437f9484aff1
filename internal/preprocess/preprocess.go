// Package preprocess turns a shader template plus a set of typed definitions
// into concrete shader source.
//
// Two implementations are provided: Directives, a line-directive processor
// compatible with the `#ifdef`/`#if`/`#define` dialect used by WGSL tooling,
// and Template, which runs the template through text/template. Hosts can plug
// in anything else through the Preprocessor interface or the Func adapter.
package preprocess

import "github.com/specialistvlad/shadergen/internal/shaderdef"

// Preprocessor expands a template using the given definitions. Implementations
// must not retain or modify defs.
type Preprocessor interface {
	Preprocess(source string, defs map[string]shaderdef.Value) (string, error)
}

// Func adapts an ordinary function to the Preprocessor interface.
type Func func(source string, defs map[string]shaderdef.Value) (string, error)

// Preprocess calls f(source, defs).
func (f Func) Preprocess(source string, defs map[string]shaderdef.Value) (string, error) {
	return f(source, defs)
}

// Names of the built-in preprocessors.
const (
	DirectivesName = "directives"
	TemplateName   = "gotemplate"
)
