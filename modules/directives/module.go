// Package directives registers the line-directive preprocessor
// (#ifdef / #if / #define) under the name "directives".
package directives

import (
	"github.com/specialistvlad/shadergen/internal/preprocess"
	"github.com/specialistvlad/shadergen/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the preprocessor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPreprocessor(preprocess.DirectivesName, preprocess.Directives{})
}
