// Package gotemplate registers the text/template based preprocessor under
// the name "gotemplate".
package gotemplate

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/specialistvlad/shadergen/internal/preprocess"
	"github.com/specialistvlad/shadergen/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Funcs are the helpers available inside shader templates.
var Funcs = template.FuncMap{
	// wgsl renders a value as a WGSL literal: unsigned values get a `u` suffix.
	"wgsl": func(v any) string {
		if u, ok := v.(uint32); ok {
			return fmt.Sprintf("%du", u)
		}
		return fmt.Sprint(v)
	},
	"join": strings.Join,
}

// Register registers the preprocessor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPreprocessor(preprocess.TemplateName, preprocess.Template{Funcs: Funcs})
}
