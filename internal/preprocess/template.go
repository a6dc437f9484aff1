package preprocess

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/specialistvlad/shadergen/internal/shaderdef"
)

// Template runs the source through text/template. Definitions are exposed as
// the data map, so `{{if .DEBUG}}` and `{{.LEVEL}}` work as expected.
// Referencing an unknown definition is an error.
type Template struct {
	Funcs template.FuncMap
}

// Preprocess implements Preprocessor.
func (t Template) Preprocess(source string, defs map[string]shaderdef.Value) (string, error) {
	tmpl := template.New("shader").Option("missingkey=error")
	if t.Funcs != nil {
		tmpl = tmpl.Funcs(t.Funcs)
	}
	tmpl, err := tmpl.Parse(source)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	data := make(map[string]any, len(defs))
	for k, v := range defs {
		data[k] = v.Interface()
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return b.String(), nil
}
