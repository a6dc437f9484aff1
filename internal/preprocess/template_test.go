package preprocess

import (
	"strings"
	"testing"
	"text/template"

	"github.com/specialistvlad/shadergen/internal/shaderdef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Preprocess(t *testing.T) {
	out, err := Template{}.Preprocess(
		"{{if .DEBUG}}dbg{{else}}rel{{end}} level={{.LEVEL}} offset={{.OFFSET}}",
		testDefs(),
	)
	require.NoError(t, err)
	assert.Equal(t, "rel level=10 offset=-2", out)
}

func TestTemplate_Funcs(t *testing.T) {
	tp := Template{Funcs: template.FuncMap{"upper": strings.ToUpper}}
	out, err := tp.Preprocess(`{{upper "wgsl"}}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "WGSL", out)
}

func TestTemplate_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := Template{}.Preprocess("{{.NOPE}}", testDefs())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "executing template")
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := Template{}.Preprocess("{{if}}", testDefs())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing template")
	})
}

func TestFunc(t *testing.T) {
	var seen map[string]shaderdef.Value
	pp := Func(func(source string, defs map[string]shaderdef.Value) (string, error) {
		seen = defs
		return strings.ToUpper(source), nil
	})

	out, err := pp.Preprocess("abc", testDefs())
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)
	assert.Equal(t, testDefs(), seen)
}
