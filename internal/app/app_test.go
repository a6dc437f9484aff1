package app

import (
	"context"
	"errors"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/shadergen/internal/config"
	"github.com/specialistvlad/shadergen/internal/dsl"
	"github.com/specialistvlad/shadergen/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDSL = `
pub value_enum LEVEL as Level: u32 { Low = 0, High = 10 }
pub variants Shader from "shaders/t.wgsl" {
	shared { DEBUG: bool = false },
	Fast(LEVEL),
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupProject(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shaders", "t.wgsl"), "level = #LEVEL;\n")
	writeFile(t, filepath.Join(dir, "shaders", "shader.wgslv"), src)
	writeFile(t, filepath.Join(dir, "shadergen.hcl"), `
settings {}

generate "shader" {
  source   = "shaders/shader.wgslv"
  output   = "shaders/shader_variants.go"
  manifest = "build/shader.yaml"
}
`)
	return dir
}

func TestRun_FromJobFile(t *testing.T) {
	dir := setupProject(t, testDSL)

	a, logs, err := SetupAppTest(t, &Config{ConfigPaths: []string{filepath.Join(dir, "shadergen.hcl")}})
	require.NoError(t, err)
	require.Len(t, a.Jobs(), 1)
	assert.Equal(t, "shaders", a.Jobs()[0].Package)

	require.NoError(t, a.Run(context.Background()))

	out := filepath.Join(dir, "shaders", "shader_variants.go")
	code, err := os.ReadFile(out)
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), out, code, 0)
	require.NoError(t, err)
	assert.Contains(t, string(code), `"level = 10u;\n"`)

	m, err := os.ReadFile(filepath.Join(dir, "build", "shader.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(m), "label: Fast(High)")

	assert.Contains(t, logs.String(), "Generated.")
}

func TestRun_FailureWritesNothing(t *testing.T) {
	dir := setupProject(t, `variants S from "shaders/t.wgsl" { Fast(MISSING) }`)

	a, _, err := SetupAppTest(t, &Config{ConfigPaths: []string{filepath.Join(dir, "shadergen.hcl")}})
	require.NoError(t, err)

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dsl.ErrUndefinedEnum)

	var je *JobError
	require.True(t, errors.As(err, &je))
	assert.Equal(t, "shader", je.Job)

	_, statErr := os.Stat(filepath.Join(dir, "shaders", "shader_variants.go"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "build", "shader.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_ManifestFailureKeepsOutput(t *testing.T) {
	dir := setupProject(t, testDSL)
	out := filepath.Join(dir, "shaders", "shader_variants.go")
	writeFile(t, out, "// previous output\n")
	// a regular file where the manifest directory should be
	writeFile(t, filepath.Join(dir, "build"), "")

	a, _, err := SetupAppTest(t, &Config{ConfigPaths: []string{filepath.Join(dir, "shadergen.hcl")}})
	require.NoError(t, err)

	require.Error(t, a.Run(context.Background()))

	code, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "// previous output\n", string(code))
}

func TestRun_AdHocJob(t *testing.T) {
	dir := setupProject(t, testDSL)
	out := filepath.Join(dir, "gen", "out.go")

	a, _, err := SetupAppTest(t, &Config{
		Root: dir,
		Jobs: []*config.Job{{
			Name:         "adhoc",
			Source:       filepath.Join(dir, "shaders", "shader.wgslv"),
			Output:       out,
			Package:      "gen",
			Preprocessor: "directives",
		}},
	})
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	code, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(code), "package gen")
}

func TestNewApp_UnknownPreprocessor(t *testing.T) {
	_, _, err := SetupAppTest(t, &Config{
		Jobs: []*config.Job{{Name: "x", Source: "x.wgslv", Output: "x.go", Preprocessor: "m4"}},
	})
	require.ErrorIs(t, err, registry.ErrUnknownPreprocessor)
}

func TestNewApp_LoadError(t *testing.T) {
	_, _, err := SetupAppTest(t, &Config{ConfigPaths: []string{filepath.Join(t.TempDir(), "missing.hcl")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load job files")
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.Error(t, err)

	_, err = NewConfig(Config{ConfigPaths: []string{"a.hcl"}, LogFormat: "xml"})
	assert.Error(t, err)

	_, err = NewConfig(Config{ConfigPaths: []string{"a.hcl"}, LogLevel: "trace"})
	assert.Error(t, err)

	_, err = NewConfig(Config{Jobs: []*config.Job{{Name: "x", Source: "x.wgslv"}}})
	assert.Error(t, err)

	cfg, err := NewConfig(Config{Jobs: []*config.Job{{Name: "x", Source: "x.wgslv", Output: "x.go"}}})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPreprocessor, cfg.Jobs[0].Preprocessor)
}
