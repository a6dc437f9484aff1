package bggohcl

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/shadergen/internal/shaderdef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func TestFindUniqueBlock(t *testing.T) {
	file, diags := hclsyntax.ParseConfig([]byte(`
settings {}
generate "a" {}
settings {}
`), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors())

	content, diags := file.Body.Content(&hcl.BodySchema{Blocks: []hcl.BlockHeaderSchema{
		{Type: "settings"},
		{Type: "generate", LabelNames: []string{"name"}},
	}})
	require.False(t, diags.HasErrors())

	block, diags := FindUniqueBlock(content.Blocks, "settings")
	require.NotNil(t, block)
	assert.Equal(t, 2, block.DefRange.Start.Line)
	require.Len(t, diags, 1)
	assert.Equal(t, `Duplicate "settings" block`, diags[0].Summary)
	assert.Equal(t, 4, diags[0].Subject.Start.Line)

	block, diags = FindUniqueBlock(content.Blocks, "missing")
	assert.Nil(t, block)
	assert.Empty(t, diags)
}

func TestKindFromExpr(t *testing.T) {
	testCases := []struct {
		src      string
		expected shaderdef.Kind
		wantErr  bool
	}{
		{src: `u32`, expected: shaderdef.KindUInt},
		{src: `i32`, expected: shaderdef.KindInt},
		{src: `bool`, expected: shaderdef.KindBool},
		{src: `"u32"`, expected: shaderdef.KindUInt},
		{src: `f32`, wantErr: true},
		{src: `"string"`, wantErr: true},
		{src: `1`, wantErr: true},
		{src: `a.b`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			kind, diags := KindFromExpr(attr(t, tc.src))
			if tc.wantErr {
				assert.True(t, diags.HasErrors())
				return
			}
			assert.False(t, diags.HasErrors(), diags.Error())
			assert.Equal(t, tc.expected, kind)
		})
	}
}

func TestValueFromExpr(t *testing.T) {
	v, diags := ValueFromExpr(attr(t, `32`), shaderdef.KindUInt)
	require.False(t, diags.HasErrors(), diags.Error())
	assert.Equal(t, shaderdef.UInt(32), v)

	v, diags = ValueFromExpr(attr(t, `-3`), shaderdef.KindInt)
	require.False(t, diags.HasErrors(), diags.Error())
	assert.Equal(t, shaderdef.Int(-3), v)

	v, diags = ValueFromExpr(attr(t, `true`), shaderdef.KindBool)
	require.False(t, diags.HasErrors(), diags.Error())
	assert.Equal(t, shaderdef.Bool(true), v)

	_, diags = ValueFromExpr(attr(t, `-1`), shaderdef.KindUInt)
	assert.True(t, diags.HasErrors())

	_, diags = ValueFromExpr(attr(t, `1.5`), shaderdef.KindInt)
	assert.True(t, diags.HasErrors())

	_, diags = ValueFromExpr(attr(t, `var.x`), shaderdef.KindInt)
	assert.True(t, diags.HasErrors())
}
