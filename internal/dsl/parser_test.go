package dsl

import (
	"errors"
	"testing"

	"github.com/specialistvlad/shadergen/internal/shaderdef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	f, err := Parse([]byte(src), "test.wgslv")
	require.NoError(t, err)
	return f
}

func requireSyntaxError(t *testing.T, src string) *SyntaxError {
	t.Helper()
	_, err := Parse([]byte(src), "test.wgslv")
	require.Error(t, err)
	var se *SyntaxError
	require.True(t, errors.As(err, &se), "expected *SyntaxError, got %T: %v", err, err)
	return se
}

func TestParse_ValueEnum(t *testing.T) {
	f := mustParse(t, `
		// the fractal family
		pub value_enum VARIANT as Variant: u32 {
			Mandelbrot = 0,
			Modified = 1,
			BurningShip = 2,
		}
		value_enum MULTI: bool { Disabled = false, Enabled = true }
		value_enum OFFSET: i32 { Neg = -4, Zero = 0 }
	`)

	require.Len(t, f.ValueEnums, 3)
	require.Empty(t, f.Variants)

	v := f.ValueEnums[0]
	assert.True(t, v.Public)
	assert.Equal(t, "VARIANT", v.Name)
	assert.Equal(t, "Variant", v.CodegenName)
	assert.Equal(t, "Variant", v.TypeName())
	assert.Equal(t, "VARIANT", v.DefKey())
	assert.Equal(t, shaderdef.KindUInt, v.Kind)
	require.Len(t, v.Cases, 3)
	assert.Equal(t, "BurningShip", v.Cases[2].Name)
	assert.Equal(t, shaderdef.UInt(2), v.Cases[2].Value)
	assert.Equal(t, 3, v.Range.Start.Line)

	m := f.ValueEnums[1]
	assert.False(t, m.Public)
	assert.Equal(t, "MULTI", m.TypeName())
	assert.Equal(t, shaderdef.Bool(true), m.Cases[1].Value)

	o := f.ValueEnums[2]
	assert.Equal(t, shaderdef.Int(-4), o.Cases[0].Value)
}

func TestParse_VariantsDecl(t *testing.T) {
	f := mustParse(t, `
		pub variants LyapunovShader from "src/wgsl/lyapunov.wgsl" {
			shared { DEBUG: bool = false, ITER: u32 = 64 },
			LogisticMap { FUNC: u32 = 0 },
			SinMap { FUNC: u32 = 1, DEBUG: bool = true },
			Product(Variant, MULTI),
			Empty {},
		}
	`)

	require.Len(t, f.Variants, 1)
	d := f.Variants[0]
	assert.True(t, d.Public)
	assert.Equal(t, "LyapunovShader", d.Name)
	assert.Equal(t, "src/wgsl/lyapunov.wgsl", d.TemplatePath)

	require.Len(t, d.Shared, 2)
	assert.Equal(t, "DEBUG", d.Shared[0].Name)
	assert.Equal(t, shaderdef.Bool(false), d.Shared[0].Value)
	iter, ok := d.SharedValue("ITER")
	require.True(t, ok)
	assert.Equal(t, shaderdef.UInt(64), iter)

	require.Len(t, d.Variants, 4, "shared must not be an ordinary case")
	assert.Equal(t, HardCoded, d.Variants[0].Kind)
	assert.Equal(t, "LogisticMap", d.Variants[0].Name)
	assert.Equal(t, []string{"FUNC", "DEBUG"}, []string{d.Variants[1].Definitions[0].Name, d.Variants[1].Definitions[1].Name})

	cp := d.Variants[2]
	assert.Equal(t, CrossProduct, cp.Kind)
	require.Len(t, cp.EnumRefs, 2)
	assert.Equal(t, "Variant", cp.EnumRefs[0].Name)
	assert.Equal(t, "MULTI", cp.EnumRefs[1].Name)

	assert.NotNil(t, d.Variants[3].Definitions)
	assert.Empty(t, d.Variants[3].Definitions)
}

func TestParse_NoSharedBlock(t *testing.T) {
	f := mustParse(t, `variants S from "t.wgsl" { A {} }`)
	assert.Nil(t, f.Variants[0].Shared)

	f = mustParse(t, `variants S from "t.wgsl" { shared {}, A {} }`)
	assert.NotNil(t, f.Variants[0].Shared)
	assert.Empty(t, f.Variants[0].Shared)
}

func TestParse_Visibility(t *testing.T) {
	f := mustParse(t, `
		pub(crate) value_enum A: bool { X = true }
		pub value_enum B: bool { X = true }
		value_enum C: bool { X = true }
	`)
	assert.False(t, f.ValueEnums[0].Public)
	assert.True(t, f.ValueEnums[1].Public)
	assert.False(t, f.ValueEnums[2].Public)
}

func TestParse_StringEscapes(t *testing.T) {
	f := mustParse(t, `variants S from "dir\\t.wgsl" { A {} }`)
	assert.Equal(t, `dir\t.wgsl`, f.Variants[0].TemplatePath)
}

func TestParse_SyntaxErrors(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
		line     int
	}{
		{"unknown declaration", `enum A: bool { X = true }`, `"value_enum" or "variants"`, 1},
		{"missing colon", `value_enum A bool { X = true }`, `":"`, 1},
		{"unknown kind", `value_enum A: f32 { X = 1 }`, "bool, i32 or u32", 1},
		{"missing from", "variants S \"t.wgsl\" {}", `"from"`, 1},
		{"path is not a string", `variants S from t { }`, "template path", 1},
		{"bad variant body", "variants S from \"t\" {\n A [] }", `"{" or "("`, 2},
		{"missing comma", `value_enum A: u32 { X = 1 Y = 2 }`, `"," or "}"`, 1},
		{"unterminated block", `value_enum A: u32 { X = 1,`, "case name", 1},
		{"dash in name", `value_enum my-enum: u32 { X = 1 }`, "value_enum name", 1},
		{"keyword as name", `value_enum func: u32 { X = 1 }`, "value_enum name", 1},
		{"definition without kind", `variants S from "t" { A { X = 1 } }`, `":"`, 1},
		{"interpolated path", `variants S from "${x}" { }`, "closing quote", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			se := requireSyntaxError(t, tc.src)
			assert.Equal(t, tc.expected, se.Expected)
			assert.Equal(t, tc.line, se.Range.Start.Line)
			assert.Equal(t, "test.wgslv", se.Range.Filename)
		})
	}
}

func TestParse_LiteralKindMismatch(t *testing.T) {
	t.Run("bool literal for u32 case", func(t *testing.T) {
		se := requireSyntaxError(t, `value_enum LEVEL: u32 { Low = true }`)
		assert.Equal(t, "u32 literal", se.Expected)
		assert.Contains(t, se.Detail, "value_enum LEVEL")
		assert.Contains(t, se.Detail, "case Low")
	})

	t.Run("negative u32 definition", func(t *testing.T) {
		se := requireSyntaxError(t, `variants S from "t" { A { COUNT: u32 = -1 } }`)
		assert.Equal(t, "u32 literal", se.Expected)
		assert.Contains(t, se.Detail, "variant A")
		assert.Contains(t, se.Detail, "key COUNT")
	})

	t.Run("i32 overflow", func(t *testing.T) {
		se := requireSyntaxError(t, `value_enum N: i32 { Big = 2147483648 }`)
		assert.Contains(t, se.Detail, "out of range")
	})

	t.Run("number for bool", func(t *testing.T) {
		se := requireSyntaxError(t, `variants S from "t" { shared { DEBUG: bool = 0 } }`)
		assert.Equal(t, "bool literal", se.Expected)
		assert.Contains(t, se.Detail, "key DEBUG")
	})

	t.Run("fractional number", func(t *testing.T) {
		se := requireSyntaxError(t, `value_enum N: u32 { Half = 0.5 }`)
		assert.Equal(t, "u32 literal", se.Expected)
	})
}

func TestParse_SharedRules(t *testing.T) {
	t.Run("cross product shared is rejected", func(t *testing.T) {
		se := requireSyntaxError(t, `
			value_enum A: bool { X = true }
			variants S from "t" { shared(A) }
		`)
		assert.Contains(t, se.Detail, "shared block must list hardcoded definitions")
		assert.Equal(t, 3, se.Range.Start.Line)
	})

	t.Run("second shared block is rejected", func(t *testing.T) {
		se := requireSyntaxError(t, `variants S from "t" { shared {}, shared {} }`)
		assert.Equal(t, "a single shared block", se.Expected)
	})
}

func TestSyntaxError_Rendering(t *testing.T) {
	se := requireSyntaxError(t, "value_enum A: u32 {\n  X = true\n}")
	assert.Contains(t, se.Error(), "test.wgslv:2,")
	assert.Contains(t, se.Error(), "syntax error: expected u32 literal")

	diag := se.Diagnostic()
	require.NotNil(t, diag.Subject)
	assert.Equal(t, 2, diag.Subject.Start.Line)
	assert.Contains(t, diag.Detail, "value_enum A, case X")
}

func TestParse_InvalidCharacter(t *testing.T) {
	se := requireSyntaxError(t, "value_enum A: u32 { X = 1 } @")
	assert.Equal(t, 1, se.Range.Start.Line)
}
