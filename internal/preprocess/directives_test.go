package preprocess

import (
	"errors"
	"testing"

	"github.com/specialistvlad/shadergen/internal/shaderdef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() map[string]shaderdef.Value {
	return map[string]shaderdef.Value{
		"DEBUG":  shaderdef.Bool(false),
		"FAST":   shaderdef.Bool(true),
		"LEVEL":  shaderdef.UInt(10),
		"OFFSET": shaderdef.Int(-2),
	}
}

func TestDirectives_Preprocess(t *testing.T) {
	testCases := []struct {
		name     string
		source   string
		expected string
	}{
		{
			name:     "plain text passes through",
			source:   "fn main() {}\n",
			expected: "fn main() {}\n",
		},
		{
			name:     "ifdef true",
			source:   "a\n#ifdef FAST\nb\n#endif\nc",
			expected: "a\nb\nc",
		},
		{
			name:     "false bool counts as undefined",
			source:   "#ifdef DEBUG\nx\n#else\ny\n#endif",
			expected: "y",
		},
		{
			name:     "ifndef on missing name",
			source:   "#ifndef MISSING\nx\n#endif",
			expected: "x",
		},
		{
			name:     "if with comparison",
			source:   "#if LEVEL >= 10\nhi\n#else\nlo\n#endif",
			expected: "hi",
		},
		{
			name:     "else if chain picks first match",
			source:   "#if LEVEL == 1\none\n#else if LEVEL == 10\nten\n#else if LEVEL > 5\nbig\n#else\nother\n#endif",
			expected: "ten",
		},
		{
			name:     "else ifdef",
			source:   "#ifdef DEBUG\na\n#else ifdef FAST\nb\n#endif",
			expected: "b",
		},
		{
			name:     "bool equality",
			source:   "#if DEBUG == false\nd\n#endif",
			expected: "d",
		},
		{
			name:     "negative i32 comparison",
			source:   "#if OFFSET < 0\nneg\n#endif",
			expected: "neg",
		},
		{
			name:     "inactive region is not evaluated",
			source:   "#ifdef MISSING\n#if NOPE == 1\nx\n#endif\n#endif\nend",
			expected: "end",
		},
		{
			name:     "indented directives",
			source:   "  #ifdef FAST\n  b\n  #endif",
			expected: "  b",
		},
		{
			name:     "substitution",
			source:   "let n = #LEVEL;\nlet o = #{OFFSET};\nlet d = #DEBUG;",
			expected: "let n = 10u;\nlet o = -2;\nlet d = false;",
		},
		{
			name:     "unknown hash word is kept",
			source:   "#import bevy::pbr\nx",
			expected: "#import bevy::pbr\nx",
		},
		{
			name:     "define then use",
			source:   "#define EXTRA 3\n#ifdef EXTRA\nv = #EXTRA;\n#endif",
			expected: "v = 3u;",
		},
		{
			name:     "define without value is true",
			source:   "#define ON\n#ifdef ON\nyes\n#endif",
			expected: "yes",
		},
		{
			name:     "define inside inactive branch is ignored",
			source:   "#ifdef DEBUG\n#define ON\n#endif\n#ifndef ON\noff\n#endif",
			expected: "off",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Directives{}.Preprocess(tc.source, testDefs())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestDirectives_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		line   int
		target error
	}{
		{name: "missing endif", source: "x\n#ifdef FAST\ny", line: 2, target: ErrUnbalanced},
		{name: "stray endif", source: "x\n#endif", line: 2, target: ErrUnbalanced},
		{name: "stray else", source: "#else", line: 1, target: ErrUnbalanced},
		{name: "else after else", source: "#ifdef FAST\n#else\n#else\n#endif", line: 3, target: ErrUnbalanced},
		{name: "undefined in if", source: "#if NOPE == 1\n#endif", line: 1, target: ErrUndefined},
		{name: "undefined braced substitution", source: "a\nb = #{NOPE};", line: 2, target: ErrUndefined},
		{name: "bad operator", source: "#if LEVEL ~ 3\n#endif", line: 1, target: ErrMalformed},
		{name: "ordering on bool", source: "#if DEBUG < true\n#endif", line: 1, target: ErrMalformed},
		{name: "literal of wrong kind", source: "#if LEVEL == -1\n#endif", line: 1, target: ErrMalformed},
		{name: "ifdef without name", source: "#ifdef\n#endif", line: 1, target: ErrMalformed},
		{name: "garbage after else", source: "#ifdef FAST\n#else whatever\n#endif", line: 2, target: ErrMalformed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Directives{}.Preprocess(tc.source, testDefs())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)

			var de *DirectiveError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tc.line, de.Line)
		})
	}
}

func TestDirectives_DoesNotModifyDefs(t *testing.T) {
	defs := testDefs()
	_, err := Directives{}.Preprocess("#define EXTRA 1\n#define LEVEL 3", defs)
	require.NoError(t, err)

	assert.Equal(t, testDefs(), defs)
}

func TestDirectives_NilDefs(t *testing.T) {
	out, err := Directives{}.Preprocess("#ifdef X\nx\n#else\ny\n#endif", nil)
	require.NoError(t, err)
	assert.Equal(t, "y", out)
}
