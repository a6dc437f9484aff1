package preprocess

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/specialistvlad/shadergen/internal/shaderdef"
)

var (
	ErrUnbalanced = errors.New("unbalanced conditional")
	ErrUndefined  = errors.New("undefined definition")
	ErrMalformed  = errors.New("malformed directive")
)

// DirectiveError reports a failure on a specific template line.
type DirectiveError struct {
	Line int
	Err  error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *DirectiveError) Unwrap() error { return e.Err }

// Directives is a line-oriented preprocessor understanding:
//
//	#ifdef NAME / #ifndef NAME
//	#if NAME op LITERAL         (op is one of == != < <= > >=)
//	#else [ifdef|ifndef|if ...]
//	#endif
//	#define NAME [LITERAL]
//
// Outside of directives, #NAME and #{NAME} are replaced with the value of a
// definition. Unsigned values are written with a `u` suffix so they stay u32
// literals in WGSL. A definition holding false counts as undefined for #ifdef
// and #ifndef.
type Directives struct{}

var (
	condPattern  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(==|!=|<=|>=|<|>)\s*(\S+)$`)
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	substPattern = regexp.MustCompile(`#\{([A-Za-z_][A-Za-z0-9_]*)\}|#([A-Za-z_][A-Za-z0-9_]*)`)
)

// Preprocess implements Preprocessor.
func (Directives) Preprocess(source string, defs map[string]shaderdef.Value) (string, error) {
	st := &directiveState{defs: maps.Clone(defs)}
	if st.defs == nil {
		st.defs = make(map[string]shaderdef.Value)
	}

	lines := strings.Split(source, "\n")
	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		st.line = i + 1
		out, keep, err := st.process(line)
		if err != nil {
			return "", &DirectiveError{Line: st.line, Err: err}
		}
		if keep {
			kept = append(kept, out)
		}
	}
	if n := len(st.stack); n > 0 {
		return "", &DirectiveError{
			Line: st.stack[n-1].line,
			Err:  fmt.Errorf("%w: missing #endif", ErrUnbalanced),
		}
	}
	return strings.Join(kept, "\n"), nil
}

type frame struct {
	line    int
	parent  bool
	active  bool
	taken   bool
	sawElse bool
}

type directiveState struct {
	defs  map[string]shaderdef.Value
	stack []frame
	line  int
}

func (s *directiveState) emitting() bool {
	return len(s.stack) == 0 || s.stack[len(s.stack)-1].active
}

// process handles one line and reports whether it belongs in the output.
func (s *directiveState) process(line string) (string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return s.text(line)
	}
	word, rest := splitWord(trimmed[1:])

	switch word {
	case "ifdef", "ifndef", "if":
		f := frame{line: s.line, parent: s.emitting()}
		if f.parent {
			ok, err := s.condition(word, rest)
			if err != nil {
				return "", false, err
			}
			f.active, f.taken = ok, ok
		}
		s.stack = append(s.stack, f)
		return "", false, nil

	case "else":
		if len(s.stack) == 0 {
			return "", false, fmt.Errorf("%w: #else without #if", ErrUnbalanced)
		}
		top := &s.stack[len(s.stack)-1]
		if top.sawElse {
			return "", false, fmt.Errorf("%w: #else after #else", ErrUnbalanced)
		}
		if rest == "" {
			top.sawElse = true
			top.active = top.parent && !top.taken
			top.taken = top.taken || top.active
			return "", false, nil
		}
		kw, cond := splitWord(rest)
		switch kw {
		case "ifdef", "ifndef", "if":
		default:
			return "", false, fmt.Errorf("%w: unexpected %q after #else", ErrMalformed, rest)
		}
		top.active = false
		if top.parent && !top.taken {
			ok, err := s.condition(kw, cond)
			if err != nil {
				return "", false, err
			}
			top.active, top.taken = ok, ok
		}
		return "", false, nil

	case "endif":
		if len(s.stack) == 0 {
			return "", false, fmt.Errorf("%w: #endif without #if", ErrUnbalanced)
		}
		s.stack = s.stack[:len(s.stack)-1]
		return "", false, nil

	case "define":
		if !s.emitting() {
			return "", false, nil
		}
		name, lit := splitWord(rest)
		if !identPattern.MatchString(name) {
			return "", false, fmt.Errorf("%w: #define needs a name", ErrMalformed)
		}
		v, err := s.defineValue(name, lit)
		if err != nil {
			return "", false, fmt.Errorf("%w: #define %s: %v", ErrMalformed, name, err)
		}
		s.defs[name] = v
		return "", false, nil
	}

	return s.text(line)
}

func (s *directiveState) text(line string) (string, bool, error) {
	if !s.emitting() {
		return "", false, nil
	}
	out, err := s.substitute(line)
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

func (s *directiveState) defined(name string) bool {
	v, ok := s.defs[name]
	if !ok {
		return false
	}
	if b, isBool := v.AsBool(); isBool {
		return b
	}
	return true
}

func (s *directiveState) condition(kind, rest string) (bool, error) {
	switch kind {
	case "ifdef", "ifndef":
		if !identPattern.MatchString(rest) {
			return false, fmt.Errorf("%w: #%s needs a single name, got %q", ErrMalformed, kind, rest)
		}
		return s.defined(rest) == (kind == "ifdef"), nil
	}

	m := condPattern.FindStringSubmatch(rest)
	if m == nil {
		return false, fmt.Errorf("%w: #if expects NAME op VALUE, got %q", ErrMalformed, rest)
	}
	name, op, lit := m[1], m[2], m[3]
	def, ok := s.defs[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUndefined, name)
	}
	rhs, err := shaderdef.ParseLiteral(def.Kind(), lit)
	if err != nil {
		return false, fmt.Errorf("%w: #if %s: %v", ErrMalformed, name, err)
	}
	if def.Kind() == shaderdef.KindBool && op != "==" && op != "!=" {
		return false, fmt.Errorf("%w: operator %s is not defined for bool", ErrMalformed, op)
	}

	a, b := def.Integer(), rhs.Integer()
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	default:
		return a >= b, nil
	}
}

// defineValue infers the kind of a #define literal. A redefinition keeps the
// kind of the existing definition.
func (s *directiveState) defineValue(name, lit string) (shaderdef.Value, error) {
	if lit == "" {
		return shaderdef.Bool(true), nil
	}
	if prev, ok := s.defs[name]; ok {
		return shaderdef.ParseLiteral(prev.Kind(), lit)
	}
	switch {
	case lit == "true" || lit == "false":
		return shaderdef.ParseLiteral(shaderdef.KindBool, lit)
	case strings.HasPrefix(lit, "-"):
		return shaderdef.ParseLiteral(shaderdef.KindInt, lit)
	default:
		return shaderdef.ParseLiteral(shaderdef.KindUInt, lit)
	}
}

// substitute replaces #{NAME} and #NAME occurrences. An unknown #NAME is left
// alone (it may be an unrelated directive such as #import); an unknown
// #{NAME} is an error.
func (s *directiveState) substitute(line string) (string, error) {
	matches := substPattern.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return line, nil
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		braced := m[2] >= 0
		var name string
		if braced {
			name = line[m[2]:m[3]]
		} else {
			name = line[m[4]:m[5]]
		}
		v, ok := s.defs[name]
		if !ok {
			if braced {
				return "", fmt.Errorf("%w: %s", ErrUndefined, name)
			}
			continue
		}
		b.WriteString(line[last:m[0]])
		b.WriteString(literalText(v))
		last = m[1]
	}
	b.WriteString(line[last:])
	return b.String(), nil
}

func literalText(v shaderdef.Value) string {
	if v.Kind() == shaderdef.KindUInt {
		return v.String() + "u"
	}
	return v.String()
}

// splitWord returns the leading identifier of s and the trimmed remainder.
func splitWord(s string) (string, string) {
	i := 0
	for i < len(s) && (s[i] == '_' || s[i] >= 'a' && s[i] <= 'z' || s[i] >= 'A' && s[i] <= 'Z' || i > 0 && s[i] >= '0' && s[i] <= '9') {
		i++
	}
	return s[:i], strings.TrimSpace(s[i:])
}
